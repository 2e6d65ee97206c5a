package pipeline

import (
	"context"
	"errors"
	"testing"

	"product-media-pipeline/application/session"
	"product-media-pipeline/domain/catalog"
	"product-media-pipeline/domain/generation"
	"product-media-pipeline/domain/pipeline"
)

// switchingGenerator fails for configured keys and succeeds otherwise
type switchingGenerator struct {
	failKeys map[string]*generation.GenerationError
	seen     []catalog.ProductRecord
}

func (g *switchingGenerator) Generate(ctx context.Context, record catalog.ProductRecord) (*generation.GenerationResult, error) {
	g.seen = append(g.seen, record)
	if gerr, ok := g.failKeys[record.Key()]; ok {
		return &generation.GenerationResult{Failure: gerr}, nil
	}
	return generation.Success([]byte("video"), "video/mp4", "blog"), nil
}

func newTestOrchestrator(gen generation.Generator, store *mockStore) (*Orchestrator, *session.Store) {
	state := session.NewStore()
	processor := NewProcessor(gen, store, "outputs-id", nil)
	return NewOrchestrator(processor, state, nil), state
}

func TestOrchestrator_OneOutcomePerRecordInOrder(t *testing.T) {
	records := []catalog.ProductRecord{
		{ListingID: "L1", ProductID: "P1", Title: "Shoe"},
		{ListingID: "L1", ProductID: "P2", Title: "Hat"},
		{ListingID: "L2", ProductID: "P1", Title: "Sock"},
	}
	orch, _ := newTestOrchestrator(&switchingGenerator{}, &mockStore{})

	report, err := orch.RunBatch(context.Background(), records, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Outcomes) != len(records) {
		t.Fatalf("got %d outcomes, want %d", len(report.Outcomes), len(records))
	}
	for i, r := range records {
		if report.Outcomes[i].Key != r.Key() {
			t.Errorf("outcome %d key = %q, want %q", i, report.Outcomes[i].Key, r.Key())
		}
	}
}

func TestOrchestrator_FailedRowDoesNotAbortBatch(t *testing.T) {
	records := []catalog.ProductRecord{
		{ListingID: "L1", ProductID: "P1", Title: "Shoe"},
		{ListingID: "L1", ProductID: "P2", Title: "Hat"},
	}
	gen := &switchingGenerator{
		failKeys: map[string]*generation.GenerationError{
			"L1_P1": {Kind: generation.KindBackend, Message: "boom"},
		},
	}
	orch, _ := newTestOrchestrator(gen, &mockStore{})

	report, err := orch.RunBatch(context.Background(), records, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Outcomes[0].Status != pipeline.StatusGenerationFailed {
		t.Errorf("first outcome = %q, want generation-failed", report.Outcomes[0].Status)
	}
	if report.Outcomes[1].Status != pipeline.StatusSuccess {
		t.Errorf("second outcome = %q, want success", report.Outcomes[1].Status)
	}
}

func TestOrchestrator_DuplicateKeysRejectBatchBeforeAnyCall(t *testing.T) {
	records := []catalog.ProductRecord{
		{ListingID: "L1", ProductID: "P1", Title: "Shoe"},
		{ListingID: "L1", ProductID: "P1", Title: "Shoe again"},
	}
	gen := &switchingGenerator{}
	store := &mockStore{}
	orch, _ := newTestOrchestrator(gen, store)

	_, err := orch.RunBatch(context.Background(), records, nil)

	var verr *catalog.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *catalog.ValidationError, got %v", err)
	}
	if len(gen.seen) != 0 {
		t.Errorf("generator called %d times for rejected batch", len(gen.seen))
	}
	if store.ensureCalls != 0 || len(store.uploads) != 0 {
		t.Error("store called for rejected batch")
	}
}

func TestOrchestrator_PanicBecomesGenerationFailedOutcome(t *testing.T) {
	records := []catalog.ProductRecord{
		{ListingID: "L1", ProductID: "P1", Title: "Shoe"},
		{ListingID: "L1", ProductID: "P2", Title: "Hat"},
	}
	gen := &mockGenerator{panicWith: "backend client bug"}
	orch, _ := newTestOrchestrator(gen, &mockStore{})

	report, err := orch.RunBatch(context.Background(), records, nil)
	if err != nil {
		t.Fatalf("panic escaped the record boundary: %v", err)
	}

	if len(report.Outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(report.Outcomes))
	}
	for i, o := range report.Outcomes {
		if o.Status != pipeline.StatusGenerationFailed {
			t.Errorf("outcome %d status = %q, want generation-failed", i, o.Status)
		}
	}
}

func TestOrchestrator_StopAfterCurrentRecord(t *testing.T) {
	records := []catalog.ProductRecord{
		{ListingID: "L1", ProductID: "P1", Title: "Shoe"},
		{ListingID: "L1", ProductID: "P2", Title: "Hat"},
		{ListingID: "L1", ProductID: "P3", Title: "Sock"},
	}
	var orch *Orchestrator
	gen := &stoppingGenerator{stop: func() { orch.Stop() }}
	state := session.NewStore()
	orch = NewOrchestrator(NewProcessor(gen, &mockStore{}, "outputs-id", nil), state, nil)

	report, err := orch.RunBatch(context.Background(), records, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The stop request lands during record one; it completes, the rest
	// are never started.
	if len(report.Outcomes) != 1 {
		t.Errorf("got %d outcomes after stop, want 1", len(report.Outcomes))
	}
}

// stoppingGenerator requests a stop during its first call
type stoppingGenerator struct {
	stop   func()
	called bool
}

func (g *stoppingGenerator) Generate(ctx context.Context, record catalog.ProductRecord) (*generation.GenerationResult, error) {
	if !g.called {
		g.called = true
		g.stop()
	}
	return generation.Success([]byte("video"), "video/mp4", "blog"), nil
}

func TestOrchestrator_ScenarioImageIndexJoin(t *testing.T) {
	// CSV rows (L1,P1,Shoe) and (L1,P2,Hat); images JSON maps P1 to two
	// URLs and has no entry for P2. Both rows are attempted
	// independently; the first sees two images, the second none.
	records := []catalog.ProductRecord{
		{ListingID: "L1", ProductID: "P1", Title: "Shoe", Description: "Red running shoe"},
		{ListingID: "L1", ProductID: "P2", Title: "Hat", Description: "Blue cap"},
	}
	index := make(catalog.ImageIndex)
	index.Add("L1_P1", []catalog.ImageRef{
		{URL: "https://cdn.example.com/shoe-1.jpg"},
		{URL: "https://cdn.example.com/shoe-2.jpg"},
	})

	gen := &switchingGenerator{
		failKeys: map[string]*generation.GenerationError{
			"L1_P1": {Kind: generation.KindTimeout, Message: "backend timeout"},
		},
	}
	orch, _ := newTestOrchestrator(gen, &mockStore{})

	report, err := orch.RunBatch(context.Background(), records, index)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(report.Outcomes))
	}
	if len(gen.seen) != 2 {
		t.Fatalf("generator called %d times, want 2", len(gen.seen))
	}
	if got := len(gen.seen[0].Images); got != 2 {
		t.Errorf("first record resolved %d images, want 2", got)
	}
	if got := len(gen.seen[1].Images); got != 0 {
		t.Errorf("second record resolved %d images, want 0", got)
	}
	if report.Outcomes[0].Status != pipeline.StatusGenerationFailed {
		t.Errorf("first outcome = %q, want generation-failed", report.Outcomes[0].Status)
	}
	if report.Outcomes[1].Status != pipeline.StatusSuccess {
		t.Errorf("second outcome = %q, want success despite first row failing", report.Outcomes[1].Status)
	}
}
