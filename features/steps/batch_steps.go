//go:build integration

package steps

import (
	"context"
	"errors"
	"fmt"

	apppipeline "product-media-pipeline/application/pipeline"
	"product-media-pipeline/application/session"
	"product-media-pipeline/domain/catalog"
	"product-media-pipeline/domain/distribution"
	"product-media-pipeline/domain/generation"
	"product-media-pipeline/domain/pipeline"

	"github.com/cucumber/godog"
)

// scriptedGenerator fails for configured keys and succeeds otherwise
type scriptedGenerator struct {
	failKeys map[string]bool
	calls    int
}

func (g *scriptedGenerator) Generate(ctx context.Context, record catalog.ProductRecord) (*generation.GenerationResult, error) {
	g.calls++
	if g.failKeys[record.Key()] {
		return generation.Failed(generation.KindBackend, "scripted failure"), nil
	}
	return generation.Success([]byte("video-bytes"), "video/mp4", "blog for "+record.Title), nil
}

// scriptedStore records folder and upload calls per product key
type scriptedStore struct {
	uploadErr   *distribution.RemoteWriteError
	folders     []string
	uploadsFor  map[string]int
	lastFolders map[string]string
}

func (s *scriptedStore) EnsureFolder(ctx context.Context, parentID, name string) (string, error) {
	s.folders = append(s.folders, name)
	id := "folder-" + name
	s.lastFolders[name] = id
	return id, nil
}

func (s *scriptedStore) UploadFile(ctx context.Context, folderID, filename string, data []byte, mimeType string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploadsFor[folderID]++
	return "file-" + filename, nil
}

// batchContext holds test state for batch scenarios
type batchContext struct {
	records   []catalog.ProductRecord
	generator *scriptedGenerator
	store     *scriptedStore
	report    *pipeline.BatchRunReport
	runErr    error
}

func InitializeBatchScenario(ctx *godog.ScenarioContext) {
	bc := &batchContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		*bc = batchContext{
			generator: &scriptedGenerator{failKeys: map[string]bool{}},
			store: &scriptedStore{
				uploadsFor:  map[string]int{},
				lastFolders: map[string]string{},
			},
		}
		return c, nil
	})

	ctx.Step(`^a batch with records:$`, bc.aBatchWithRecords)
	ctx.Step(`^generation fails for "([^"]*)"$`, bc.generationFailsFor)
	ctx.Step(`^uploads fail with a quota error$`, bc.uploadsFailWithQuota)
	ctx.Step(`^the batch is run$`, bc.theBatchIsRun)
	ctx.Step(`^the report has (\d+) outcomes$`, bc.theReportHasOutcomes)
	ctx.Step(`^outcome (\d+) is for "([^"]*)"$`, bc.outcomeIsFor)
	ctx.Step(`^outcome (\d+) has status "([^"]*)"$`, bc.outcomeHasStatus)
	ctx.Step(`^outcome (\d+) still carries the generated blog text$`, bc.outcomeCarriesBlog)
	ctx.Step(`^no upload was attempted for "([^"]*)"$`, bc.noUploadAttemptedFor)
	ctx.Step(`^the batch is rejected with a validation error$`, bc.batchRejected)
	ctx.Step(`^no generation call was made$`, bc.noGenerationCall)
}

func (bc *batchContext) aBatchWithRecords(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("table needs a header and at least one row")
	}
	cols := map[string]int{}
	for i, cell := range table.Rows[0].Cells {
		cols[cell.Value] = i
	}
	for _, row := range table.Rows[1:] {
		bc.records = append(bc.records, catalog.ProductRecord{
			ListingID: row.Cells[cols["listingId"]].Value,
			ProductID: row.Cells[cols["productId"]].Value,
			Title:     row.Cells[cols["title"]].Value,
		})
	}
	return nil
}

func (bc *batchContext) generationFailsFor(key string) error {
	bc.generator.failKeys[key] = true
	return nil
}

func (bc *batchContext) uploadsFailWithQuota() error {
	bc.store.uploadErr = &distribution.RemoteWriteError{
		Kind: distribution.WriteErrQuota,
		Op:   "upload file",
		Name: "video.mp4",
		Err:  fmt.Errorf("storage quota exceeded"),
	}
	return nil
}

func (bc *batchContext) theBatchIsRun() error {
	state := session.NewStore()
	processor := apppipeline.NewProcessor(bc.generator, bc.store, "outputs-id", nil)
	orchestrator := apppipeline.NewOrchestrator(processor, state, nil)
	bc.report, bc.runErr = orchestrator.RunBatch(context.Background(), bc.records, nil)
	return nil
}

func (bc *batchContext) theReportHasOutcomes(n int) error {
	if bc.runErr != nil {
		return fmt.Errorf("batch run failed: %w", bc.runErr)
	}
	if len(bc.report.Outcomes) != n {
		return fmt.Errorf("report has %d outcomes, want %d", len(bc.report.Outcomes), n)
	}
	return nil
}

func (bc *batchContext) outcome(n int) (pipeline.RowOutcome, error) {
	if bc.report == nil || n < 1 || n > len(bc.report.Outcomes) {
		return pipeline.RowOutcome{}, fmt.Errorf("no outcome %d", n)
	}
	return bc.report.Outcomes[n-1], nil
}

func (bc *batchContext) outcomeIsFor(n int, key string) error {
	o, err := bc.outcome(n)
	if err != nil {
		return err
	}
	if o.Key != key {
		return fmt.Errorf("outcome %d is for %q, want %q", n, o.Key, key)
	}
	return nil
}

func (bc *batchContext) outcomeHasStatus(n int, status string) error {
	o, err := bc.outcome(n)
	if err != nil {
		return err
	}
	if string(o.Status) != status {
		return fmt.Errorf("outcome %d has status %q, want %q", n, o.Status, status)
	}
	return nil
}

func (bc *batchContext) outcomeCarriesBlog(n int) error {
	o, err := bc.outcome(n)
	if err != nil {
		return err
	}
	if o.Blog == "" || len(o.Video) == 0 {
		return fmt.Errorf("outcome %d lost its artifacts", n)
	}
	return nil
}

func (bc *batchContext) noUploadAttemptedFor(key string) error {
	for _, name := range bc.store.folders {
		if name == key {
			return fmt.Errorf("folder was ensured for %q", key)
		}
	}
	if n := bc.store.uploadsFor["folder-"+key]; n != 0 {
		return fmt.Errorf("%d uploads attempted for %q", n, key)
	}
	return nil
}

func (bc *batchContext) batchRejected() error {
	var verr *catalog.ValidationError
	if !errors.As(bc.runErr, &verr) {
		return fmt.Errorf("expected a validation error, got %v", bc.runErr)
	}
	return nil
}

func (bc *batchContext) noGenerationCall() error {
	if bc.generator.calls != 0 {
		return fmt.Errorf("generator called %d times", bc.generator.calls)
	}
	return nil
}
