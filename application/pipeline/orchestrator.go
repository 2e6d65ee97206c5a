package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"product-media-pipeline/application/session"
	"product-media-pipeline/domain/catalog"
	"product-media-pipeline/domain/generation"
	"product-media-pipeline/domain/pipeline"
)

// Orchestrator runs a validated batch of product records through the
// per-product processor, one record at a time, in input order. A
// failure on one record never aborts the remaining records.
type Orchestrator struct {
	processor *Processor
	state     *session.Store
	output    io.Writer
	stopped   atomic.Bool
}

// NewOrchestrator creates a batch orchestrator appending outcomes to
// the given session store.
func NewOrchestrator(processor *Processor, state *session.Store, output io.Writer) *Orchestrator {
	if output == nil {
		output = io.Discard
	}
	return &Orchestrator{
		processor: processor,
		state:     state,
		output:    output,
	}
}

// Stop requests a cooperative stop. The record currently being
// processed runs to completion; no further records are started.
func (o *Orchestrator) Stop() {
	o.stopped.Store(true)
}

// RunBatch validates the record set and processes each record in input
// order. Validation failures abort before any record is processed and
// are returned as the single top-level error; per-record failures are
// recorded in the report and the batch continues.
func (o *Orchestrator) RunBatch(ctx context.Context, records []catalog.ProductRecord, index catalog.ImageIndex) (*pipeline.BatchRunReport, error) {
	if err := catalog.ValidateBatch(records); err != nil {
		return nil, err
	}

	o.stopped.Store(false)
	o.state.SetBatch(records)
	fmt.Fprintf(o.output, "Processing %d records\n\n", len(records))

	for i, record := range records {
		if o.stopped.Load() || ctx.Err() != nil {
			fmt.Fprintf(o.output, "Stopped after %d of %d records\n", i, len(records))
			break
		}

		fmt.Fprintf(o.output, "[%d/%d] %s (%s)\n", i+1, len(records), record.Key(), record.Title)
		outcome := o.processRecovered(ctx, record, index)
		o.state.AppendOutcome(outcome)

		if outcome.Err != nil {
			fmt.Fprintf(o.output, "      %s: %v\n\n", outcome.Status, outcome.Err)
		} else {
			fmt.Fprintf(o.output, "      Done\n\n")
		}
	}

	return o.state.Report(), nil
}

// processRecovered isolates the per-record boundary: a panic inside the
// processor becomes a generation-failed outcome instead of taking down
// the batch.
func (o *Orchestrator) processRecovered(ctx context.Context, record catalog.ProductRecord, index catalog.ImageIndex) (outcome pipeline.RowOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = pipeline.GenerationFailure(record.Key(), &generation.GenerationError{
				Kind:    generation.KindBackend,
				Message: fmt.Sprintf("unexpected processing failure: %v", r),
			})
		}
	}()
	return o.processor.Process(ctx, record, index)
}
