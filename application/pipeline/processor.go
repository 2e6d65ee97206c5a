package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"

	"product-media-pipeline/domain/catalog"
	"product-media-pipeline/domain/distribution"
	"product-media-pipeline/domain/generation"
	"product-media-pipeline/domain/pipeline"
)

// Processor is the atomic unit of work: it drives generation and upload
// for a single product record. Failures never escape Process as errors;
// they are folded into the returned outcome so the orchestrator can
// continue the batch.
type Processor struct {
	generator       generation.Generator
	store           distribution.RemoteStore
	outputsFolderID string
	output          io.Writer
}

// NewProcessor creates a per-product processor writing artifacts under
// outputsFolderID.
func NewProcessor(gen generation.Generator, store distribution.RemoteStore, outputsFolderID string, output io.Writer) *Processor {
	if output == nil {
		output = io.Discard
	}
	return &Processor{
		generator:       gen,
		store:           store,
		outputsFolderID: outputsFolderID,
		output:          output,
	}
}

// Process generates and uploads the artifacts for one record.
//
// Image resolution order: inline images on the record, then the image
// index, then an empty set. A generation failure short-circuits before
// any remote store call. An upload failure still returns the generated
// artifacts so the caller can preview them locally.
func (p *Processor) Process(ctx context.Context, record catalog.ProductRecord, index catalog.ImageIndex) pipeline.RowOutcome {
	key := record.Key()

	if !record.HasInlineImages() {
		record.Images = index.Lookup(key)
	}
	fmt.Fprintf(p.output, "      Images resolved: %d\n", len(record.Images))

	result, err := p.generator.Generate(ctx, record)
	if err != nil {
		// Precondition violations and other unexpected generator errors
		// are recorded against the row rather than aborting the batch.
		return pipeline.GenerationFailure(key, &generation.GenerationError{
			Kind:    generation.KindBackend,
			Message: err.Error(),
		})
	}
	if !result.OK() {
		fmt.Fprintf(p.output, "      Generation failed: %v\n", result.Failure)
		return pipeline.GenerationFailure(key, result.Failure)
	}
	fmt.Fprintf(p.output, "      Generated video (%d bytes) and blog (%d chars)\n", len(result.Video), len(result.Blog))

	manifest := distribution.NewProductManifest(key, result.Video, result.VideoMime, result.Blog)

	folderID, err := p.store.EnsureFolder(ctx, p.outputsFolderID, manifest.Folder)
	if err != nil {
		return uploadFailureOutcome(key, err, result)
	}

	for _, entry := range manifest.Entries {
		if _, err := p.store.UploadFile(ctx, folderID, entry.Filename, entry.Data, entry.MimeType); err != nil {
			out := uploadFailureOutcome(key, err, result)
			out.FolderID = folderID
			return out
		}
		fmt.Fprintf(p.output, "      Uploaded: %s\n", entry.Filename)
	}

	return pipeline.RowOutcome{
		Key:       key,
		Status:    pipeline.StatusSuccess,
		FolderID:  folderID,
		Video:     result.Video,
		VideoMime: result.VideoMime,
		Blog:      result.Blog,
	}
}

// uploadFailureOutcome wraps a store error into an upload-failed
// outcome that preserves the generated artifacts.
func uploadFailureOutcome(key string, err error, result *generation.GenerationResult) pipeline.RowOutcome {
	var werr *distribution.RemoteWriteError
	if !errors.As(err, &werr) {
		werr = &distribution.RemoteWriteError{
			Kind: distribution.WriteErrTransient,
			Op:   "upload file",
			Name: key,
			Err:  err,
		}
	}
	return pipeline.UploadFailure(key, werr, result.Video, result.VideoMime, result.Blog)
}
