package pipeline

import (
	"github.com/google/uuid"

	"product-media-pipeline/domain/distribution"
	"product-media-pipeline/domain/generation"
)

// RowStatus is the per-record outcome classification.
type RowStatus string

const (
	StatusSuccess          RowStatus = "success"
	StatusGenerationFailed RowStatus = "generation-failed"
	StatusUploadFailed     RowStatus = "upload-failed"
)

// RowOutcome is the result of processing one product record. When
// generation succeeded the outcome carries the artifacts for local
// preview even if the upload failed.
type RowOutcome struct {
	Key       string
	Status    RowStatus
	Err       error  // nil on success
	FolderID  string // remote folder reference, set when the folder was created
	Video     []byte
	VideoMime string
	Blog      string
}

// Succeeded reports whether both generation and upload completed.
func (o RowOutcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// GenerationFailure builds the outcome for a record whose generation
// call failed; no store calls were made.
func GenerationFailure(key string, err *generation.GenerationError) RowOutcome {
	return RowOutcome{Key: key, Status: StatusGenerationFailed, Err: err}
}

// UploadFailure builds the outcome for a record that generated but
// could not be written remotely. The artifacts are preserved.
func UploadFailure(key string, err *distribution.RemoteWriteError, video []byte, videoMime, blog string) RowOutcome {
	return RowOutcome{
		Key:       key,
		Status:    StatusUploadFailed,
		Err:       err,
		Video:     video,
		VideoMime: videoMime,
		Blog:      blog,
	}
}

// BatchRunReport is the ordered sequence of per-record outcomes for one
// batch run. Outcomes are appended as records complete, so a reader
// observing the report mid-run sees a prefix of the final results.
type BatchRunReport struct {
	RunID    string
	Outcomes []RowOutcome
}

// NewBatchRunReport allocates an empty report with a fresh run id.
func NewBatchRunReport() *BatchRunReport {
	return &BatchRunReport{RunID: uuid.NewString()}
}

// Append records one completed outcome.
func (r *BatchRunReport) Append(o RowOutcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Counts returns the number of outcomes per status.
func (r *BatchRunReport) Counts() (succeeded, generationFailed, uploadFailed int) {
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusSuccess:
			succeeded++
		case StatusGenerationFailed:
			generationFailed++
		case StatusUploadFailed:
			uploadFailed++
		}
	}
	return
}
