package generation

import (
	"context"
	"errors"

	"product-media-pipeline/domain/catalog"
)

// ErrInvalidRecord signals a precondition violation (e.g. empty title)
// rather than an ordinary backend failure. Callers should treat it as a
// programmer error, not a retryable generation failure.
var ErrInvalidRecord = errors.New("record violates generation preconditions")

// Generator turns a product record into a video artifact and blog text.
// Ordinary backend failures (rate limit, timeout, malformed prompt) are
// reported through the failure variant of GenerationResult, not through
// the error return, so a batch can continue past them.
type Generator interface {
	Generate(ctx context.Context, record catalog.ProductRecord) (*GenerationResult, error)
}

// GenerationResult is either a success carrying both artifacts or a
// failure carrying a typed error.
type GenerationResult struct {
	Video     []byte
	VideoMime string
	Blog      string
	Failure   *GenerationError
}

// OK reports whether generation succeeded.
func (r *GenerationResult) OK() bool {
	return r != nil && r.Failure == nil
}

// Success builds the success variant.
func Success(video []byte, videoMime, blog string) *GenerationResult {
	return &GenerationResult{Video: video, VideoMime: videoMime, Blog: blog}
}

// Failed builds the failure variant.
func Failed(kind ErrorKind, message string) *GenerationResult {
	return &GenerationResult{Failure: &GenerationError{Kind: kind, Message: message}}
}
