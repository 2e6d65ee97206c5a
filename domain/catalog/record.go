package catalog

import "fmt"

// ImageRef points at one product image, either by URL or as inline bytes
// (single-product mode hands the uploaded files over directly).
type ImageRef struct {
	URL      string
	Filename string
	Data     []byte
}

// Inline reports whether the reference carries the image bytes itself.
func (r ImageRef) Inline() bool {
	return len(r.Data) > 0
}

// ProductRecord is one product to generate media for. Records are
// immutable once handed to the batch orchestrator.
type ProductRecord struct {
	ListingID   string `validate:"required"`
	ProductID   string `validate:"required"`
	Title       string `validate:"required"`
	Description string
	Images      []ImageRef
}

// Key returns the composite key identifying the record within a batch
// and naming its folder in the remote store.
func (r ProductRecord) Key() string {
	return fmt.Sprintf("%s_%s", r.ListingID, r.ProductID)
}

// HasInlineImages reports whether the record carries its own image set,
// making an image-index lookup unnecessary.
func (r ProductRecord) HasInlineImages() bool {
	return len(r.Images) > 0
}
