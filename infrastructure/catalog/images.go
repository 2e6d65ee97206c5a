package catalog

import (
	"encoding/json"
	"fmt"
	"io"

	domain "product-media-pipeline/domain/catalog"
)

// imageIndexEntry mirrors one element of the companion images JSON
// document: {listingId, productId, images: [{imageURL, ...}]}.
type imageIndexEntry struct {
	ListingID json.Number `json:"listingId"`
	ProductID json.Number `json:"productId"`
	Images    []struct {
		ImageURL      string `json:"imageURL"`
		ImageFilename string `json:"imageFilename"`
	} `json:"images"`
}

// ReadImageIndex parses the optional images JSON document into an
// index keyed by composite product key. Entries without images are
// skipped; entries missing either id are rejected.
func ReadImageIndex(r io.Reader) (domain.ImageIndex, error) {
	var entries []imageIndexEntry
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse images json: %w", err)
	}

	index := make(domain.ImageIndex, len(entries))
	for i, e := range entries {
		if e.ListingID.String() == "" || e.ProductID.String() == "" {
			return nil, fmt.Errorf("images json entry #%d is missing listingId or productId", i+1)
		}
		if len(e.Images) == 0 {
			continue
		}

		key := fmt.Sprintf("%s_%s", e.ListingID, e.ProductID)
		refs := make([]domain.ImageRef, 0, len(e.Images))
		for j, img := range e.Images {
			if img.ImageURL == "" {
				return nil, fmt.Errorf("images json entry #%d image #%d has no imageURL", i+1, j+1)
			}
			refs = append(refs, domain.ImageRef{URL: img.ImageURL, Filename: img.ImageFilename})
		}
		index.Add(key, refs)
	}
	return index, nil
}
