package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	domain "product-media-pipeline/domain/catalog"
)

// Canonical CSV column names. Header matching is case-insensitive and
// tolerates surrounding whitespace.
const (
	columnListingID   = "listing id"
	columnProductID   = "product id"
	columnTitle       = "title"
	columnDescription = "description"
)

// ReadProducts parses a products CSV into records, preserving row
// order. Required columns are Listing Id, Product Id and Title;
// Description is optional. Field values are reported as-is; per-record
// invariants are checked later by batch validation.
func ReadProducts(r io.Reader) ([]domain.ProductRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{columnListingID, columnProductID, columnTitle} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv is missing required column %q", required)
		}
	}

	var records []domain.ProductRecord
	for row := 2; ; row++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", row, err)
		}

		records = append(records, domain.ProductRecord{
			ListingID:   field(fields, cols, columnListingID),
			ProductID:   field(fields, cols, columnProductID),
			Title:       field(fields, cols, columnTitle),
			Description: field(fields, cols, columnDescription),
		})
	}
	return records, nil
}

func field(fields []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[i])
}
