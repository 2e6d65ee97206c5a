package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrEmptyBatch is returned when a batch contains no records.
var ErrEmptyBatch = errors.New("batch contains no records")

// ValidationError reports a malformed input set. The batch does not
// start when validation fails; the error is surfaced as a single
// top-level message.
type ValidationError struct {
	Row     int    // 1-based position of the offending record, 0 if batch-wide
	Key     string // composite key when identity fields are present
	Message string
}

func (e *ValidationError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("invalid record at row %d: %s", e.Row, e.Message)
	}
	return e.Message
}

var recordValidator = validator.New()

// ValidateRecord checks the identity and title invariants of a single
// record.
func ValidateRecord(r ProductRecord) error {
	if err := recordValidator.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("missing required field %s", verrs[0].Field())
		}
		return err
	}
	return nil
}

// ValidateBatch checks every record's required fields and rejects
// duplicate composite keys. The first problem found is reported; the
// caller must not process any record when an error is returned.
func ValidateBatch(records []ProductRecord) error {
	if len(records) == 0 {
		return ErrEmptyBatch
	}

	seen := make(map[string]int, len(records))
	for i, r := range records {
		if err := ValidateRecord(r); err != nil {
			return &ValidationError{Row: i + 1, Key: r.Key(), Message: err.Error()}
		}
		key := r.Key()
		if prev, dup := seen[key]; dup {
			return &ValidationError{
				Row:     i + 1,
				Key:     key,
				Message: fmt.Sprintf("duplicate composite key %q (first seen at row %d)", key, prev),
			}
		}
		seen[key] = i + 1
	}
	return nil
}
