package pipeline

import (
	"fmt"

	"github.com/thaskell/market-magic/internal/model"
)

// FetchError records a failed adapter call for one unit. The unit is
// skipped; the run continues.
type FetchError struct {
	Symbol string
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("fetch %s/%s: %v", e.Symbol, e.Source, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// TransformError records a failed transform for one record. The record is
// dropped; sibling records in the same unit are unaffected.
type TransformError struct {
	Kind model.Kind
	Err  error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s: %v", e.Kind, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// LoadError records the terminal failure of the single load call. The
// whole batch was rolled back; nothing from the run persisted.
type LoadError struct {
	Records int
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %d records: %v", e.Records, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
