package domain

import "errors"

// Error kinds for the aggregation run. A fetch or lookup failure aborts the
// in-progress day for one store only; an invariant violation is a defect and
// is never handled silently. "Identifier not found" in a reference map is not
// an error anywhere in the pipeline; it resolves to a fallback label.
var (
	ErrFetchFailed          = errors.New("fetch failed")
	ErrLookupUnavailable    = errors.New("lookup unavailable")
	ErrMissingConfiguration = errors.New("missing configuration")
	ErrInvariantViolation   = errors.New("computation invariant violation")
)
