package report

import "errors"

// Sentinel errors for the report pipeline. Callers match them with errors.Is
// to distinguish "nothing for that date" from harder failures.
var (
	// ErrSectionNotFound means the document has no header for the target date.
	ErrSectionNotFound = errors.New("section not found")

	// ErrEmptyReport means the date section exists but yields no entries.
	ErrEmptyReport = errors.New("empty report")

	// ErrDeliveryFailed means the rendered message could not be sent.
	ErrDeliveryFailed = errors.New("delivery failed")
)
