// Package sheet renders an intake batch into a print-ready xlsx workbook:
// one row per item with an embedded, aspect-preserving, centered photo in a
// square image cell.
package sheet

import "time"

// Row is an item as it appears on the batch sheet.
type Row struct {
	Code          string
	Name          string
	StartingPrice *float64
	ReservePrice  *float64
	Notes         string
	ImagePath     string
}

// BatchInfo carries the batch-level fields printed on the sheet.
type BatchInfo struct {
	BatchCode     string
	ConsignorName string
	ItemCount     int
	GeneratedAt   time.Time
}

// Builder produces a serialized workbook for one batch. Implementations are
// capabilities: when spreadsheet rendering is not available the Unavailable
// implementation reports a distinct missing-dependency error instead of
// crashing.
type Builder interface {
	// Build renders the rows (already in display order) into xlsx bytes.
	Build(info BatchInfo, rows []Row) ([]byte, error)
}

// BuildError represents an error during workbook rendering
type BuildError struct {
	Code    string
	Message string
	Cause   error
}

func (e *BuildError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Error codes for workbook rendering failures
const (
	ErrCodeDependencyMissing = "DEPENDENCY_MISSING"
	ErrCodeBuildFailed       = "BUILD_FAILED"
)

// NewBuildError creates a new BuildError
func NewBuildError(code, message string, cause error) *BuildError {
	return &BuildError{Code: code, Message: message, Cause: cause}
}

// Unavailable is the null Builder used when spreadsheet rendering is
// disabled or its dependencies are absent.
type Unavailable struct{}

// Build always reports the missing-dependency condition.
func (Unavailable) Build(BatchInfo, []Row) ([]byte, error) {
	return nil, NewBuildError(ErrCodeDependencyMissing,
		"spreadsheet rendering is not available on this deployment", nil)
}

var _ Builder = Unavailable{}
