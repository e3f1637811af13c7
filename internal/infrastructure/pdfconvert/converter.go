// Package pdfconvert turns a finished batch workbook into the PDF that
// printing it would produce, by driving an external office host. The host is
// an exclusive out-of-process resource: at most one conversion runs at a
// time.
package pdfconvert

import "context"

// Converter converts a spreadsheet file to a paginated PDF that respects
// the sheet's own print-area definition.
type Converter interface {
	// Convert reads the spreadsheet at xlsxPath and writes the PDF to
	// pdfPath, creating parent directories as needed.
	Convert(ctx context.Context, xlsxPath, pdfPath string) error
}

// ConvertError represents an error during PDF conversion
type ConvertError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ConvertError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ConvertError) Unwrap() error {
	return e.Cause
}

// Error codes for conversion failures
const (
	ErrCodeBinaryNotFound  = "BINARY_NOT_FOUND"
	ErrCodeSourceNotFound  = "SOURCE_NOT_FOUND"
	ErrCodeConvertFailed   = "CONVERT_FAILED"
	ErrCodeConvertTimeout  = "CONVERT_TIMEOUT"
	ErrCodeFileNotProduced = "FILE_NOT_PRODUCED"
	ErrCodeUnavailable     = "CONVERTER_UNAVAILABLE"
)

// NewConvertError creates a new ConvertError
func NewConvertError(code, message string, cause error) *ConvertError {
	return &ConvertError{Code: code, Message: message, Cause: cause}
}

// Unavailable is the null Converter used when no office host is configured.
type Unavailable struct{}

// Convert always reports the missing-dependency condition.
func (Unavailable) Convert(context.Context, string, string) error {
	return NewConvertError(ErrCodeUnavailable,
		"PDF conversion is not available on this deployment", nil)
}

var _ Converter = Unavailable{}
