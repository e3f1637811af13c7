package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConsignorNotFound is used when a consignor code has no master record
	ErrCodeConsignorNotFound = "ERR_CONSIGNOR_NOT_FOUND"
)

// Export error codes
const (
	// ErrCodeMissingImages is used when an export is refused because items
	// in the batch still have no photo
	ErrCodeMissingImages = "ERR_MISSING_IMAGES"
	// ErrCodeExportUnavailable is used when an optional rendering or
	// conversion dependency is not installed on this host
	ErrCodeExportUnavailable = "ERR_EXPORT_UNAVAILABLE"
	// ErrCodeExportFailed is used when document rendering fails
	ErrCodeExportFailed = "ERR_EXPORT_FAILED"
	// ErrCodeConvertFailed is used when the external office host fails or
	// times out while producing the PDF
	ErrCodeConvertFailed = "ERR_CONVERT_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,

	ErrCodeNotFound:          http.StatusNotFound,
	ErrCodeAlreadyExists:     http.StatusConflict,
	ErrCodeConsignorNotFound: http.StatusBadRequest,

	// Export errors: refusal is client-fixable, missing dependency maps to
	// 503, external host failure to 502
	ErrCodeMissingImages:     http.StatusBadRequest,
	ErrCodeExportUnavailable: http.StatusServiceUnavailable,
	ErrCodeExportFailed:      http.StatusInternalServerError,
	ErrCodeConvertFailed:     http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":           ErrCodeNotFound,
	"ALREADY_EXISTS":      ErrCodeAlreadyExists,
	"INVALID_INPUT":       ErrCodeInvalidInput,
	"CONSIGNOR_NOT_FOUND": ErrCodeConsignorNotFound,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
