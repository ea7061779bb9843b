package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Script execution errors
// 12000-12999: File serving errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	Unauthorized        ErrorCode = 10004
	Forbidden           ErrorCode = 10005
	ServiceUnavailable  ErrorCode = 10006

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidTimeout     ErrorCode = 10301
	EmptyScript        ErrorCode = 10302
	UnknownScriptKind  ErrorCode = 10303
	RequiredFieldEmpty ErrorCode = 10304

	// ========== Script Execution Errors (11000-11999) ==========

	SessionAllocFailed ErrorCode = 11000
	ScriptWriteFailed  ErrorCode = 11001
	SpawnFailed        ErrorCode = 11002
	ExecutionTimeout   ErrorCode = 11003

	// ========== File Serving Errors (12000-12999) ==========

	PathOutsideRoot ErrorCode = 12000
	FileNotFound    ErrorCode = 12001
	NotRegularFile  ErrorCode = 12002
	InvalidRange    ErrorCode = 12003
	FileReadFailed  ErrorCode = 12004
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	Unauthorized:        "Unauthorized access",
	Forbidden:           "Access forbidden",
	ServiceUnavailable:  "Service temporarily unavailable",

	// Validation
	ValidationFailed:   "Validation failed",
	InvalidTimeout:     "Timeout must be between 1 and 60 seconds",
	EmptyScript:        "Script content is required",
	UnknownScriptKind:  "Unknown script kind",
	RequiredFieldEmpty: "Required field is empty",

	// Script execution
	SessionAllocFailed: "Failed to allocate session directory",
	ScriptWriteFailed:  "Failed to write script file",
	SpawnFailed:        "Failed to start script process",
	ExecutionTimeout:   "Script execution timed out",

	// File serving
	PathOutsideRoot: "Invalid path: must be within server working directory",
	FileNotFound:    "File not found",
	NotRegularFile:  "Path is not a file",
	InvalidRange:    "Invalid byte range",
	FileReadFailed:  "Failed to read file",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == Unauthorized:
		return 401
	case c == Forbidden:
		return 403
	case c == NotFound, c == FileNotFound:
		return 404
	case c == ServiceUnavailable:
		return 503
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams:
		return 400
	case c == PathOutsideRoot, c == NotRegularFile, c == InvalidRange:
		return 400
	default:
		return 500
	}
}
