package errs

import (
	"fmt"
)

// Err represents structure of a custom error
type Err struct {
	Code    string
	Message string
}

func (e Err) Error() string {
	return fmt.Sprintf("%s : %s ", e.Code, e.Message)
}

// Error represents a json-encoded API error.
type Error struct {
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a new error message.
func New(text string) error {
	return &Error{Message: text}
}

var (
	// ErrNotFound is returned when a record or a file does not exist.
	ErrNotFound = New("not found")
	// ErrLockBusy is returned when a lease is already held by someone else.
	ErrLockBusy = New("lock is held by another owner")
	// ErrCheckSetNotFound is returned when a commit has no check set yet.
	ErrCheckSetNotFound = New("check set not found")
	// ErrInvalidLoggerInstance is returned when logger instance is not supported.
	ErrInvalidLoggerInstance = New("Invalid logger instance")
	// ErrInvalidSignature is returned when a webhook payload fails signature verification.
	ErrInvalidSignature = New("invalid webhook signature")
	// GenericErrRemark returns a generic error message for user facing errors.
	GenericErrRemark = New("Unexpected error")
)

// DecodeError is returned when a coverage payload contains a byte outside the
// classes the format allows, or is base64 text that does not decode. The whole
// payload must be treated as invalid.
type DecodeError struct {
	Byte   byte
	Offset int
	// Base64 is set when the text encoding was malformed, Offset then indexes the text.
	Base64 bool
}

func (e *DecodeError) Error() string {
	if e.Base64 {
		return fmt.Sprintf("invalid base64 coverage payload at offset %d", e.Offset)
	}
	return fmt.Sprintf("invalid coverage byte 0x%02x at offset %d", e.Byte, e.Offset)
}

// Manifest error kinds, persisted on the check set as error_kind.
const (
	ManifestSyntax       = "syntax"
	ManifestVersion      = "unsupported_version"
	ManifestInvalidMount = "invalid_mount"
	ManifestInvalidField = "invalid_field"
	ManifestDuplicate    = "duplicate_plugin"
)

// InvalidManifestError is returned when the manifest cannot be parsed or violates
// one of its load-time rules.
type InvalidManifestError struct {
	Kind    string
	Message string
}

func (e *InvalidManifestError) Error() string {
	return fmt.Sprintf("invalid manifest: %s", e.Message)
}

// ValidationError is returned when an inbound request carries a value the
// state machine does not accept.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrUnknownStatus returns a validation error for a status value outside the accepted set.
func ErrUnknownStatus(status string) error {
	return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
}
