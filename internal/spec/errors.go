package spec

import (
	"errors"
)

// ErrorCode categorizes document errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	FetchError      ErrorCode = "FetchError"
	ParseError      ErrorCode = "ParseError"
	SchemaError     ErrorCode = "SchemaError"
	ValidationError ErrorCode = "ValidationError"
)

// Sentinel errors for errors.Is.
var (
	// ErrLoad matches any failure to retrieve or decode a document.
	ErrLoad = errors.New("load error")
	// ErrFetch matches transport failures retrieving a document.
	ErrFetch = errors.New("document fetch error")
	// ErrParse matches documents that are not valid JSON or YAML.
	ErrParse = errors.New("parse error")
	// ErrSchema matches nodes missing a required identifying field.
	ErrSchema = errors.New("schema error")
	// ErrValidation matches domain rule violations found while processing.
	ErrValidation = errors.New("validation error")
	// ErrInput matches invalid arguments to the loader.
	ErrInput = errors.New("input error")
)

// SpecError is a structured error with the failing location and, for errors
// raised during a walk, the context breadcrumb.
type SpecError struct {
	Code     ErrorCode
	Message  string
	Location string // file path or URL
	Context  string // e.g. "resources=json:resource_listing, listing_api=/pets"
	Field    string // missing field for SchemaError
	Cause    error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

// Is matches the sentinel for the error's code.
func (e *SpecError) Is(target error) bool {
	switch target {
	case ErrLoad:
		return e.Code == FetchError || e.Code == ParseError
	case ErrFetch:
		return e.Code == FetchError
	case ErrParse:
		return e.Code == ParseError
	case ErrSchema:
		return e.Code == SchemaError
	case ErrValidation:
		return e.Code == ValidationError
	case ErrInput:
		return e.Code == InputError
	}
	return false
}
