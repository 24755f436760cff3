package client

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is.
var (
	// ErrNotFound matches lookups of unknown resources or operations.
	ErrNotFound = errors.New("not found")
	// ErrBinding matches arguments that cannot be bound to an operation.
	ErrBinding = errors.New("parameter binding error")
	// ErrUnsupported matches calls the operation cannot carry out.
	ErrUnsupported = errors.New("unsupported operation")
)

// NotFoundError reports a lookup of a name the client does not have.
type NotFoundError struct {
	Kind  string // "resource" or "operation"
	Name  string
	Owner string // resource name for operations; empty for resources
}

func (e *NotFoundError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("resource %q has no %s %q", e.Owner, e.Kind, e.Name)
	}
	return fmt.Sprintf("api has no %s %q", e.Kind, e.Name)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// BindingCode says why arguments could not be bound.
type BindingCode string

const (
	MissingParameter     BindingCode = "MissingParameter"
	UnexpectedParameter  BindingCode = "UnexpectedParameter"
	InvalidBody          BindingCode = "InvalidBody"
	UnsupportedParamType BindingCode = "UnsupportedParamType"
)

// BindingError is returned when named arguments do not fit an operation's
// declared parameters.
type BindingError struct {
	Code     BindingCode
	Nickname string
	// Params are the offending parameter names, sorted for UnexpectedParameter.
	Params []string
	// ParamType is set for UnsupportedParamType.
	ParamType string
}

func (e *BindingError) Error() string {
	switch e.Code {
	case MissingParameter:
		return fmt.Sprintf("missing required parameter %q for %q", first(e.Params), e.Nickname)
	case UnexpectedParameter:
		return fmt.Sprintf("%q does not have parameters %s", e.Nickname, quoteAll(e.Params))
	case InvalidBody:
		return fmt.Sprintf("parameter %q of %q: parameters of type 'body' require dict input", first(e.Params), e.Nickname)
	case UnsupportedParamType:
		return fmt.Sprintf("parameter %q of %q: unsupported paramType %q", first(e.Params), e.Nickname, e.ParamType)
	}
	return fmt.Sprintf("cannot bind parameters %s for %q", quoteAll(e.Params), e.Nickname)
}

func (e *BindingError) Is(target error) bool { return target == ErrBinding }

// UnsupportedError reports a call shape the transport cannot carry, such as a
// body on a websocket upgrade.
type UnsupportedError struct {
	Nickname string
	Reason   string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%q: %s", e.Nickname, e.Reason)
}

func (e *UnsupportedError) Is(target error) bool { return target == ErrUnsupported }

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func quoteAll(names []string) string {
	q := make([]string, len(names))
	for i, n := range names {
		q[i] = fmt.Sprintf("%q", n)
	}
	return "[" + strings.Join(q, ", ") + "]"
}
