package cli

import (
	"errors"
	"fmt"

	"github.com/mark3labs/swaggerc/internal/client"
	"github.com/mark3labs/swaggerc/internal/spec"
)

var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg   string
	cause error
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Unwrap() error { return e.cause }

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}

// friendlyError turns document and binding errors into usage errors that
// carry their location and walk context. Anything else passes through.
func friendlyError(err error) error {
	var se *spec.SpecError
	if errors.As(err, &se) {
		msg := fmt.Sprintf("spec: %s", se.Message)
		if se.Location != "" {
			msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
		}
		if se.Context != "" {
			msg = fmt.Sprintf("%s\nContext: %s", msg, se.Context)
		}
		return usageError{msg: msg, cause: err}
	}
	var be *client.BindingError
	if errors.As(err, &be) {
		return usageError{msg: be.Error(), cause: err}
	}
	if errors.Is(err, client.ErrNotFound) || errors.Is(err, client.ErrUnsupported) {
		return usageError{msg: err.Error(), cause: err}
	}
	return err
}
