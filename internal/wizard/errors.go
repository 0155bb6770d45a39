package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ErrCancelled signals that the operator declined or backed out of a prompt.
// It is terminal and benign: a run that stops on it reports StatusCancelled,
// never a failure.
var ErrCancelled = errors.New("cancelled by user")

// PreconditionError reports a condition that makes the run impossible before
// any side effect, such as a missing step dependency or an unsupported
// target. Its message is surfaced verbatim.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

// Preconditionf builds a PreconditionError from a format string.
func Preconditionf(format string, args ...any) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// IsCancelled reports whether err represents operator cancellation, in any of
// the forms it reaches the engine: the package sentinel, a huh abort, or a
// cancelled context.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled) ||
		errors.Is(err, huh.ErrUserAborted) ||
		errors.Is(err, context.Canceled)
}

// normalizeAbort maps prompt-library abort conditions onto ErrCancelled and
// leaves every other error untouched.
func normalizeAbort(err error) error {
	if err == nil {
		return nil
	}
	if IsCancelled(err) {
		return ErrCancelled
	}
	return err
}
