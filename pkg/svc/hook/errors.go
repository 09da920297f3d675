package hook

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingEnv is returned when required environment variables are unset.
var ErrMissingEnv = errors.New("required environment variables are not set")

// ExitError carries a process exit status out of a command without being
// reported a second time.
type ExitError struct {
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// PanicError wraps a value recovered from a panicking step.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)

	return err
}

// Trace renders the diagnostic trace logged after a hook failure: every
// error in the chain with its type, and the goroutine stack for panics.
func Trace(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder

	for current := err; current != nil; current = errors.Unwrap(current) {
		_, _ = fmt.Fprintf(&b, "%T: %s\n", current, current.Error())
	}

	var panicErr *PanicError
	if errors.As(err, &panicErr) && len(panicErr.Stack) > 0 {
		b.WriteString(strings.TrimRight(string(panicErr.Stack), "\n"))
		b.WriteString("\n")
	}

	return b.String()
}
