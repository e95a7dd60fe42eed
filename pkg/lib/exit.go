package lib

import (
	"errors"
	"fmt"
	"os"
)

// ExitCoder is implemented by errors that carry their own process exit code.
type ExitCoder interface {
	ExitCode() int
}

// CodedError attaches an exit code to err.
type CodedError struct {
	Err  error
	Code int
}

func (e *CodedError) Error() string { return e.Err.Error() }
func (e *CodedError) Unwrap() error { return e.Err }
func (e *CodedError) ExitCode() int { return e.Code }

// WithExitCode wraps err so that Exit terminates with code. A nil err stays nil.
func WithExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return &CodedError{Err: err, Code: code}
}

// ExitCode returns the code Exit would use for err: 0 for nil, the code of the
// first ExitCoder in the chain, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}

// Exit prints the error and exits the program with its exit code
func Exit(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(ExitCode(err))
}
