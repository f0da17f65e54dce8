package commands

import (
	"errors"
	"fmt"
)

// ExitUsage is returned for invalid arguments or configuration.
const ExitUsage = 64

// ExitError carries a process exit code out of a command. Err is optional;
// a nil Err means the command has already reported everything it had to say.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Silent reports whether the error has nothing left to print.
func (e *ExitError) Silent() bool {
	return e.Err == nil
}

// UsageError wraps err with ExitUsage.
func UsageError(err error) error {
	return &ExitError{Code: ExitUsage, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
// Unclassified errors, such as cobra argument errors, are usage errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}
