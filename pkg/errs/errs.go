// Package errs provides the shared error-wrapping helper used across the
// engine, the CLI, and the HTTP gateway.
package errs

import "fmt"

// Wrap adds call-site context to an error. It returns nil if err is nil, so
// callers can write `return errs.Wrap(err, "...")` unconditionally.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
