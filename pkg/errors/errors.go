// Package errors provides small helpers for attaching context to errors.
package errors

import "fmt"

// Wrap annotates err with a context prefix, preserving the original error
// for errors.Is/errors.As. Returns nil when err is nil.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
