/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package perrors provides error functions that attach a code location to
// errors as they are created or observed.
//
//   - [New] and [Errorf] create an error with the call site’s code location
//     attached
//   - [ErrorfPF] and [NewPF] additionally prefix the message with the
//     calling function’s name, useful for one-line function-entry error
//     returns
//   - [IsPF] is a conditional: it attaches location information to a
//     non-nil error and returns whether an error is present, allowing
//
//     if anError, err = Something(); perrors.IsPF(&err, "Something %w", err) {
//     return
//     }
package perrors

import (
	"errors"
	"fmt"

	"github.com/haraldrudell/parltls/pruntime"
)

const (
	errorfPFFrames = 1
	isPFFrames     = 1
	newPFFrames    = 1
)

// locationError carries a code location alongside a wrapped error
type locationError struct {
	error
	loc *pruntime.CodeLocation
}

// Error returns the message with the code location appended
func (e *locationError) Error() (message string) {
	message = e.error.Error()
	if e.loc != nil {
		message = pruntime.AppendLocation(message, e.loc)
	}
	return
}

// Unwrap allows [errors.Is] and [errors.As] to reach the wrapped error
func (e *locationError) Unwrap() (err error) { return e.error }

// New creates an error with the immediate caller’s code location attached
func New(message string) (err error) {
	return &locationError{error: errors.New(message), loc: pruntime.NewCodeLocation(1)}
}

// Errorf is like [fmt.Errorf] with the caller’s code location attached
func Errorf(format string, a ...any) (err error) {
	return &locationError{error: fmt.Errorf(format, a...), loc: pruntime.NewCodeLocation(1)}
}

// NewPF prefixes message with the calling function’s name
func NewPF(message string) (err error) {
	var loc = pruntime.NewCodeLocation(newPFFrames)
	return &locationError{error: errors.New(loc.PackFunc() + ": " + message), loc: loc}
}

// ErrorfPF prefixes the formatted message with the calling function’s name
func ErrorfPF(format string, a ...any) (err error) {
	var loc = pruntime.NewCodeLocation(errorfPFFrames)
	return &locationError{error: fmt.Errorf(loc.PackFunc()+": "+format, a...), loc: loc}
}

// IsPF attaches the calling function’s name and code location to *errp if
// non-nil and returns whether an error is present
//   - typical use:
//
//     if value, err = something(); perrors.IsPF(&err, "something %w", err) {
//     return
//     }
func IsPF(errp *error, format string, a ...any) (isError bool) {
	if errp == nil || *errp == nil {
		return
	}
	var loc = pruntime.NewCodeLocation(isPFFrames)
	*errp = &locationError{error: fmt.Errorf(loc.PackFunc()+": "+format, a...), loc: loc}
	return true
}

// Is reports whether any error in err’s chain matches target
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err’s chain that matches target
func As(err error, target any) bool { return errors.As(err, target) }
