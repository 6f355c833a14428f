/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package parltls is an asynchronous, buffer-driven TLS engine and its
// supporting cryptographic material management layer.
//
// The engine performs handshake, record-layer and shutdown processing
// purely through in-memory byte queues: no socket is ever touched by this
// package. Calling code is responsible for transporting ciphertext between
// peers, typically by copying [parlconn.Session] queue contents to and from
// a [net.Conn] or equivalent transport.
package parltls

import "fmt"

// Kind is the taxonomy of error outcomes this engine surfaces to callers.
// These six values are the only ones callers may observe: internal errors
// are always mapped to one of them before crossing the package boundary.
type Kind uint8

const (
	// KindOK is the zero value: no error
	KindOK Kind = iota
	// KindInvalid: malformed input, nonsensical configuration or protocol
	// violation. Not recoverable by retrying the same input.
	KindInvalid
	// KindUnauthorized: passphrase required/wrong, or peer certificate
	// validation rejected. Codec operations may retry with a corrected
	// passphrase; a Session may not.
	KindUnauthorized
	// KindEOF: clean or unclean peer shutdown surfaced as end-of-stream
	KindEOF
	// KindNotImplemented: the requested option combination is not
	// supported by this build
	KindNotImplemented
	// KindCrypto: an underlying cryptographic primitive failed, expected
	// to be rare
	KindCrypto
)

// String returns the external wire-name of k: “ok”, “invalid”, etc.
func (k Kind) String() (s string) {
	switch k {
	case KindOK:
		return "ok"
	case KindInvalid:
		return "invalid"
	case KindUnauthorized:
		return "unauthorized"
	case KindEOF:
		return "eof"
	case KindNotImplemented:
		return "not_implemented"
	case KindCrypto:
		return "crypto"
	default:
		return fmt.Sprintf("Kind?%d", uint8(k))
	}
}

// Error is the concrete error type returned across the engine’s exported
// surface. Every error this package returns can be type-asserted to *Error
// to obtain its Kind.
type Error struct {
	kind Kind
	err  error
}

// NewError wraps err with kind, the error to be surfaced to the caller.
// NewError is a no-op returning nil if err is nil.
func NewError(kind Kind, err error) (e error) {
	if err == nil {
		return
	}
	return &Error{kind: kind, err: err}
}

// Error implements the error interface
func (e *Error) Error() (message string) {
	if e.err == nil {
		return e.kind.String()
	}
	return e.kind.String() + ": " + e.err.Error()
}

// Unwrap allows errors.Is/errors.As to reach the wrapped cause
func (e *Error) Unwrap() (err error) { return e.err }

// Kind returns the error taxonomy value
func (e *Error) Kind() (kind Kind) { return e.kind }

// KindOf extracts the Kind from err, KindCrypto if err is non-nil but not
// a *Error, KindOK if err is nil
func KindOf(err error) (kind Kind) {
	if err == nil {
		return KindOK
	}
	var e *Error
	if ok := asError(err, &e); ok {
		return e.kind
	}
	return KindCrypto
}

// asError is a narrow local errors.As to avoid importing errors twice
// for a one-line helper
func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
