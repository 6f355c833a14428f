/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parltls

import "errors"

var (
	errNoPassphrase    = errors.New("encrypted resource requested without passphrase or passphrase func")
	errKeyCertMismatch = errors.New("certificate public key does not match resource private key")
)
