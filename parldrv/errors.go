/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parldrv

import "errors"

var (
	errNoKeyInResource  = errors.New("decoded resource contains no private key")
	errNoCertInResource = errors.New("decoded resource contains no certificate")
)
