/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlca

import (
	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/perrors"
)

// errEd448Unimplemented is returned from every Ed448 code path: the Go
// cryptographic standard library has no Ed448 implementation, and none of
// the third-party libraries this module consumes supply one either
var errEd448Unimplemented = parltls.NewError(parltls.KindNotImplemented, perrors.New("ed448 is not implemented"))

func newEd448() (key parltls.Key, err error) {
	err = errEd448Unimplemented
	return
}
