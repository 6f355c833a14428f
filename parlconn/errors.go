/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlconn

import "errors"

var (
	errConnClosed          = errors.New("parlconn: connection closed")
	errHandshakeNotStarted = errors.New("parlconn: handshake not initiated")
	errAlreadyHandshaking  = errors.New("parlconn: handshake already initiated")
	errSessionFailed       = errors.New("parlconn: session is in the failed state")
	errNoIdentity          = errors.New("parlconn: options carry no Own identity")
	errUnknownRole         = errors.New("parlconn: unrecognized Role")
	errPeerRejected        = errors.New("parlconn: peer certificate rejected by validation callback")
	errPeerChainUnverified = errors.New("parlconn: peer certificate chain failed verification")
)
