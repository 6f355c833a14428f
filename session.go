/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parltls

// Role distinguishes which side of the handshake a [Session] plays
type Role uint8

const (
	RoleClient Role = iota
	RoleServer
)

// String names the role for logging
func (r Role) String() (name string) {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	default:
		return "Role?"
	}
}

// State is one of the six protocol states of the [Session] state machine
type State uint8

const (
	// StateIdle: created, handshake not yet initiated
	StateIdle State = iota
	StateHandshaking
	StateEstablished
	StateShuttingDown
	StateShutDown
	// StateFailed is terminal and not recoverable: all pushes and pops
	// return KindInvalid
	StateFailed
)

// String names the state for logging
func (s State) String() (name string) {
	switch s {
	case StateIdle:
		return "idle"
	case StateHandshaking:
		return "handshaking"
	case StateEstablished:
		return "established"
	case StateShuttingDown:
		return "shutting-down"
	case StateShutDown:
		return "shut-down"
	case StateFailed:
		return "failed"
	default:
		return "State?"
	}
}

// HandshakeCallback fires exactly once per handshake attempt, unless the
// Session is closed before the handshake completes.
//   - err is nil on success, a [*Error] with [KindUnauthorized] on
//     validation failure or [KindInvalid] on protocol failure
//   - peer is the certificate the peer presented, whatever the AuthMode;
//     nil when the peer presented none or the handshake failed
//   - detail is a human-readable description for logging
type HandshakeCallback func(err error, peer *Certificate, detail string)

// Session is the four-queue non-blocking TLS state machine. No method
// blocks; an operation that cannot make progress is a no-op returning
// success. A Session is single-threaded: the caller must not invoke two
// operations on the same Session concurrently, though distinct Sessions
// may be driven by distinct goroutines freely.
type Session interface {
	// PushIncomingCipher supplies bytes received from the peer
	PushIncomingCipher(b []byte) (err error)
	// PopOutgoingCipher drains bytes to transport to the peer, appending
	// to out and returning the number of bytes appended
	PopOutgoingCipher(out *[]byte) (n int, err error)
	// PushOutgoingPlain supplies application data to send once
	// established
	PushOutgoingPlain(b []byte) (err error)
	// PopIncomingPlain drains authenticated application data received
	// from the peer, appending to out
	PopIncomingPlain(out *[]byte) (n int, err error)

	// InitiateHandshake transitions idle → handshaking. callback fires
	// once, on the session’s private goroutine, when the handshake
	// completes or fails; it is not invoked from within a push, a pop or
	// InitiateHandshake itself.
	InitiateHandshake(callback HandshakeCallback) (err error)
	// Shutdown sends close_notify and half-closes the send direction
	Shutdown() (err error)

	// State returns the current protocol state
	State() (state State)
	// IsHandshakeFinished reports whether the handshake has completed,
	// successfully or not
	IsHandshakeFinished() (finished bool)
	// IsShutdownFinished reports whether both a locally-sent and a
	// peer-received close_notify have occurred
	IsShutdownFinished() (finished bool)
	// HasOutgoingCipher reports whether PopOutgoingCipher would yield
	// bytes
	HasOutgoingCipher() (has bool)
	// HasIncomingPlain reports whether PopIncomingPlain would yield bytes
	HasIncomingPlain() (has bool)
	// Cipher returns the negotiated cipher suite identifier, valid once
	// established
	Cipher() (cipherSuite uint16)
	// Close releases all queued cipher/plain bytes and closes the
	// underlying TLS connection. Key material held by that connection is
	// not overwritten. Pending handshake callbacks are not invoked.
	Close() (err error)
}
