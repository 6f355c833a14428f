/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parltls

import "crypto/tls"

// AuthMode selects whether the peer’s certificate is required and
// validated
type AuthMode uint8

const (
	// AuthModeNone performs no peer certificate validation
	AuthModeNone AuthMode = iota
	// AuthModeVerifyPeer requires and validates the peer certificate
	// against the configured authority set and validation callback
	AuthModeVerifyPeer
)

// ValidationFunc is the user-supplied peer-certificate acceptance
// predicate. It runs after library-level chain verification succeeds and
// may still reject the session by returning false.
type ValidationFunc func(peer *Certificate) (accept bool)

// Identity pairs an end-entity certificate with its private key, the
// material a [Session] presents to the peer
type Identity struct {
	Certificate *Certificate
	Key         Key
}

// Options is the immutable configuration governing one side of a TLS
// [Session]. An Options value may be shared across any number of Sessions.
type Options struct {
	// AuthMode controls whether the peer certificate is required
	AuthMode AuthMode
	// MinVersion and MaxVersion bound the negotiated protocol version,
	// using the tls package’s version constants (tls.VersionTLS12, …)
	MinVersion uint16
	MaxVersion uint16
	// Authorities is the trusted root/intermediate set used to validate
	// the peer’s certificate chain
	Authorities []*Certificate
	// Own is this side’s identity, presented during the handshake.
	// Required for servers; optional for clients unless the server
	// requests client authentication.
	Own *Identity
	// Validate is consulted after chain verification succeeds. A nil
	// Validate accepts any chain-verified peer.
	Validate ValidationFunc
	// SNI maps an exact, lowercased server name to nested Options used
	// when a ClientHello names that host. Server-side only; ignored for
	// clients.
	SNI map[string]*Options
	// ServerName is the host name a client sends in its ClientHello, the
	// value a server-side SNI map is dispatched on. Client-side only;
	// ignored for servers.
	ServerName string
}

// NormalizedVersions fills MinVersion/MaxVersion defaults when zero
func (o *Options) NormalizedVersions() (min, max uint16) {
	min, max = o.MinVersion, o.MaxVersion
	if min == 0 {
		min = tls.VersionTLS12
	}
	if max == 0 {
		max = tls.VersionTLS13
	}
	return
}

