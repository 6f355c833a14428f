/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlconn

import (
	"crypto/tls"
	"io"
	"sync"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/parlca"
	"github.com/haraldrudell/parltls/perrors"
	"github.com/haraldrudell/parltls/plog"
)

// Session implements [parltls.Session]. Its four queues are protected
// by a single mutex; memConn shares that mutex so Read/Write on the
// underlying crypto/tls connection and the public Push/Pop methods
// never race.
//
// The handshake and, once established, the continuous record-layer
// read pump run on a single private goroutine (runHandshakeAndPump
// in this file), since crypto/tls.Conn.Read blocks. Write is called
// synchronously from PushOutgoingPlain: encrypting and appending to
// the unbounded outgoing-cipher queue never blocks, so no writer
// goroutine is needed — crypto/tls guards Read and Write with
// independent internal locks, so this is safe alongside the pump
// goroutine’s Reads.
type Session struct {
	role    parltls.Role
	options *parltls.Options

	mu sync.Mutex

	incomingCipher []byte
	outgoingCipher []byte
	incomingPlain  []byte
	closed         bool

	state parltls.State

	conn    *memConn
	tlsConn *tls.Conn

	handshakeStarted bool
	handshakeDone    bool
	handshakeErr     error

	shutdownSent bool
	shutdownDone bool
}

var _ parltls.Session = &Session{}

// NewSession constructs an idle Session for role, configured per
// options. No handshake traffic occurs until InitiateHandshake.
func NewSession(role parltls.Role, options *parltls.Options) (session parltls.Session, err error) {
	if options == nil {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("options must not be nil"))
		return
	}
	if role != parltls.RoleClient && role != parltls.RoleServer {
		err = parltls.NewError(parltls.KindInvalid, errUnknownRole)
		return
	}
	var cfg *tls.Config
	if cfg, err = buildTLSConfig(role, options); err != nil {
		return
	}

	s := &Session{role: role, options: options, state: parltls.StateIdle}
	mc := newMemConn(&s.mu, &s.incomingCipher, &s.outgoingCipher, &s.closed)
	s.conn = mc
	switch role {
	case parltls.RoleClient:
		s.tlsConn = tls.Client(mc, cfg)
	case parltls.RoleServer:
		s.tlsConn = tls.Server(mc, cfg)
	}
	session = s
	return
}

// PushIncomingCipher supplies bytes received from the peer
func (s *Session) PushIncomingCipher(b []byte) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == parltls.StateFailed {
		return parltls.NewError(parltls.KindInvalid, errSessionFailed)
	}
	if s.closed {
		return nil
	}
	s.incomingCipher = append(s.incomingCipher, b...)
	s.broadcastLocked()
	return nil
}

// PopOutgoingCipher drains bytes to transport to the peer. In the failed
// state it still hands over bytes queued before the failure, such as a
// fatal alert, and returns KindInvalid.
func (s *Session) PopOutgoingCipher(out *[]byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n = len(s.outgoingCipher)
	if n > 0 {
		*out = append(*out, s.outgoingCipher...)
		s.outgoingCipher = nil
	}
	if s.state == parltls.StateFailed {
		err = parltls.NewError(parltls.KindInvalid, errSessionFailed)
	}
	return
}

// PushOutgoingPlain supplies application data to send once established
func (s *Session) PushOutgoingPlain(b []byte) (err error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state == parltls.StateFailed {
		return parltls.NewError(parltls.KindInvalid, errSessionFailed)
	}
	if state != parltls.StateEstablished {
		return nil
	}
	if len(b) == 0 {
		return nil
	}
	if _, writeErr := s.tlsConn.Write(b); writeErr != nil {
		s.failLocked(writeErr)
		return parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("tls write %w", writeErr))
	}
	return nil
}

// PopIncomingPlain drains application data received from the peer. In
// the failed state it still hands over data received before the failure
// and returns KindInvalid.
func (s *Session) PopIncomingPlain(out *[]byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n = len(s.incomingPlain)
	if n > 0 {
		*out = append(*out, s.incomingPlain...)
		s.incomingPlain = nil
	}
	if s.state == parltls.StateFailed {
		err = parltls.NewError(parltls.KindInvalid, errSessionFailed)
	}
	return
}

// InitiateHandshake transitions idle → handshaking
func (s *Session) InitiateHandshake(callback parltls.HandshakeCallback) (err error) {
	s.mu.Lock()
	if s.state != parltls.StateIdle {
		s.mu.Unlock()
		if s.state == parltls.StateFailed {
			return parltls.NewError(parltls.KindInvalid, errSessionFailed)
		}
		return parltls.NewError(parltls.KindInvalid, errAlreadyHandshaking)
	}
	s.state = parltls.StateHandshaking
	s.handshakeStarted = true
	s.mu.Unlock()

	plog.D("parlconn: %s handshake starting", s.role)
	go s.runHandshakeAndPump(callback)
	return nil
}

// runHandshakeAndPump performs the blocking crypto/tls handshake and,
// on success, continuously pumps decrypted application data into
// incomingPlain until the peer shuts down or an error occurs. It is
// the session’s one, long-lived private goroutine.
func (s *Session) runHandshakeAndPump(callback parltls.HandshakeCallback) {
	hsErr := s.tlsConn.Handshake()

	var peerCert *parltls.Certificate
	var detail string
	s.mu.Lock()
	s.handshakeDone = true
	closed := s.closed
	if hsErr == nil {
		s.state = parltls.StateEstablished
		detail = "handshake established"
		if chain := s.tlsConn.ConnectionState().PeerCertificates; len(chain) > 0 {
			peerCert, _ = parlca.DecodeCertificateDER(chain[0].Raw)
		}
	} else {
		s.state = parltls.StateFailed
		s.handshakeErr = hsErr
		detail = "handshake failed: " + hsErr.Error()
	}
	s.mu.Unlock()

	plog.D("parlconn: %s %s", s.role, detail)

	var reportedErr error
	if hsErr != nil {
		reportedErr = parltls.NewError(kindForTLSError(hsErr), hsErr)
	}
	if callback != nil && !closed {
		callback(reportedErr, peerCert, detail)
	}
	if hsErr != nil {
		return
	}

	s.pumpIncomingPlain()
}

// pumpIncomingPlain repeatedly reads decrypted application data off
// tlsConn, appending it to incomingPlain, until the peer closes the
// connection or an unrecoverable error occurs
func (s *Session) pumpIncomingPlain() {
	buf := make([]byte, 16*1024)
	for {
		n, readErr := s.tlsConn.Read(buf)
		if n > 0 {
			s.mu.Lock()
			s.incomingPlain = append(s.incomingPlain, buf[:n]...)
			s.mu.Unlock()
		}
		if readErr != nil {
			s.mu.Lock()
			if readErr == io.EOF {
				s.shutdownDone = true
				if s.state != parltls.StateFailed {
					s.state = parltls.StateShutDown
				}
			} else if s.state != parltls.StateShutDown && s.state != parltls.StateFailed {
				s.state = parltls.StateFailed
				s.handshakeErr = readErr
			}
			state := s.state
			s.mu.Unlock()
			plog.D("parlconn: %s record pump exiting: %v (state %s)", s.role, readErr, state)
			return
		}
	}
}

// Shutdown sends close_notify and half-closes the send direction
func (s *Session) Shutdown() (err error) {
	s.mu.Lock()
	state := s.state
	if state != parltls.StateEstablished && state != parltls.StateShuttingDown {
		s.mu.Unlock()
		return nil
	}
	s.state = parltls.StateShuttingDown
	s.shutdownSent = true
	s.mu.Unlock()

	plog.D("parlconn: %s shutdown: sending close_notify", s.role)
	if closeErr := s.tlsConn.CloseWrite(); closeErr != nil {
		s.failLocked(closeErr)
		return parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("tls close_notify %w", closeErr))
	}
	return nil
}

// State returns the current protocol state
func (s *Session) State() (state parltls.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsHandshakeFinished reports whether the handshake has completed
func (s *Session) IsHandshakeFinished() (finished bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handshakeDone
}

// IsShutdownFinished reports whether shutdown has completed both ways
func (s *Session) IsShutdownFinished() (finished bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownSent && s.shutdownDone
}

// HasOutgoingCipher reports whether PopOutgoingCipher would yield bytes
func (s *Session) HasOutgoingCipher() (has bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outgoingCipher) > 0
}

// HasIncomingPlain reports whether PopIncomingPlain would yield bytes
func (s *Session) HasIncomingPlain() (has bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.incomingPlain) > 0
}

// Cipher returns the negotiated cipher suite identifier
func (s *Session) Cipher() (cipherSuite uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != parltls.StateEstablished && s.state != parltls.StateShuttingDown && s.state != parltls.StateShutDown {
		return 0
	}
	return s.tlsConn.ConnectionState().CipherSuite
}

// Close releases all queued bytes and unblocks the private goroutine
func (s *Session) Close() (err error) {
	s.mu.Lock()
	s.incomingCipher = nil
	s.outgoingCipher = nil
	s.incomingPlain = nil
	s.closed = true
	s.broadcastLocked()
	s.mu.Unlock()
	return s.tlsConn.Close()
}

// broadcastLocked wakes a goroutine blocked in memConn.Read; caller
// must hold s.mu
func (s *Session) broadcastLocked() {
	s.conn.cond.Broadcast()
}

// failLocked transitions the session to the failed state
func (s *Session) failLocked(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = parltls.StateFailed
	s.handshakeErr = err
	plog.D("parlconn: %s session failed: %v", s.role, err)
}

// kindForTLSError classifies a crypto/tls error into the external
// error taxonomy
func kindForTLSError(err error) (kind parltls.Kind) {
	if err == io.EOF {
		return parltls.KindEOF
	}
	if _, ok := err.(*tls.CertificateVerificationError); ok {
		return parltls.KindUnauthorized
	}
	if err == errPeerRejected || err == errPeerChainUnverified {
		return parltls.KindUnauthorized
	}
	return parltls.KindInvalid
}
