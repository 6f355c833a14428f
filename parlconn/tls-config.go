/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlconn

import (
	"crypto/tls"
	"crypto/x509"
	"strings"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/parlca"
	"github.com/haraldrudell/parltls/perrors"
)

// buildTLSConfig translates a [parltls.Options] into a *tls.Config.
//
// The engine has no notion of a network address — Sessions are driven
// purely through byte queues — so server-name hostname verification
// never applies. buildTLSConfig always sets InsecureSkipVerify and,
// when options.AuthMode is [parltls.AuthModeVerifyPeer], substitutes
// its own VerifyPeerCertificate that checks the peer’s chain against
// options.Authorities and then consults options.Validate. This is the
// one substantive redesign the buffer-driven model forces on
// crypto/tls’s normally address-bound verification.
func buildTLSConfig(role parltls.Role, options *parltls.Options) (cfg *tls.Config, err error) {
	min, max := options.NormalizedVersions()
	cfg = &tls.Config{
		MinVersion:         min,
		MaxVersion:         max,
		InsecureSkipVerify: true,
	}

	if options.Own != nil {
		if options.Own.Certificate == nil || options.Own.Key == nil {
			err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("Own identity requires both Certificate and Key"))
			return
		}
		cfg.Certificates = []tls.Certificate{{
			Certificate: [][]byte{options.Own.Certificate.DER()},
			PrivateKey:  options.Own.Key.Signer(),
		}}
	} else if role == parltls.RoleServer {
		err = parltls.NewError(parltls.KindInvalid, errNoIdentity)
		return
	}

	var pool *x509.CertPool
	if len(options.Authorities) > 0 {
		pool = x509.NewCertPool()
		for _, authority := range options.Authorities {
			var x *x509.Certificate
			if x, err = x509.ParseCertificate(authority.DER()); perrors.IsPF(&err, "x509.ParseCertificate authority %w", err) {
				err = parltls.NewError(parltls.KindInvalid, err)
				return
			}
			pool.AddCert(x)
		}
	}

	switch role {
	case parltls.RoleClient:
		cfg.ServerName = options.ServerName
		// server authentication, if any, happens in
		// VerifyPeerCertificate below, not via cfg.ServerName
	case parltls.RoleServer:
		if options.AuthMode == parltls.AuthModeVerifyPeer {
			cfg.ClientAuth = tls.RequireAnyClientCert
		} else {
			cfg.ClientAuth = tls.NoClientCert
		}
	default:
		err = parltls.NewError(parltls.KindInvalid, errUnknownRole)
		return
	}

	if options.AuthMode == parltls.AuthModeVerifyPeer {
		validate := options.Validate
		cfg.VerifyPeerCertificate = func(rawCerts [][]byte, _ [][]*x509.Certificate) (err error) {
			return verifyPeerChain(rawCerts, pool, validate)
		}
	}

	if role == parltls.RoleServer && len(options.SNI) > 0 {
		cfg.GetConfigForClient = sniDispatcher(options)
	}

	return
}

// verifyPeerChain checks rawCerts’ leaf against pool (when non-nil)
// using standard x509 chain verification, then consults validate if
// set. An empty rawCerts with a nil pool and nil validate is accepted:
// AuthModeVerifyPeer with neither an authority set nor a callback
// degenerates to "any presented certificate, or none, is accepted".
func verifyPeerChain(rawCerts [][]byte, pool *x509.CertPool, validate parltls.ValidationFunc) (err error) {
	if len(rawCerts) == 0 {
		if pool != nil {
			return errPeerChainUnverified
		}
		if validate != nil {
			return errPeerChainUnverified
		}
		return nil
	}

	certs := make([]*x509.Certificate, len(rawCerts))
	for i, raw := range rawCerts {
		var x *x509.Certificate
		if x, err = x509.ParseCertificate(raw); err != nil {
			return errPeerChainUnverified
		}
		certs[i] = x
	}

	if pool != nil {
		intermediates := x509.NewCertPool()
		for _, x := range certs[1:] {
			intermediates.AddCert(x)
		}
		if _, err = certs[0].Verify(x509.VerifyOptions{
			Roots:         pool,
			Intermediates: intermediates,
			KeyUsages:     []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
		}); err != nil {
			return errPeerChainUnverified
		}
	}

	if validate != nil {
		var peer *parltls.Certificate
		if peer, err = parlca.DecodeCertificateDER(certs[0].Raw); err != nil {
			return errPeerChainUnverified
		}
		if !validate(peer) {
			return errPeerRejected
		}
	}
	return nil
}

// sniDispatcher returns a tls.Config.GetConfigForClient implementing
// exact-match dispatch on the lowercased ClientHello server name. A
// name with no entry in options.SNI falls back to the default
// configuration built from options itself, per crypto/tls’s contract
// that a nil return from GetConfigForClient keeps the original Config.
func sniDispatcher(options *parltls.Options) func(*tls.ClientHelloInfo) (*tls.Config, error) {
	return func(hello *tls.ClientHelloInfo) (cfg *tls.Config, err error) {
		name := strings.ToLower(hello.ServerName)
		nested, ok := options.SNI[name]
		if !ok || nested == nil {
			return nil, nil
		}
		return buildTLSConfig(parltls.RoleServer, nested)
	}
}
