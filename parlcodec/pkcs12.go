/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlcodec

import (
	"crypto/rand"
	"crypto/x509"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/parlca"
	"github.com/haraldrudell/parltls/perrors"
	"software.sslmate.com/src/go-pkcs12"
)

// encodePKCS12 serializes a Resource as a single encrypted PKCS#12
// container. This is the only format able to carry key, end-entity
// certificate and chain together encrypted, and the only format for
// which byte-identical re-encoding is not guaranteed: the outer MAC and
// salt are randomized per encode.
func encodePKCS12(r *parltls.Resource, options *parltls.ResourceOptions) (out []byte, err error) {
	if r.Key == nil || r.Certificate == nil {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("pkcs12 resource requires both a private key and a certificate"))
		return
	}
	var secret *parltls.Secret
	if options == nil || !options.Encrypted {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("pkcs12 encoding requires Encrypted and a passphrase"))
		return
	} else if secret, err = options.ResolvePassphrase(); err != nil {
		return
	}

	var leaf *x509.Certificate
	if leaf, err = x509.ParseCertificate(r.Certificate.DER()); perrors.IsPF(&err, "x509.ParseCertificate %w", err) {
		err = parltls.NewError(parltls.KindInvalid, err)
		return
	}
	var caCerts = make([]*x509.Certificate, 0, len(r.Chain))
	for _, c := range r.Chain {
		var x *x509.Certificate
		if x, err = x509.ParseCertificate(c.DER()); perrors.IsPF(&err, "x509.ParseCertificate chain %w", err) {
			err = parltls.NewError(parltls.KindInvalid, err)
			return
		}
		caCerts = append(caCerts, x)
	}

	if out, err = pkcs12.Encode(rand.Reader, r.Key.Signer(), leaf, caCerts, string(secret.Bytes())); err != nil {
		err = parltls.NewError(parltls.KindCrypto, perrors.ErrorfPF("pkcs12.Encode %w", err))
	}
	return
}

// decodePKCS12 reverses [encodePKCS12]
func decodePKCS12(der []byte, options *parltls.ResourceOptions) (r *parltls.Resource, err error) {
	if options == nil {
		err = parltls.NewError(parltls.KindUnauthorized, perrors.NewPF("pkcs12 decoding requires a passphrase"))
		return
	}
	var secret *parltls.Secret
	if secret, err = options.ResolvePassphrase(); err != nil {
		err = parltls.NewError(parltls.KindUnauthorized, err)
		return
	}

	var privateKey any
	var leaf *x509.Certificate
	var caCerts []*x509.Certificate
	if privateKey, leaf, caCerts, err = pkcs12.DecodeChain(der, string(secret.Bytes())); err != nil {
		err = parltls.NewError(parltls.KindUnauthorized, perrors.ErrorfPF("pkcs12.DecodeChain %w", err))
		return
	}

	r = parltls.NewResource()
	if privateKey != nil {
		var der []byte
		if der, err = x509.MarshalPKCS8PrivateKey(privateKey); perrors.IsPF(&err, "x509.MarshalPKCS8PrivateKey %w", err) {
			err = parltls.NewError(parltls.KindInvalid, err)
			return
		}
		var key parltls.Key
		if key, err = parlca.DecodePrivateKey(der); err != nil {
			return
		}
		r.SetKey(key)
	}
	if leaf != nil {
		var cert *parltls.Certificate
		if cert, err = parlca.DecodeCertificateDER(leaf.Raw); err != nil {
			return
		}
		r.SetCertificate(cert)
	}
	for _, x := range caCerts {
		var cert *parltls.Certificate
		if cert, err = parlca.DecodeCertificateDER(x.Raw); err != nil {
			return
		}
		r.AddAuthority(cert)
	}
	return
}
