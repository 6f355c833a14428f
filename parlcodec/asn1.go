/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlcodec

import (
	"bytes"
	"encoding/pem"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/parlca"
	"github.com/haraldrudell/parltls/perrors"
)

// encodeASN1 writes a Resource holding exactly one of {private key,
// end-entity certificate} as raw DER: the only pairing the plain asn1
// format admits
func encodeASN1(r *parltls.Resource) (der []byte, err error) {
	if r.Key != nil && r.Certificate != nil {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("asn1 carries either a private key or a certificate, not both"))
		return
	}
	if r.Key != nil {
		if der, err = parlca.EncodePrivateKeyDER(r.Key); err != nil {
			return
		}
		return
	}
	if r.Certificate != nil {
		return r.Certificate.DER(), nil
	}
	err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("resource has neither key nor certificate"))
	return
}

// decodeASN1 reverses [encodeASN1], inspecting the DER SEQUENCE to
// determine whether it holds a private key or a certificate
func decodeASN1(der []byte) (r *parltls.Resource, err error) {
	r = parltls.NewResource()
	if key, keyErr := parlca.DecodePrivateKey(der); keyErr == nil {
		r.SetKey(key)
		return
	}
	var cert *parltls.Certificate
	if cert, err = parlca.DecodeCertificateDER(der); err != nil {
		err = parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("asn1 content is neither a private key nor a certificate: %w", err))
		return
	}
	r.SetCertificate(cert)
	return
}

// encodeASN1PEM writes a Resource as concatenated PEM blocks in the order
// private key, end-entity certificate, CA chain leaf-to-root — the
// authority-set ordering the external interface mandates be preserved on
// re-encode
func encodeASN1PEM(r *parltls.Resource, options *parltls.ResourceOptions) (out []byte, err error) {
	var buf bytes.Buffer
	if r.Key != nil {
		var block *pem.Block
		if block, err = encodePrivateKeyBlock(r.Key, options); err != nil {
			return
		}
		if err = pem.Encode(&buf, block); err != nil {
			err = perrors.ErrorfPF("pem.Encode %w", err)
			return
		}
	}
	if r.Certificate != nil {
		if err = pem.Encode(&buf, &pem.Block{Type: pemTypeCertificate, Bytes: r.Certificate.DER()}); err != nil {
			err = perrors.ErrorfPF("pem.Encode %w", err)
			return
		}
	}
	for _, c := range r.Chain {
		if err = pem.Encode(&buf, &pem.Block{Type: pemTypeCertificate, Bytes: c.DER()}); err != nil {
			err = perrors.ErrorfPF("pem.Encode %w", err)
			return
		}
	}
	out = buf.Bytes()
	return
}

// decodeASN1PEM reverses [encodeASN1PEM]: the first non-certificate block
// is the private key, the first certificate block is the end-entity
// certificate, and all subsequent certificate blocks form the chain in
// the order encountered
func decodeASN1PEM(data []byte, options *parltls.ResourceOptions) (r *parltls.Resource, err error) {
	r = parltls.NewResource()
	var rest = data
	var sawCertificate bool
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}
		switch block.Type {
		case pemTypeCertificate:
			var cert *parltls.Certificate
			if cert, err = parlca.DecodeCertificateDER(block.Bytes); err != nil {
				return
			}
			if !sawCertificate {
				r.SetCertificate(cert)
				sawCertificate = true
			} else {
				r.AddAuthority(cert)
			}
		case pemTypePrivateKey, pemTypeECPrivateKey:
			var key parltls.Key
			if key, err = parlca.DecodePrivateKey(block.Bytes); err != nil {
				return
			}
			r.SetKey(key)
		case pemTypeEncryptedPrivate:
			var key parltls.Key
			if key, err = decryptPKCS8Block(block.Bytes, options); err != nil {
				return
			}
			r.SetKey(key)
		default:
			err = parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("unexpected pem block type %q in asn1-pem resource", block.Type))
			return
		}
	}
	return
}
