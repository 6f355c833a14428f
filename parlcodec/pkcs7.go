/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlcodec

import (
	"encoding/asn1"
	"encoding/pem"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/parlca"
	"github.com/haraldrudell/parltls/perrors"
	"go.mozilla.org/pkcs7"
)

// PKCS#7 RFC 5652 object identifiers for a degenerate, certificates-only
// signed-data content: no signer, no signature, just a certificate bag.
// This is the conventional “certs-only” PKCS#7 message produced by
// openssl crl2pkcs7 -nocrl and widely used to transport a chain.
var (
	oidSignedData = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 2}
	oidData       = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 1}
)

type pkcs7ContentInfo struct {
	ContentType asn1.ObjectIdentifier
	Content     asn1.RawValue `asn1:"explicit,optional,tag:0"`
}

type pkcs7SignedData struct {
	Version          int
	DigestAlgorithms asn1.RawValue `asn1:"set"`
	ContentInfo      pkcs7ContentInfo
	Certificates     asn1.RawValue `asn1:"optional,tag:0"`
	SignerInfos      asn1.RawValue `asn1:"set"`
}

// encodePKCS7DER builds a degenerate, certificates-only PKCS#7
// signed-data message carrying the end-entity certificate (if any)
// followed by the CA chain
func encodePKCS7DER(r *parltls.Resource) (der []byte, err error) {
	var certs [][]byte
	if r.Certificate != nil {
		certs = append(certs, r.Certificate.DER())
	}
	for _, c := range r.Chain {
		certs = append(certs, c.DER())
	}
	if len(certs) == 0 {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("pkcs7 resource requires at least one certificate"))
		return
	}

	var certSetBytes []byte
	for _, c := range certs {
		certSetBytes = append(certSetBytes, c...)
	}
	var certSet = asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 0, IsCompound: true, Bytes: certSetBytes}

	var emptySet = asn1.RawValue{FullBytes: []byte{0x31, 0x00}} // SET OF {}, empty

	var inner = pkcs7SignedData{
		Version:          1,
		DigestAlgorithms: emptySet,
		ContentInfo:      pkcs7ContentInfo{ContentType: oidData},
		Certificates:     certSet,
		SignerInfos:      emptySet,
	}
	var innerBytes []byte
	if innerBytes, err = asn1.Marshal(inner); perrors.IsPF(&err, "asn1.Marshal pkcs7 signed-data %w", err) {
		err = parltls.NewError(parltls.KindInvalid, err)
		return
	}

	var outer = pkcs7ContentInfo{
		ContentType: oidSignedData,
		Content:     asn1.RawValue{Class: asn1.ClassContextSpecific, Tag: 0, IsCompound: true, Bytes: innerBytes},
	}
	if der, err = asn1.Marshal(outer); err != nil {
		err = parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("asn1.Marshal pkcs7 content-info %w", err))
	}
	return
}

// decodePKCS7DER parses a PKCS#7 certs-only message using the in-pack
// go.mozilla.org/pkcs7 parser, which tolerates both degenerate and
// signed forms
func decodePKCS7DER(der []byte) (r *parltls.Resource, err error) {
	var p7 *pkcs7.PKCS7
	if p7, err = pkcs7.Parse(der); perrors.IsPF(&err, "pkcs7.Parse %w", err) {
		err = parltls.NewError(parltls.KindInvalid, err)
		return
	}
	if len(p7.Certificates) == 0 {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("pkcs7 message carries no certificates"))
		return
	}
	r = parltls.NewResource()
	for i, x := range p7.Certificates {
		var cert *parltls.Certificate
		if cert, err = parlca.DecodeCertificateDER(x.Raw); err != nil {
			return
		}
		if i == 0 {
			r.SetCertificate(cert)
		} else {
			r.AddAuthority(cert)
		}
	}
	return
}

// encodePKCS7PEM wraps encodePKCS7DER in a single “PKCS7” PEM block
func encodePKCS7PEM(r *parltls.Resource) (out []byte, err error) {
	var der []byte
	if der, err = encodePKCS7DER(r); err != nil {
		return
	}
	return pem.EncodeToMemory(&pem.Block{Type: pemTypePKCS7, Bytes: der}), nil
}

// decodePKCS7PEM reverses [encodePKCS7PEM]
func decodePKCS7PEM(data []byte) (r *parltls.Resource, err error) {
	block, _ := pem.Decode(data)
	if block == nil {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("pkcs7-pem: no pem block found"))
		return
	}
	return decodePKCS7DER(block.Bytes)
}
