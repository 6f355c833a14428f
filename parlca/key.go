/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlca

import (
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/asn1"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/perrors"
)

// GenerateKey creates a new [parltls.Key] per options.Algorithm
func GenerateKey(options parltls.KeyGenOptions) (key parltls.Key, err error) {
	switch options.Algorithm {
	case parltls.AlgorithmRSA:
		return newRSA(options.Bits)
	case parltls.AlgorithmDSA:
		return newDSA(options.Bits)
	case parltls.AlgorithmECDSA:
		return newECDSA(options.Curve)
	case parltls.AlgorithmEd25519:
		return newEd25519()
	case parltls.AlgorithmEd448:
		return newEd448()
	default:
		return nil, parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("unsupported key algorithm %v", options.Algorithm))
	}
}

// DecodePrivateKey parses an unencrypted private key in PKCS#8, ASN.1 DER
// form, dispatching to the concrete algorithm by inspecting the key’s
// own algorithm identifier
func DecodePrivateKey(der []byte) (key parltls.Key, err error) {
	// x509 handles RSA, ECDSA and Ed25519 uniformly; DSA is rejected by
	// the standard library and handled by a dedicated unmarshal
	if algOID, ok := peekPKCS8Algorithm(der); ok && algOID.Equal(oidPublicKeyDSA) {
		var dk *dsaKey
		if dk, err = parseDSAPrivateKey(der); err != nil {
			err = parltls.NewError(parltls.KindInvalid, err)
			return
		}
		return dk, nil
	}

	var pub any
	if pub, err = x509.ParsePKCS8PrivateKey(der); perrors.IsPF(&err, "x509.ParsePKCS8PrivateKey %w", err) {
		err = parltls.NewError(parltls.KindInvalid, err)
		return
	}
	switch pk := pub.(type) {
	case *rsa.PrivateKey:
		key = rsaFromPrivate(pk)
	case *ecdsa.PrivateKey:
		key = ecdsaFromPrivate(pk)
	case ed25519.PrivateKey:
		key = ed25519FromPrivate(pk)
	default:
		err = parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("unknown private key type %T", pub))
	}
	return
}

// DecodePublicKey parses a public key in PKIX, ASN.1 DER form
func DecodePublicKey(der []byte) (key parltls.Key, err error) {
	if oid, _, ok := peekSPKI(der); ok && oid.Equal(oidPublicKeyDSA) {
		var spki struct {
			Algorithm pkix.AlgorithmIdentifier
			PublicKey asn1.BitString
		}
		if _, err = asn1.Unmarshal(der, &spki); perrors.IsPF(&err, "asn1.Unmarshal dsa spki %w", err) {
			err = parltls.NewError(parltls.KindInvalid, err)
			return
		}
		var dk *dsaKey
		if dk, err = parseDSAPublicKey(spki.Algorithm, spki.PublicKey); err != nil {
			err = parltls.NewError(parltls.KindInvalid, err)
			return
		}
		return dk, nil
	}

	var pub any
	if pub, err = x509.ParsePKIXPublicKey(der); perrors.IsPF(&err, "x509.ParsePKIXPublicKey %w", err) {
		err = parltls.NewError(parltls.KindInvalid, err)
		return
	}
	switch pk := pub.(type) {
	case *rsa.PublicKey:
		key = rsaFromPublic(pk)
	case *ecdsa.PublicKey:
		key = ecdsaFromPublic(pk)
	case ed25519.PublicKey:
		key = ed25519FromPublic(pk)
	case *dsa.PublicKey:
		key = &dsaKey{public: *pk}
	default:
		err = parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("unknown public key type %T", pub))
	}
	return
}

// peekPKCS8Algorithm extracts the algorithm OID from a PKCS#8
// OneAsymmetricKey DER without fully parsing the key material, so DSA
// (unsupported by x509) can be routed to its dedicated parser
func peekPKCS8Algorithm(der []byte) (oid asn1.ObjectIdentifier, ok bool) {
	var hdr struct {
		Version   int
		Algorithm pkix.AlgorithmIdentifier
		Rest      asn1.RawValue `asn1:"optional"`
	}
	if _, err := asn1.Unmarshal(der, &hdr); err != nil {
		return
	}
	return hdr.Algorithm.Algorithm, true
}

// peekSPKI extracts the algorithm OID and public key bit string from a
// SubjectPublicKeyInfo DER
func peekSPKI(der []byte) (oid asn1.ObjectIdentifier, bitString asn1.BitString, ok bool) {
	var spki struct {
		Algorithm pkix.AlgorithmIdentifier
		PublicKey asn1.BitString
	}
	if _, err := asn1.Unmarshal(der, &spki); err != nil {
		return
	}
	return spki.Algorithm.Algorithm, spki.PublicKey, true
}

// EncodePrivateKeyDER returns the PKCS#8 (or DSA PKCS#8-shaped) DER
// encoding of key
func EncodePrivateKeyDER(key parltls.Key) (der []byte, err error) {
	if der, err = key.PrivateKeyDER(); err != nil {
		err = parltls.NewError(parltls.KindInvalid, err)
	}
	return
}
