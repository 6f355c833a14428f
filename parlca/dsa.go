/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlca

import (
	"crypto"
	"crypto/dsa"
	"crypto/rand"
	"crypto/x509/pkix"
	"encoding/asn1"
	"math/big"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/perrors"
)

// oidPublicKeyDSA is 1.2.840.10040.4.1, the DSA algorithm identifier.
// crypto/x509 does not implement PKCS#8 marshaling for DSA keys (removed
// upstream as DSA is legacy-only), so this package hand-rolls the ASN.1
// structures RFC 3279 §2.3.2 and the de-facto DSA PKCS#8 private-key
// encoding define.
var oidPublicKeyDSA = asn1.ObjectIdentifier{1, 2, 840, 10040, 4, 1}

// dsaParameters is the DSA domain-parameter ASN.1 SEQUENCE carried in the
// SubjectPublicKeyInfo algorithm field
type dsaParameters struct {
	P, Q, G *big.Int
}

// dsaKey wraps a DSA key-pair as [parltls.Key]
//   - DSA never implements [crypto.Signer] in the Go standard library, so
//     Signer always returns nil: a DSA key cannot sign a Certificate.
//     This is a real limitation of the consumed cryptographic library,
//     not a design choice of this package.
type dsaKey struct {
	private *dsa.PrivateKey
	public  dsa.PublicKey
}

var _ parltls.Key = &dsaKey{}

// DsaDefaultBits selects [dsa.L2048N256], the modern DSA parameter size
const DsaDefaultBits = 2048

func newDSA(bits int) (key *dsaKey, err error) {
	var sizes dsa.ParameterSizes
	switch bits {
	case 0, 2048:
		sizes = dsa.L2048N256
	case 3072:
		sizes = dsa.L3072N256
	case 1024:
		sizes = dsa.L1024N160
	default:
		err = parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("unsupported dsa bit size %d", bits))
		return
	}
	var params dsa.Parameters
	if err = dsa.GenerateParameters(&params, rand.Reader, sizes); perrors.IsPF(&err, "dsa.GenerateParameters %w", err) {
		return
	}
	var pk dsa.PrivateKey
	pk.Parameters = params
	if err = dsa.GenerateKey(&pk, rand.Reader); perrors.IsPF(&err, "dsa.GenerateKey %w", err) {
		return
	}
	key = &dsaKey{private: &pk, public: pk.PublicKey}
	return
}

func (k *dsaKey) Algorithm() (algo parltls.Algorithm) { return parltls.AlgorithmDSA }

func (k *dsaKey) IsPrivate() (isPrivate bool) { return k.private != nil }

func (k *dsaKey) Public() (publicKey parltls.Key) {
	if k.private == nil {
		return k
	}
	return &dsaKey{public: k.public}
}

// Signer always returns nil: crypto/dsa carries no Sign method
func (k *dsaKey) Signer() (signer crypto.Signer) { return nil }

func (k *dsaKey) SubjectPublicKeyInfo() (der []byte, err error) {
	var paramBytes []byte
	if paramBytes, err = asn1.Marshal(dsaParameters{P: k.public.P, Q: k.public.Q, G: k.public.G}); perrors.IsPF(&err, "asn1.Marshal dsaParameters %w", err) {
		return
	}
	var yBytes []byte
	if yBytes, err = asn1.Marshal(k.public.Y); perrors.IsPF(&err, "asn1.Marshal Y %w", err) {
		return
	}
	spki := struct {
		Algorithm pkix.AlgorithmIdentifier
		PublicKey asn1.BitString
	}{
		Algorithm: pkix.AlgorithmIdentifier{
			Algorithm:  oidPublicKeyDSA,
			Parameters: asn1.RawValue{FullBytes: paramBytes},
		},
		PublicKey: asn1.BitString{Bytes: yBytes, BitLength: len(yBytes) * 8},
	}
	if der, err = asn1.Marshal(spki); err != nil {
		err = perrors.ErrorfPF("asn1.Marshal dsa spki %w", err)
	}
	return
}

func (k *dsaKey) Fingerprint() (print string) {
	der, err := k.SubjectPublicKeyInfo()
	if err != nil {
		return
	}
	return fingerprint(der)
}

// PrivateKeyDER returns a PKCS#8-shaped private-key DER: OneAsymmetricKey with
// algorithm DSA (domain parameters included) and privateKey an ASN.1
// INTEGER X wrapped in an OCTET STRING, per the conventional DSA PKCS#8
// layout
func (k *dsaKey) PrivateKeyDER() (bytes []byte, err error) {
	if k.private == nil {
		err = perrors.NewPF("dsa key has no private component")
		return
	}
	var paramBytes []byte
	if paramBytes, err = asn1.Marshal(dsaParameters{P: k.private.P, Q: k.private.Q, G: k.private.G}); perrors.IsPF(&err, "asn1.Marshal dsaParameters %w", err) {
		return
	}
	var xBytes []byte
	if xBytes, err = asn1.Marshal(k.private.X); perrors.IsPF(&err, "asn1.Marshal X %w", err) {
		return
	}
	oneAsymmetricKey := struct {
		Version    int
		Algorithm  pkix.AlgorithmIdentifier
		PrivateKey []byte
	}{
		Version: 0,
		Algorithm: pkix.AlgorithmIdentifier{
			Algorithm:  oidPublicKeyDSA,
			Parameters: asn1.RawValue{FullBytes: paramBytes},
		},
		PrivateKey: xBytes,
	}
	if bytes, err = asn1.Marshal(oneAsymmetricKey); err != nil {
		err = perrors.ErrorfPF("asn1.Marshal dsa private key %w", err)
	}
	return
}

// parseDSAPrivateKey reverses [dsaKey.PrivateKeyDER]
func parseDSAPrivateKey(der []byte) (key *dsaKey, err error) {
	var oneAsymmetricKey struct {
		Version    int
		Algorithm  pkix.AlgorithmIdentifier
		PrivateKey []byte
	}
	if _, err = asn1.Unmarshal(der, &oneAsymmetricKey); perrors.IsPF(&err, "asn1.Unmarshal dsa private key %w", err) {
		return
	}
	var params dsaParameters
	if _, err = asn1.Unmarshal(oneAsymmetricKey.Algorithm.Parameters.FullBytes, &params); perrors.IsPF(&err, "asn1.Unmarshal dsaParameters %w", err) {
		return
	}
	var x big.Int
	if _, err = asn1.Unmarshal(oneAsymmetricKey.PrivateKey, &x); perrors.IsPF(&err, "asn1.Unmarshal X %w", err) {
		return
	}
	var pk dsa.PrivateKey
	pk.Parameters = dsa.Parameters{P: params.P, Q: params.Q, G: params.G}
	pk.X = &x
	pk.Y = new(big.Int).Exp(params.G, &x, params.P)
	key = &dsaKey{private: &pk, public: pk.PublicKey}
	return
}

// parseDSAPublicKey reverses [dsaKey.SubjectPublicKeyInfo]
func parseDSAPublicKey(spki pkix.AlgorithmIdentifier, bitString asn1.BitString) (key *dsaKey, err error) {
	var params dsaParameters
	if _, err = asn1.Unmarshal(spki.Parameters.FullBytes, &params); perrors.IsPF(&err, "asn1.Unmarshal dsaParameters %w", err) {
		return
	}
	var y big.Int
	if _, err = asn1.Unmarshal(bitString.Bytes, &y); perrors.IsPF(&err, "asn1.Unmarshal Y %w", err) {
		return
	}
	key = &dsaKey{public: dsa.PublicKey{Parameters: dsa.Parameters{P: params.P, Q: params.Q, G: params.G}, Y: &y}}
	return
}
