/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlca

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/perrors"
)

// ecdsaKey wraps an ECDSA key-pair as [parltls.Key]
type ecdsaKey struct {
	private *ecdsa.PrivateKey
	public  ecdsa.PublicKey
}

var _ parltls.Key = &ecdsaKey{}

// curveByName maps the KeyGenOptions.Curve string to an elliptic.Curve,
// defaulting to P-256, 128-bit security
func curveByName(name string) (curve elliptic.Curve) {
	switch name {
	case "P384":
		return elliptic.P384()
	case "P521":
		return elliptic.P521()
	default:
		return elliptic.P256()
	}
}

func newECDSA(curveName string) (key *ecdsaKey, err error) {
	var pk *ecdsa.PrivateKey
	if pk, err = ecdsa.GenerateKey(curveByName(curveName), rand.Reader); perrors.IsPF(&err, "ecdsa.GenerateKey %w", err) {
		return
	}
	key = &ecdsaKey{private: pk, public: pk.PublicKey}
	return
}

func (k *ecdsaKey) Algorithm() (algo parltls.Algorithm) { return parltls.AlgorithmECDSA }

func (k *ecdsaKey) IsPrivate() (isPrivate bool) { return k.private != nil }

func (k *ecdsaKey) Public() (publicKey parltls.Key) {
	if k.private == nil {
		return k
	}
	return &ecdsaKey{public: k.public}
}

func (k *ecdsaKey) Signer() (signer crypto.Signer) {
	if k.private == nil {
		return nil
	}
	return k.private
}

func (k *ecdsaKey) SubjectPublicKeyInfo() (der []byte, err error) {
	if der, err = x509.MarshalPKIXPublicKey(&k.public); err != nil {
		err = perrors.ErrorfPF("x509.MarshalPKIXPublicKey %w", err)
	}
	return
}

func (k *ecdsaKey) Fingerprint() (print string) {
	der, err := k.SubjectPublicKeyInfo()
	if err != nil {
		return
	}
	return fingerprint(der)
}

func (k *ecdsaKey) PrivateKeyDER() (bytes []byte, err error) {
	if k.private == nil {
		err = perrors.NewPF("ecdsa key has no private component")
		return
	}
	if bytes, err = x509.MarshalPKCS8PrivateKey(k.private); err != nil {
		err = perrors.ErrorfPF("x509.MarshalPKCS8PrivateKey %w", err)
	}
	return
}

func ecdsaFromPrivate(pk *ecdsa.PrivateKey) *ecdsaKey { return &ecdsaKey{private: pk, public: pk.PublicKey} }

func ecdsaFromPublic(pub *ecdsa.PublicKey) *ecdsaKey { return &ecdsaKey{public: *pub} }
