/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlca

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/perrors"
)

// RsaDefaultBits is the modulus size used when [parltls.KeyGenOptions.Bits]
// is zero
const RsaDefaultBits = 2048

// rsaKey wraps an RSA key-pair as [parltls.Key]
//   - rsa.PrivateKey is multiple fields with no self-referencing pointers,
//     so it can be copied by value; the public-only variant retains only
//     the rsa.PublicKey
type rsaKey struct {
	private *rsa.PrivateKey
	public  rsa.PublicKey
}

var _ parltls.Key = &rsaKey{}

// newRSA generates an RSA-bits private key
func newRSA(bits int) (key *rsaKey, err error) {
	if bits == 0 {
		bits = RsaDefaultBits
	}
	var pk *rsa.PrivateKey
	if pk, err = rsa.GenerateKey(rand.Reader, bits); perrors.IsPF(&err, "rsa.GenerateKey %w", err) {
		return
	}
	key = &rsaKey{private: pk, public: pk.PublicKey}
	return
}

func (k *rsaKey) Algorithm() (algo parltls.Algorithm) { return parltls.AlgorithmRSA }

func (k *rsaKey) IsPrivate() (isPrivate bool) { return k.private != nil }

func (k *rsaKey) Public() (publicKey parltls.Key) {
	if k.private == nil {
		return k
	}
	return &rsaKey{public: k.public}
}

func (k *rsaKey) Signer() (signer crypto.Signer) {
	if k.private == nil {
		return nil
	}
	return k.private
}

func (k *rsaKey) SubjectPublicKeyInfo() (der []byte, err error) {
	if der, err = x509.MarshalPKIXPublicKey(&k.public); err != nil {
		err = perrors.ErrorfPF("x509.MarshalPKIXPublicKey %w", err)
	}
	return
}

func (k *rsaKey) Fingerprint() (print string) {
	der, err := k.SubjectPublicKeyInfo()
	if err != nil {
		return
	}
	return fingerprint(der)
}

// PrivateKeyDER returns the PKCS#8 private-key DER encoding
func (k *rsaKey) PrivateKeyDER() (bytes []byte, err error) {
	if k.private == nil {
		err = perrors.NewPF("rsa key has no private component")
		return
	}
	if bytes, err = x509.MarshalPKCS8PrivateKey(k.private); err != nil {
		err = perrors.ErrorfPF("x509.MarshalPKCS8PrivateKey %w", err)
	}
	return
}

func rsaFromPrivate(pk *rsa.PrivateKey) *rsaKey { return &rsaKey{private: pk, public: pk.PublicKey} }

func rsaFromPublic(pub *rsa.PublicKey) *rsaKey { return &rsaKey{public: *pub} }
