/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlca

import (
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/perrors"
)

// ed25519Key wraps an Ed25519 key-pair as [parltls.Key]
type ed25519Key struct {
	private ed25519.PrivateKey // nil if public-only
	public  ed25519.PublicKey
}

var _ parltls.Key = &ed25519Key{}

func newEd25519() (key *ed25519Key, err error) {
	var pub ed25519.PublicKey
	var priv ed25519.PrivateKey
	if pub, priv, err = ed25519.GenerateKey(rand.Reader); perrors.IsPF(&err, "ed25519.GenerateKey %w", err) {
		return
	}
	key = &ed25519Key{private: priv, public: pub}
	return
}

func (k *ed25519Key) Algorithm() (algo parltls.Algorithm) { return parltls.AlgorithmEd25519 }

func (k *ed25519Key) IsPrivate() (isPrivate bool) { return len(k.private) > 0 }

func (k *ed25519Key) Public() (publicKey parltls.Key) {
	if len(k.private) == 0 {
		return k
	}
	return &ed25519Key{public: k.public}
}

func (k *ed25519Key) Signer() (signer crypto.Signer) {
	if len(k.private) == 0 {
		return nil
	}
	return k.private
}

func (k *ed25519Key) SubjectPublicKeyInfo() (der []byte, err error) {
	if der, err = x509.MarshalPKIXPublicKey(k.public); err != nil {
		err = perrors.ErrorfPF("x509.MarshalPKIXPublicKey %w", err)
	}
	return
}

func (k *ed25519Key) Fingerprint() (print string) {
	der, err := k.SubjectPublicKeyInfo()
	if err != nil {
		return
	}
	return fingerprint(der)
}

func (k *ed25519Key) PrivateKeyDER() (bytes []byte, err error) {
	if len(k.private) == 0 {
		err = perrors.NewPF("ed25519 key has no private component")
		return
	}
	if bytes, err = x509.MarshalPKCS8PrivateKey(k.private); err != nil {
		err = perrors.ErrorfPF("x509.MarshalPKCS8PrivateKey %w", err)
	}
	return
}

func ed25519FromPrivate(pk ed25519.PrivateKey) *ed25519Key {
	return &ed25519Key{private: pk, public: pk.Public().(ed25519.PublicKey)}
}

func ed25519FromPublic(pub ed25519.PublicKey) *ed25519Key { return &ed25519Key{public: pub} }
