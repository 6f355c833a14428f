/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parltls

import "crypto"

// Algorithm identifies the asymmetric key variant a Key carries. It is the
// tag of the Key sum type: exactly one Algorithm applies to any given Key,
// and that Algorithm determines which algorithm-specific parameters
// (modulus bits, curve, …) are meaningful.
type Algorithm uint8

const (
	// AlgorithmUnknown is the zero value; never produced by generation or
	// successful decoding
	AlgorithmUnknown Algorithm = iota
	AlgorithmRSA
	AlgorithmDSA
	AlgorithmECDSA
	AlgorithmEd25519
	// AlgorithmEd448 is recognized but never generable or decodable: the
	// consumed cryptographic library has no Ed448 implementation, so any
	// operation naming it fails with [KindNotImplemented]
	AlgorithmEd448
)

// String returns a short lowercase identifier for algo, used in log
// messages and error text
func (algo Algorithm) String() (s string) {
	switch algo {
	case AlgorithmRSA:
		return "rsa"
	case AlgorithmDSA:
		return "dsa"
	case AlgorithmECDSA:
		return "ecdsa"
	case AlgorithmEd25519:
		return "ed25519"
	case AlgorithmEd448:
		return "ed448"
	default:
		return "unknown"
	}
}

// KeyGenOptions parametrizes [Key] generation. Bits applies only to RSA and
// DSA; Curve applies only to ECDSA; both are ignored otherwise and a sane
// default is used when zero.
type KeyGenOptions struct {
	Algorithm Algorithm
	// Bits is the RSA/DSA modulus size. Zero selects a 2048-bit default.
	Bits int
	// Curve names the elliptic curve for ECDSA: "P256", "P384" or "P521".
	// Empty selects P256.
	Curve string
}

// Key is the sum type over supported asymmetric key algorithms. Each
// variant owns its algorithm-specific parameters and either a complete
// private key or only the public projection.
//   - invariant: when IsPrivate is true, the public component returned by
//     Public is entirely determined by the private component
type Key interface {
	// Algorithm returns the key’s algorithm tag
	Algorithm() (algo Algorithm)
	// IsPrivate reports whether the key carries private material
	IsPrivate() (isPrivate bool)
	// Public returns the public-only projection of the key. If the key
	// is already public-only, Public returns the key itself.
	Public() (publicKey Key)
	// Fingerprint returns a deterministic hash of the DER-encoded
	// SubjectPublicKeyInfo: identical keys produce identical
	// fingerprints regardless of whether they carry private material.
	Fingerprint() (fingerprint string)
	// Signer returns a [crypto.Signer] backed by the key’s private
	// material, or nil if IsPrivate is false
	Signer() (signer crypto.Signer)
	// SubjectPublicKeyInfo returns the DER encoding of the key’s public
	// component in SubjectPublicKeyInfo (PKIX) form
	SubjectPublicKeyInfo() (der []byte, err error)
	// PrivateKeyDER returns the PKCS#8 (or, for DSA, PKCS#8-shaped) DER
	// encoding of the key’s private component. Fails if IsPrivate is
	// false; that error is not an [*Error], so [KindOf] reports it as
	// [KindCrypto], while parlca.EncodePrivateKeyDER wraps it as
	// [KindInvalid].
	PrivateKeyDER() (der []byte, err error)
}

// Equal reports whether a and b are the same key: same algorithm and same
// public-key fingerprint
func Equal(a, b Key) (equal bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Algorithm() == b.Algorithm() && a.Fingerprint() == b.Fingerprint()
}
