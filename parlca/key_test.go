/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlca

import (
	"testing"

	"github.com/haraldrudell/parltls"
)

func TestGenerateKeyRoundTrip(t *testing.T) {
	var cases = []parltls.KeyGenOptions{
		{Algorithm: parltls.AlgorithmRSA, Bits: 2048},
		{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"},
		{Algorithm: parltls.AlgorithmEd25519},
		{Algorithm: parltls.AlgorithmDSA, Bits: 2048},
	}

	for _, options := range cases {
		var key, err = GenerateKey(options)
		if err != nil {
			t.Fatalf("%v: GenerateKey %v", options.Algorithm, err)
		}
		if !key.IsPrivate() {
			t.Errorf("%v: IsPrivate false for generated key", options.Algorithm)
		}
		if key.Algorithm() != options.Algorithm {
			t.Errorf("%v: Algorithm %v", options.Algorithm, key.Algorithm())
		}

		// public projection equals public of decoded private
		var der []byte
		if der, err = EncodePrivateKeyDER(key); err != nil {
			t.Fatalf("%v: EncodePrivateKeyDER %v", options.Algorithm, err)
		}
		var decoded parltls.Key
		if decoded, err = DecodePrivateKey(der); err != nil {
			t.Fatalf("%v: DecodePrivateKey %v", options.Algorithm, err)
		}
		if !parltls.Equal(key.Public(), decoded.Public()) {
			t.Errorf("%v: decoded public key differs from original", options.Algorithm)
		}
		if key.Fingerprint() != decoded.Fingerprint() {
			t.Errorf("%v: fingerprint changed across round-trip", options.Algorithm)
		}
	}
}

// Ed448 is unimplemented: generation must fail with KindNotImplemented
func TestGenerateKeyEd448Unimplemented(t *testing.T) {
	var _, err = GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmEd448})
	if err == nil {
		t.Fatal("expected error for ed448")
	}
	if parltls.KindOf(err) != parltls.KindNotImplemented {
		t.Errorf("kind %v exp %v", parltls.KindOf(err), parltls.KindNotImplemented)
	}
}

// DSA keys can never sign: Signer must be nil
func TestDsaSignerNil(t *testing.T) {
	var key, err = GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmDSA, Bits: 1024})
	if err != nil {
		t.Fatal(err)
	}
	if key.Signer() != nil {
		t.Error("dsa key unexpectedly implements crypto.Signer")
	}
}
