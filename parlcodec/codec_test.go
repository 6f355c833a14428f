/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlcodec

import (
	"testing"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/parlca"
)

// scenario 1: generate an RSA-2048 key, encode as encrypted PKCS#8, decode
// with the correct passphrase and assert equality; decoding with the wrong
// passphrase fails with KindUnauthorized
func TestKeyRoundTripPKCS8Encrypted(t *testing.T) {
	var key, err = parlca.GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmRSA, Bits: 2048})
	if err != nil {
		t.Fatal(err)
	}
	var r = parltls.NewResource().SetKey(key)
	var passphrase = parltls.NewSecret([]byte("abcdefghikjlkmopqrstuvwxyz"))
	var options = &parltls.ResourceOptions{Type: parltls.FormatPKCS8, Encrypted: true, Passphrase: passphrase}

	var out []byte
	if out, err = Encode(r, options); err != nil {
		t.Fatalf("Encode %v", err)
	}

	var decoded *parltls.Resource
	if decoded, err = Decode(out, options); err != nil {
		t.Fatalf("Decode correct passphrase %v", err)
	}
	if !parltls.Equal(key, decoded.Key) {
		t.Error("decoded key differs from original")
	}

	var wrongOptions = &parltls.ResourceOptions{
		Type:       parltls.FormatPKCS8,
		Encrypted:  true,
		Passphrase: parltls.NewSecret([]byte("wrong password")),
	}
	if _, err = Decode(out, wrongOptions); err == nil {
		t.Fatal("expected error decoding with wrong passphrase")
	} else if parltls.KindOf(err) != parltls.KindUnauthorized {
		t.Errorf("kind %v exp %v", parltls.KindOf(err), parltls.KindUnauthorized)
	}
}

// an encoding request that violates the capability table fails with
// KindInvalid and produces no output (invariant 4)
func TestEncodeCapabilityViolation(t *testing.T) {
	var key, err = parlca.GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"})
	if err != nil {
		t.Fatal(err)
	}
	var caSubject = parltls.NewDistinguishedName("TEST.CA", "")
	var cert *parltls.Certificate
	if cert, err = parlca.GenerateSelfSigned(caSubject, key, parlca.CertOptions{IsAuthority: true}); err != nil {
		t.Fatal(err)
	}

	// pkcs8 carries only a private key, never a certificate
	var r = parltls.NewResource().SetKey(key).SetCertificate(cert)
	var options = &parltls.ResourceOptions{Type: parltls.FormatPKCS8}
	var out []byte
	if out, err = Encode(r, options); err == nil {
		t.Fatal("expected capability violation error")
	} else if parltls.KindOf(err) != parltls.KindInvalid {
		t.Errorf("kind %v exp %v", parltls.KindOf(err), parltls.KindInvalid)
	}
	if len(out) != 0 {
		t.Error("capability violation must produce no output")
	}
}

// encrypted encoding without a passphrase source fails with KindInvalid
// (invariant 5)
func TestEncodeEncryptedWithoutPassphrase(t *testing.T) {
	var key, err = parlca.GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmRSA, Bits: 2048})
	if err != nil {
		t.Fatal(err)
	}
	var r = parltls.NewResource().SetKey(key)
	var options = &parltls.ResourceOptions{Type: parltls.FormatPKCS8, Encrypted: true}
	if _, err = Encode(r, options); err == nil {
		t.Fatal("expected error for encrypted encoding without passphrase")
	} else if parltls.KindOf(err) != parltls.KindInvalid {
		t.Errorf("kind %v exp %v", parltls.KindOf(err), parltls.KindInvalid)
	}
}

// asn1-pem byte-level re-encoding is stable (invariant 3):
// encode(decode(encode(B))) == encode(B)
func TestAsn1PemReencodeStable(t *testing.T) {
	var key, err = parlca.GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"})
	if err != nil {
		t.Fatal(err)
	}
	var subject = parltls.NewDistinguishedName("TEST.STABLE", "")
	var cert *parltls.Certificate
	if cert, err = parlca.GenerateSelfSigned(subject, key, parlca.CertOptions{SerialNumber: 7}); err != nil {
		t.Fatal(err)
	}
	var r = parltls.NewResource().SetKey(key).SetCertificate(cert)
	var options = &parltls.ResourceOptions{Type: parltls.FormatASN1PEM}

	var first, second []byte
	if first, err = Encode(r, options); err != nil {
		t.Fatal(err)
	}
	var decoded *parltls.Resource
	if decoded, err = Decode(first, options); err != nil {
		t.Fatal(err)
	}
	if second, err = Encode(decoded, options); err != nil {
		t.Fatal(err)
	}
	if string(first) != string(second) {
		t.Error("asn1-pem re-encoding is not byte-stable")
	}
}

// a degenerate, certificates-only pkcs7 message round-trips the
// end-entity certificate and the CA chain, both in its DER and PEM
// container forms (invariant 2)
func TestPKCS7RoundTrip(t *testing.T) {
	var caKey, err = parlca.GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"})
	if err != nil {
		t.Fatal(err)
	}
	var ca *parltls.Certificate
	if ca, err = parlca.GenerateSelfSigned(parltls.NewDistinguishedName("TEST.AUTHORITY", ""), caKey, parlca.CertOptions{IsAuthority: true}); err != nil {
		t.Fatal(err)
	}
	var leafKey parltls.Key
	if leafKey, err = parlca.GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"}); err != nil {
		t.Fatal(err)
	}
	var leaf *parltls.Certificate
	if leaf, err = parlca.GenerateSigned(parltls.NewDistinguishedName("TEST.LEAF", ""), leafKey, ca, caKey, parlca.CertOptions{}); err != nil {
		t.Fatal(err)
	}

	var r = parltls.NewResource().SetCertificate(leaf).AddAuthority(ca)

	for _, format := range []parltls.Format{parltls.FormatPKCS7, parltls.FormatPKCS7PEM} {
		var options = &parltls.ResourceOptions{Type: format}
		var out []byte
		if out, err = Encode(r, options); err != nil {
			t.Fatalf("%v: Encode %v", format, err)
		}
		var decoded *parltls.Resource
		if decoded, err = Decode(out, options); err != nil {
			t.Fatalf("%v: Decode %v", format, err)
		}
		if decoded.Certificate == nil || !decoded.Certificate.Equal(leaf) {
			t.Errorf("%v: decoded end-entity certificate differs from original", format)
		}
		if len(decoded.Chain) != 1 || !decoded.Chain[0].Equal(ca) {
			t.Errorf("%v: decoded chain differs from original", format)
		}
	}
}

// a pkcs7 message carrying a private key violates the capability table
func TestPKCS7RejectsKey(t *testing.T) {
	var key, err = parlca.GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"})
	if err != nil {
		t.Fatal(err)
	}
	var subject = parltls.NewDistinguishedName("TEST.CA", "")
	var cert *parltls.Certificate
	if cert, err = parlca.GenerateSelfSigned(subject, key, parlca.CertOptions{IsAuthority: true}); err != nil {
		t.Fatal(err)
	}
	var r = parltls.NewResource().SetKey(key).SetCertificate(cert)
	if _, err = Encode(r, &parltls.ResourceOptions{Type: parltls.FormatPKCS7}); err == nil {
		t.Fatal("expected capability violation error")
	} else if parltls.KindOf(err) != parltls.KindInvalid {
		t.Errorf("kind %v exp %v", parltls.KindOf(err), parltls.KindInvalid)
	}
}

// pkcs12 round-trips key, end-entity certificate and chain together
// under a passphrase; a wrong passphrase fails with KindUnauthorized
// (invariant 2, scenario 1's encrypted-container analogue)
func TestPKCS12RoundTrip(t *testing.T) {
	var caKey, err = parlca.GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmRSA, Bits: 2048})
	if err != nil {
		t.Fatal(err)
	}
	var ca *parltls.Certificate
	if ca, err = parlca.GenerateSelfSigned(parltls.NewDistinguishedName("TEST.AUTHORITY", ""), caKey, parlca.CertOptions{IsAuthority: true}); err != nil {
		t.Fatal(err)
	}
	var leafKey parltls.Key
	if leafKey, err = parlca.GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmRSA, Bits: 2048}); err != nil {
		t.Fatal(err)
	}
	var leaf *parltls.Certificate
	if leaf, err = parlca.GenerateSigned(parltls.NewDistinguishedName("TEST.LEAF", ""), leafKey, ca, caKey, parlca.CertOptions{}); err != nil {
		t.Fatal(err)
	}

	var r = parltls.NewResource().SetKey(leafKey).SetCertificate(leaf).AddAuthority(ca)
	var passphrase = parltls.NewSecret([]byte("abcdefghikjlkmopqrstuvwxyz"))
	var options = &parltls.ResourceOptions{Type: parltls.FormatPKCS12, Encrypted: true, Passphrase: passphrase}

	var out []byte
	if out, err = Encode(r, options); err != nil {
		t.Fatalf("Encode %v", err)
	}

	var decoded *parltls.Resource
	if decoded, err = Decode(out, options); err != nil {
		t.Fatalf("Decode correct passphrase %v", err)
	}
	if !parltls.Equal(leafKey, decoded.Key) {
		t.Error("decoded key differs from original")
	}
	if decoded.Certificate == nil || !decoded.Certificate.Equal(leaf) {
		t.Error("decoded end-entity certificate differs from original")
	}
	if len(decoded.Chain) != 1 || !decoded.Chain[0].Equal(ca) {
		t.Error("decoded chain differs from original")
	}

	var wrongOptions = &parltls.ResourceOptions{
		Type:       parltls.FormatPKCS12,
		Encrypted:  true,
		Passphrase: parltls.NewSecret([]byte("wrong password")),
	}
	if _, err = Decode(out, wrongOptions); err == nil {
		t.Fatal("expected error decoding with wrong passphrase")
	} else if parltls.KindOf(err) != parltls.KindUnauthorized {
		t.Errorf("kind %v exp %v", parltls.KindOf(err), parltls.KindUnauthorized)
	}
}
