/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlca

import (
	"crypto/x509"
	"net"
	"testing"

	"github.com/haraldrudell/parltls"
)

// scenario 2: a self-signed authority's issuer equals its subject and its
// signature verifies under its own public key
func TestGenerateSelfSignedCA(t *testing.T) {
	var caKey, err = GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"})
	if err != nil {
		t.Fatal(err)
	}
	var subject = parltls.NewDistinguishedName("TEST.AUTHORITY", "Bloomberg LP")
	var ca *parltls.Certificate
	if ca, err = GenerateSelfSigned(subject, caKey, CertOptions{SerialNumber: 1, IsAuthority: true}); err != nil {
		t.Fatal(err)
	}
	if !ca.IsSelfSigned() {
		t.Error("self-signed CA: IsSelfSigned false")
	}
	if !ca.Subject.Equal(subject) || !ca.Issuer.Equal(subject) {
		t.Error("self-signed CA: subject/issuer mismatch")
	}
	if !ca.IsAuthority {
		t.Error("self-signed CA: IsAuthority false")
	}
	var x *x509.Certificate
	if x, err = x509.ParseCertificate(ca.DER()); err != nil {
		t.Fatal(err)
	}
	if err = x.CheckSignatureFrom(x); err != nil {
		t.Errorf("self-signed CA: signature does not verify under own key: %v", err)
	}

	// decode(encode(C)) == C: round-trip through DER preserves all
	// semantic fields
	var decoded *parltls.Certificate
	if decoded, err = DecodeCertificateDER(ca.DER()); err != nil {
		t.Fatal(err)
	}
	if !ca.Equal(decoded) {
		t.Error("self-signed CA: decoded certificate not semantically equal")
	}
}

// scenario 3: a CA-issued end-entity certificate's issuer equals the
// authority's subject and its SAN list carries both a DNS name and an IP
func TestGenerateSignedEndEntity(t *testing.T) {
	var caKey, err = GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"})
	if err != nil {
		t.Fatal(err)
	}
	var caSubject = parltls.NewDistinguishedName("TEST.AUTHORITY", "Bloomberg LP")
	var ca *parltls.Certificate
	if ca, err = GenerateSelfSigned(caSubject, caKey, CertOptions{SerialNumber: 1, IsAuthority: true}); err != nil {
		t.Fatal(err)
	}

	var userKey, keyErr = GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"})
	if keyErr != nil {
		t.Fatal(keyErr)
	}
	var userSubject = parltls.NewDistinguishedName("TEST.USER", "")
	var user *parltls.Certificate
	user, err = GenerateSigned(userSubject, userKey, ca, caKey, CertOptions{
		SerialNumber: 3,
		SAN: []parltls.SAN{
			{Kind: parltls.SANDNSName, DNS: "localhost"},
			{Kind: parltls.SANIPAddress, IP: net.ParseIP("127.0.0.1")},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if user.IsSelfSigned() {
		t.Error("end-entity certificate unexpectedly self-signed")
	}
	if !user.Issuer.Equal(ca.Subject) {
		t.Error("end-entity issuer does not equal ca subject")
	}
	if len(user.SAN) != 2 {
		t.Fatalf("SAN count %d exp 2", len(user.SAN))
	}
	if user.SAN[0].DNS != "localhost" {
		t.Errorf("SAN[0].DNS %q", user.SAN[0].DNS)
	}
	if user.SAN[1].IP.String() != "127.0.0.1" {
		t.Errorf("SAN[1].IP %v", user.SAN[1].IP)
	}
}

// non-default KeyUsage/ExtKeyUsage bits survive generation and a
// DER round-trip unchanged
func TestCertificateKeyUsageRoundTrip(t *testing.T) {
	var caKey, err = GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"})
	if err != nil {
		t.Fatal(err)
	}
	var caSubject = parltls.NewDistinguishedName("TEST.AUTHORITY", "")
	var ca *parltls.Certificate
	if ca, err = GenerateSelfSigned(caSubject, caKey, CertOptions{IsAuthority: true}); err != nil {
		t.Fatal(err)
	}

	var serverKey, keyErr = GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"})
	if keyErr != nil {
		t.Fatal(keyErr)
	}
	var serverSubject = parltls.NewDistinguishedName("TEST.SERVER", "")
	var server *parltls.Certificate
	server, err = GenerateSigned(serverSubject, serverKey, ca, caKey, CertOptions{
		KeyUsage:    x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth, x509.ExtKeyUsageClientAuth},
	})
	if err != nil {
		t.Fatal(err)
	}
	if server.KeyUsage != x509.KeyUsageDigitalSignature|x509.KeyUsageKeyEncipherment {
		t.Errorf("KeyUsage %v", server.KeyUsage)
	}
	if len(server.ExtKeyUsage) != 2 {
		t.Fatalf("ExtKeyUsage count %d exp 2", len(server.ExtKeyUsage))
	}

	// CA signing key usage is forced to include KeyUsageCertSign
	if ca.KeyUsage&x509.KeyUsageCertSign == 0 {
		t.Error("authority certificate missing KeyUsageCertSign")
	}

	var decoded *parltls.Certificate
	if decoded, err = DecodeCertificateDER(server.DER()); err != nil {
		t.Fatal(err)
	}
	if !server.Equal(decoded) {
		t.Error("key-usage certificate not semantically equal after round-trip")
	}
	if decoded.KeyUsage != server.KeyUsage {
		t.Errorf("decoded KeyUsage %v exp %v", decoded.KeyUsage, server.KeyUsage)
	}
	if len(decoded.ExtKeyUsage) != len(server.ExtKeyUsage) {
		t.Fatalf("decoded ExtKeyUsage count %d exp %d", len(decoded.ExtKeyUsage), len(server.ExtKeyUsage))
	}
}

// a DSA subject key cannot be placed in a certificate, and a DSA issuer
// key cannot sign one: both fail with KindNotImplemented
func TestGenerateCertificateRejectsDsa(t *testing.T) {
	var ecKey, err = GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmECDSA, Curve: "P256"})
	if err != nil {
		t.Fatal(err)
	}
	var dsaKey, dsaErr = GenerateKey(parltls.KeyGenOptions{Algorithm: parltls.AlgorithmDSA, Bits: 1024})
	if dsaErr != nil {
		t.Fatal(dsaErr)
	}
	var subject = parltls.NewDistinguishedName("TEST.DSA", "")

	if _, err = GenerateSelfSigned(subject, dsaKey, CertOptions{}); err == nil {
		t.Fatal("expected error for dsa issuer key")
	} else if parltls.KindOf(err) != parltls.KindNotImplemented {
		t.Errorf("kind %v exp %v", parltls.KindOf(err), parltls.KindNotImplemented)
	}

	var caSubject = parltls.NewDistinguishedName("TEST.CA", "")
	var ca *parltls.Certificate
	if ca, err = GenerateSelfSigned(caSubject, ecKey, CertOptions{IsAuthority: true}); err != nil {
		t.Fatal(err)
	}
	if _, err = GenerateSigned(subject, dsaKey, ca, ecKey, CertOptions{}); err == nil {
		t.Fatal("expected error for dsa subject key")
	} else if parltls.KindOf(err) != parltls.KindNotImplemented {
		t.Errorf("kind %v exp %v", parltls.KindOf(err), parltls.KindNotImplemented)
	}
}
