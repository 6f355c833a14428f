/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlca

import (
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/perrors"
)

// DefaultValidity is the certificate lifetime used when CertOptions.NotAfter
// is the zero value: one year from NotBefore
const DefaultValidity = 365 * 24 * time.Hour

// CertOptions parametrizes certificate generation
type CertOptions struct {
	// SerialNumber is caller-supplied, or zero to generate a random
	// positive 63-bit serial (see randomSerial)
	SerialNumber int64
	NotBefore    time.Time
	NotAfter     time.Time
	SAN          []parltls.SAN
	// IsAuthority sets the basicConstraints CA bit and keyCertSign usage
	IsAuthority bool
	KeyUsage    x509.KeyUsage
	ExtKeyUsage []x509.ExtKeyUsage
}

// randomSerial returns a random positive 63-bit serial number, drawn
// from a uuid so collisions across concurrent generators are as
// unlikely as a fresh random identifier
func randomSerial() (serial int64, err error) {
	var b []byte
	if b, err = uuid.New().MarshalBinary(); perrors.IsPF(&err, "uuid.MarshalBinary %w", err) {
		return
	}
	var n = new(big.Int).SetBytes(b[:8])
	n.SetBit(n, 63, 0) // clear sign bit: serial must be positive
	return n.Int64(), nil
}

// GenerateSelfSigned creates a self-signed Certificate: issuer equals
// subject, signed by subjectKey itself
func GenerateSelfSigned(subject parltls.DistinguishedName, subjectKey parltls.Key, options CertOptions) (cert *parltls.Certificate, err error) {
	return generate(subject, subjectKey, subject, subjectKey, options)
}

// GenerateSigned creates a Certificate for subject, signed by issuerKey on
// behalf of issuerCert’s subject
func GenerateSigned(subject parltls.DistinguishedName, subjectKey parltls.Key, issuerCert *parltls.Certificate, issuerKey parltls.Key, options CertOptions) (cert *parltls.Certificate, err error) {
	if issuerCert == nil {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("issuerCert is nil"))
		return
	}
	return generate(subject, subjectKey, issuerCert.Subject, issuerKey, options)
}

func generate(subject parltls.DistinguishedName, subjectKey parltls.Key, issuer parltls.DistinguishedName, issuerKey parltls.Key, options CertOptions) (cert *parltls.Certificate, err error) {
	var signer = issuerKey.Signer()
	if signer == nil {
		err = parltls.NewError(parltls.KindNotImplemented, perrors.ErrorfPF("issuer key algorithm %v cannot sign certificates", issuerKey.Algorithm()))
		return
	}
	if subjectKey.Algorithm() == parltls.AlgorithmDSA {
		err = parltls.NewError(parltls.KindNotImplemented, perrors.NewPF("dsa subject public keys are not supported in certificates"))
		return
	}

	var serial = options.SerialNumber
	if serial == 0 {
		if serial, err = randomSerial(); err != nil {
			return
		}
	}

	var notBefore = options.NotBefore
	if notBefore.IsZero() {
		notBefore = time.Now()
	}
	var notAfter = options.NotAfter
	if notAfter.IsZero() {
		notAfter = notBefore.Add(DefaultValidity)
	}

	var template = &x509.Certificate{
		SerialNumber:          big.NewInt(serial),
		Subject:               dnToPkixName(subject),
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		KeyUsage:              options.KeyUsage,
		ExtKeyUsage:           options.ExtKeyUsage,
		BasicConstraintsValid: true,
		IsCA:                  options.IsAuthority,
	}
	if options.IsAuthority {
		template.KeyUsage |= x509.KeyUsageCertSign
	}
	for _, san := range options.SAN {
		switch san.Kind {
		case parltls.SANDNSName:
			template.DNSNames = append(template.DNSNames, san.DNS)
		case parltls.SANIPAddress:
			template.IPAddresses = append(template.IPAddresses, san.IP)
		case parltls.SANURI:
			template.URIs = append(template.URIs, san.URI)
		case parltls.SANEmail:
			template.EmailAddresses = append(template.EmailAddresses, san.Email)
		}
	}

	var issuerTemplate = template
	var isSelfSigned = issuer.Equal(subject)
	if !isSelfSigned {
		issuerTemplate = &x509.Certificate{Subject: dnToPkixName(issuer)}
	}

	var der []byte
	if der, err = x509.CreateCertificate(rand.Reader, template, issuerTemplate, publicKeyForCert(subjectKey), signer); perrors.IsPF(&err, "x509.CreateCertificate %w", err) {
		err = parltls.NewError(parltls.KindCrypto, err)
		return
	}
	return decodeCertificateDER(der)
}

// publicKeyForCert extracts the crypto.PublicKey x509.CreateCertificate
// expects from a [parltls.Key]
func publicKeyForCert(key parltls.Key) any {
	pub := key.Public()
	switch k := pub.(type) {
	case *rsaKey:
		return &k.public
	case *ecdsaKey:
		return &k.public
	case *ed25519Key:
		return k.public
	case *dsaKey:
		return &k.public
	default:
		return nil
	}
}

// DecodeCertificateDER parses a DER-encoded certificate
func DecodeCertificateDER(der []byte) (cert *parltls.Certificate, err error) {
	return decodeCertificateDER(der)
}

func decodeCertificateDER(der []byte) (cert *parltls.Certificate, err error) {
	var x *x509.Certificate
	if x, err = x509.ParseCertificate(der); perrors.IsPF(&err, "x509.ParseCertificate %w", err) {
		err = parltls.NewError(parltls.KindInvalid, err)
		return
	}

	var pubKey parltls.Key
	if pubKey, err = DecodePublicKey(mustMarshalPKIX(x)); err != nil {
		return
	}

	cert = &parltls.Certificate{
		Subject:            pkixNameToDN(x.Subject),
		Issuer:             pkixNameToDN(x.Issuer),
		SerialNumber:       x.SerialNumber.Int64(),
		NotBefore:          x.NotBefore,
		NotAfter:           x.NotAfter,
		SAN:                sanFromCert(x),
		PublicKey:          pubKey,
		IsAuthority:        x.IsCA,
		KeyUsage:           x.KeyUsage,
		ExtKeyUsage:        x.ExtKeyUsage,
		SignatureAlgorithm: x.SignatureAlgorithm,
		Raw:                der,
	}
	return
}

// mustMarshalPKIX re-derives the SubjectPublicKeyInfo DER straight from the
// parsed certificate’s RawSubjectPublicKeyInfo field
func mustMarshalPKIX(x *x509.Certificate) (der []byte) { return x.RawSubjectPublicKeyInfo }

func sanFromCert(x *x509.Certificate) (sans []parltls.SAN) {
	for _, dns := range x.DNSNames {
		sans = append(sans, parltls.SAN{Kind: parltls.SANDNSName, DNS: dns})
	}
	for _, ip := range x.IPAddresses {
		sans = append(sans, parltls.SAN{Kind: parltls.SANIPAddress, IP: ip})
	}
	for _, u := range x.URIs {
		sans = append(sans, parltls.SAN{Kind: parltls.SANURI, URI: u})
	}
	for _, e := range x.EmailAddresses {
		sans = append(sans, parltls.SAN{Kind: parltls.SANEmail, Email: e})
	}
	return
}

// dnToPkixName maps a DistinguishedName to pkix.Name using ExtraNames
// exclusively, so attribute order is preserved exactly regardless of OID
func dnToPkixName(dn parltls.DistinguishedName) (name pkix.Name) {
	for _, a := range dn.Attributes {
		for _, v := range a.Values {
			name.ExtraNames = append(name.ExtraNames, pkix.AttributeTypeAndValue{Type: a.OID, Value: v})
		}
	}
	return
}

// pkixNameToDN reverses [dnToPkixName], grouping consecutive
// same-OID attributes together
func pkixNameToDN(name pkix.Name) (dn parltls.DistinguishedName) {
	for _, atv := range name.Names {
		value, ok := atv.Value.(string)
		if !ok {
			continue
		}
		if n := len(dn.Attributes); n > 0 && dn.Attributes[n-1].OID.Equal(atv.Type) {
			dn.Attributes[n-1].Values = append(dn.Attributes[n-1].Values, value)
			continue
		}
		dn.Attributes = append(dn.Attributes, parltls.DNAttribute{OID: atv.Type, Values: []string{value}})
	}
	return
}
