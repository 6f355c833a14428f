/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parltls

import (
	"bytes"
	"crypto/x509"
	"encoding/asn1"
	"net"
	"net/url"
	"time"
)

// SANKind tags the variant held by a [SAN] entry
type SANKind uint8

const (
	SANDNSName SANKind = iota
	SANIPAddress
	SANURI
	SANEmail
)

// SAN is one entry of a certificate’s Subject Alternative Name sequence.
// Exactly the field matching Kind is meaningful.
type SAN struct {
	Kind  SANKind
	DNS   string
	IP    net.IP
	URI   *url.URL
	Email string
}

// DNAttribute is one OID → value pair of a [DistinguishedName], preserving
// the order the values were supplied in
type DNAttribute struct {
	OID    asn1.ObjectIdentifier
	Values []string
}

// DistinguishedName is an order-preserving mapping of OID to a sequence of
// string attribute values, eg. CN, O, OU, C
type DistinguishedName struct {
	Attributes []DNAttribute
}

// CommonName returns the first CN attribute value, or "" if absent
func (dn DistinguishedName) CommonName() (cn string) {
	for _, a := range dn.Attributes {
		if a.OID.Equal(oidCommonName) && len(a.Values) > 0 {
			return a.Values[0]
		}
	}
	return
}

// Organization returns the first O attribute value, or "" if absent
func (dn DistinguishedName) Organization() (o string) {
	for _, a := range dn.Attributes {
		if a.OID.Equal(oidOrganization) && len(a.Values) > 0 {
			return a.Values[0]
		}
	}
	return
}

// Equal compares two distinguished names attribute-by-attribute, in order
func (dn DistinguishedName) Equal(other DistinguishedName) (equal bool) {
	if len(dn.Attributes) != len(other.Attributes) {
		return
	}
	for i, a := range dn.Attributes {
		b := other.Attributes[i]
		if !a.OID.Equal(b.OID) || len(a.Values) != len(b.Values) {
			return
		}
		for j, v := range a.Values {
			if v != b.Values[j] {
				return
			}
		}
	}
	return true
}

var (
	oidCommonName   = asn1.ObjectIdentifier{2, 5, 4, 3}
	oidOrganization = asn1.ObjectIdentifier{2, 5, 4, 10}
)

// NewDistinguishedName builds a DistinguishedName from CN and O, the
// common case for test and generated identities
func NewDistinguishedName(commonName, organization string) (dn DistinguishedName) {
	if commonName != "" {
		dn.Attributes = append(dn.Attributes, DNAttribute{OID: oidCommonName, Values: []string{commonName}})
	}
	if organization != "" {
		dn.Attributes = append(dn.Attributes, DNAttribute{OID: oidOrganization, Values: []string{organization}})
	}
	return
}

// Certificate is an X.509 v3 representation. Certificates are immutable
// once constructed, whether by generation or by decoding.
//   - invariant: IsSelfSigned() ⇔ Issuer.Equal(Subject), verifiable by the
//     contained public key
type Certificate struct {
	Subject            DistinguishedName
	Issuer             DistinguishedName
	SerialNumber       int64
	NotBefore          time.Time
	NotAfter           time.Time
	SAN                []SAN
	PublicKey          Key
	IsAuthority        bool
	KeyUsage           x509.KeyUsage
	ExtKeyUsage        []x509.ExtKeyUsage
	SignatureAlgorithm x509.SignatureAlgorithm

	// Raw is the DER encoding of the certificate as produced or parsed:
	// tbsCertificate body plus signature. Set by the factory that
	// constructed the Certificate (generation or decoding); never
	// mutated afterward.
	Raw []byte
}

// DER returns the raw DER encoding of the certificate
func (c *Certificate) DER() (der []byte) { return c.Raw }

// IsSelfSigned reports whether issuer equals subject
func (c *Certificate) IsSelfSigned() (isSelfSigned bool) { return c.Issuer.Equal(c.Subject) }

// Fingerprint returns the certificate public key’s fingerprint, delegating
// to [Key.Fingerprint]
func (c *Certificate) Fingerprint() (fingerprint string) {
	if c.PublicKey == nil {
		return
	}
	return c.PublicKey.Fingerprint()
}

// Equal compares all semantic fields of two certificates: subject, issuer,
// SAN, serial, validity, public key and extensions. DER-level signature
// bytes are compared by the Raw field since it determines the signature.
func (c *Certificate) Equal(other *Certificate) (equal bool) {
	if c == nil || other == nil {
		return c == other
	}
	if !c.Subject.Equal(other.Subject) || !c.Issuer.Equal(other.Issuer) {
		return
	}
	if c.SerialNumber != other.SerialNumber {
		return
	}
	if !c.NotBefore.Equal(other.NotBefore) || !c.NotAfter.Equal(other.NotAfter) {
		return
	}
	if len(c.SAN) != len(other.SAN) {
		return
	}
	for i, s := range c.SAN {
		o := other.SAN[i]
		if s.Kind != o.Kind || s.DNS != o.DNS || s.Email != o.Email {
			return
		}
		if (s.IP == nil) != (o.IP == nil) || (s.IP != nil && !s.IP.Equal(o.IP)) {
			return
		}
		if (s.URI == nil) != (o.URI == nil) || (s.URI != nil && s.URI.String() != o.URI.String()) {
			return
		}
	}
	if c.IsAuthority != other.IsAuthority || c.KeyUsage != other.KeyUsage {
		return
	}
	if len(c.ExtKeyUsage) != len(other.ExtKeyUsage) {
		return
	}
	for i, u := range c.ExtKeyUsage {
		if u != other.ExtKeyUsage[i] {
			return
		}
	}
	if !Equal(c.PublicKey, other.PublicKey) {
		return
	}
	if !bytes.Equal(c.Raw, other.Raw) {
		return
	}
	return true
}
