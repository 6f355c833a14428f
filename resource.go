/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parltls

// Format identifies one of the five container formats a [Resource] may be
// serialized to or parsed from
type Format uint8

const (
	FormatUnknown Format = iota
	// FormatASN1 is raw DER: a single private key or a single certificate
	FormatASN1
	// FormatASN1PEM concatenates PEM blocks in chain order, leaf to root
	FormatASN1PEM
	// FormatPKCS7 is RFC 5652 signed-data carrying certificates only
	FormatPKCS7
	FormatPKCS7PEM
	// FormatPKCS8 is RFC 5958, a private key only, optionally encrypted
	FormatPKCS8
	FormatPKCS8PEM
	// FormatPKCS12 is RFC 7292, the only format able to carry all three
	// of private key, end-entity certificate and CA chain encrypted as
	// one container
	FormatPKCS12
)

// String returns the external wire-name of the format, as used in
// [ResourceOptions.Type] and error messages
func (f Format) String() (s string) {
	switch f {
	case FormatASN1:
		return "asn1"
	case FormatASN1PEM:
		return "asn1-pem"
	case FormatPKCS7:
		return "pkcs7"
	case FormatPKCS7PEM:
		return "pkcs7-pem"
	case FormatPKCS8:
		return "pkcs8"
	case FormatPKCS8PEM:
		return "pkcs8-pem"
	case FormatPKCS12:
		return "pkcs12"
	default:
		return "unknown"
	}
}

// ResourceOptions governs encoding and decoding of a [Resource]
type ResourceOptions struct {
	// Type, if set, pins the expected container format. On decode, a
	// mismatch between Type and the sniffed content fails with
	// [KindInvalid]. On encode, Type selects the output format and is
	// required.
	Type Format
	// Encrypted requests passphrase encryption on encode, or indicates
	// the container is expected to be encrypted on decode
	Encrypted bool
	// Passphrase supplies the encryption/decryption secret directly
	Passphrase *Secret
	// PassphraseFunc, if set and Passphrase is nil, is invoked lazily to
	// obtain the passphrase. Exactly one of Passphrase or PassphraseFunc
	// need be set when Encrypted is true.
	PassphraseFunc func() (*Secret, error)
}

// ResolvePassphrase returns the resource options’ passphrase, invoking
// PassphraseFunc if Passphrase was not set directly
func (o *ResourceOptions) ResolvePassphrase() (secret *Secret, err error) {
	if o.Passphrase != nil {
		return o.Passphrase, nil
	}
	if o.PassphraseFunc != nil {
		return o.PassphraseFunc()
	}
	return nil, NewError(KindInvalid, errNoPassphrase)
}

// Resource is a mutable bundle of at most one private Key, at most one
// end-entity Certificate and an ordered set of CA Certificates, used to
// assemble material for encoding or to surface decoded content.
//   - invariant: when both Key and Certificate are present, Certificate’s
//     public key equals the public projection of Key
type Resource struct {
	Key         Key
	Certificate *Certificate
	// Chain is the CA chain in leaf-to-root order
	Chain []*Certificate
}

// NewResource returns an empty, mutable Resource builder
func NewResource() (r *Resource) { return &Resource{} }

// SetKey sets the bundle’s private key
func (r *Resource) SetKey(key Key) (self *Resource) {
	r.Key = key
	return r
}

// SetCertificate sets the bundle’s end-entity certificate
func (r *Resource) SetCertificate(cert *Certificate) (self *Resource) {
	r.Certificate = cert
	return r
}

// AddAuthority appends a CA certificate to the chain, leaf-to-root order
func (r *Resource) AddAuthority(cert *Certificate) (self *Resource) {
	r.Chain = append(r.Chain, cert)
	return r
}

// Validate checks the key/certificate public-key-match invariant
func (r *Resource) Validate() (err error) {
	if r.Key == nil || r.Certificate == nil || r.Certificate.PublicKey == nil {
		return
	}
	if !Equal(r.Key.Public(), r.Certificate.PublicKey) {
		return NewError(KindInvalid, errKeyCertMismatch)
	}
	return
}
