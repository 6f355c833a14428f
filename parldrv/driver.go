/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package parldrv is the facade higher layers use: generate and decode
// keys and certificates, build resource bundles, and create client/server
// TLS sessions. It is the single entry point the rest of the engine is
// driven through.
package parldrv

import (
	"sync"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/parlca"
	"github.com/haraldrudell/parltls/parlcodec"
	"github.com/haraldrudell/parltls/parlconn"
)

// Driver is the facade exposing generate/decode/create operations. It is
// a process-wide, initialize-once resource: the underlying cryptographic
// library’s random pool and algorithm registry are established once and
// never torn down during process lifetime. Driver itself carries no
// mutable state and its methods are safe for concurrent use.
type Driver struct{}

var (
	driverOnce     sync.Once
	driverInstance *Driver
)

// GetDriver returns the process-wide Driver, creating it on first access.
// Concurrent first access is safe.
func GetDriver() (driver *Driver) {
	driverOnce.Do(func() { driverInstance = &Driver{} })
	return driverInstance
}

// GenerateKey creates a new [parltls.Key] per options
func (d *Driver) GenerateKey(options parltls.KeyGenOptions) (key parltls.Key, err error) {
	return parlca.GenerateKey(options)
}

// DecodeKey parses a private key from data per resourceOptions, returning
// just the Key from the decoded Resource
func (d *Driver) DecodeKey(data []byte, resourceOptions *parltls.ResourceOptions) (key parltls.Key, err error) {
	var r *parltls.Resource
	if r, err = parlcodec.Decode(data, resourceOptions); err != nil {
		return
	}
	if r.Key == nil {
		err = parltls.NewError(parltls.KindInvalid, errNoKeyInResource)
		return
	}
	key = r.Key
	return
}

// GenerateCertificate creates a self-signed Certificate for subject
func (d *Driver) GenerateCertificate(subject parltls.DistinguishedName, subjectKey parltls.Key, options parlca.CertOptions) (cert *parltls.Certificate, err error) {
	return parlca.GenerateSelfSigned(subject, subjectKey, options)
}

// GenerateCertificateSigned creates a Certificate for subject, signed by
// issuerKey on behalf of issuerCert’s subject
func (d *Driver) GenerateCertificateSigned(subject parltls.DistinguishedName, subjectKey parltls.Key, issuerCert *parltls.Certificate, issuerKey parltls.Key, options parlca.CertOptions) (cert *parltls.Certificate, err error) {
	return parlca.GenerateSigned(subject, subjectKey, issuerCert, issuerKey, options)
}

// DecodeCertificate parses a certificate from data per resourceOptions
func (d *Driver) DecodeCertificate(data []byte, resourceOptions *parltls.ResourceOptions) (cert *parltls.Certificate, err error) {
	var r *parltls.Resource
	if r, err = parlcodec.Decode(data, resourceOptions); err != nil {
		return
	}
	if r.Certificate == nil {
		err = parltls.NewError(parltls.KindInvalid, errNoCertInResource)
		return
	}
	cert = r.Certificate
	return
}

// CreateResource returns an empty, mutable Resource builder
func (d *Driver) CreateResource() (r *parltls.Resource) { return parltls.NewResource() }

// EncodeResource serializes r per resourceOptions
func (d *Driver) EncodeResource(r *parltls.Resource, resourceOptions *parltls.ResourceOptions) (out []byte, err error) {
	return parlcodec.Encode(r, resourceOptions)
}

// DecodeResource parses data per resourceOptions
func (d *Driver) DecodeResource(data []byte, resourceOptions *parltls.ResourceOptions) (r *parltls.Resource, err error) {
	return parlcodec.Decode(data, resourceOptions)
}

// CreateEncryptionClient creates a client-role Session
func (d *Driver) CreateEncryptionClient(options *parltls.Options) (session parltls.Session, err error) {
	return parlconn.NewSession(parltls.RoleClient, options)
}

// CreateEncryptionServer creates a server-role Session
func (d *Driver) CreateEncryptionServer(options *parltls.Options) (session parltls.Session, err error) {
	return parlconn.NewSession(parltls.RoleServer, options)
}
