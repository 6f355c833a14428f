/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlcodec

import (
	"bytes"
	"encoding/pem"

	"github.com/haraldrudell/parltls"
)

const (
	pemTypeCertificate        = "CERTIFICATE"
	pemTypePrivateKey         = "PRIVATE KEY"
	pemTypeECPrivateKey       = "EC PRIVATE KEY"
	pemTypeEncryptedPrivate   = "ENCRYPTED PRIVATE KEY"
	pemTypePKCS7              = "PKCS7"
	asn1SequenceTag     uint8 = 0x30
)

// sniff determines the container format of der/pem-encoded bytes when
// [parltls.ResourceOptions.Type] was not pinned by the caller. PEM framing
// is checked first, then a raw DER SEQUENCE prefix.
//   - a PKCS#12 container is DER but not a plain SEQUENCE-of-certificate;
//     it is itself a SEQUENCE so it cannot be distinguished from asn1 by
//     tag alone — callers decoding pkcs12 must pin Type explicitly, as the
//     wire format provides no self-describing framing the other DER
//     formats lack
func sniff(data []byte) (format parltls.Format, isPEM bool) {
	if block, _ := pem.Decode(data); block != nil {
		isPEM = true
		switch block.Type {
		case pemTypeCertificate:
			return parltls.FormatASN1PEM, true
		case pemTypePrivateKey, pemTypeECPrivateKey, pemTypeEncryptedPrivate:
			return parltls.FormatPKCS8PEM, true
		case pemTypePKCS7:
			return parltls.FormatPKCS7PEM, true
		default:
			return parltls.FormatASN1PEM, true
		}
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == asn1SequenceTag {
		return parltls.FormatASN1, false
	}
	return parltls.FormatUnknown, false
}
