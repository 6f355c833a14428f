/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlcodec

import (
	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/perrors"
)

// Encode serializes r into options.Type, failing with KindInvalid if the
// format’s capability table forbids the resource’s content, or if
// Encrypted is set without a usable passphrase source.
func Encode(r *parltls.Resource, options *parltls.ResourceOptions) (out []byte, err error) {
	if options == nil || options.Type == parltls.FormatUnknown {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("resource options must name a Type to encode"))
		return
	}
	if err = checkCapability(options.Type, r); err != nil {
		return
	}
	if err = r.Validate(); err != nil {
		return
	}
	var formatCap = capabilities[options.Type]
	if options.Encrypted && !formatCap.encryption {
		err = parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("format %v does not support encryption", options.Type))
		return
	}
	if options.Encrypted {
		if _, passErr := options.ResolvePassphrase(); passErr != nil {
			err = parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("encrypted encoding requires a passphrase: %w", passErr))
			return
		}
	}

	switch options.Type {
	case parltls.FormatASN1:
		return encodeASN1(r)
	case parltls.FormatASN1PEM:
		return encodeASN1PEM(r, options)
	case parltls.FormatPKCS7:
		return encodePKCS7DER(r)
	case parltls.FormatPKCS7PEM:
		return encodePKCS7PEM(r)
	case parltls.FormatPKCS8:
		return encodePKCS8(r, options)
	case parltls.FormatPKCS8PEM:
		return encodePKCS8PEM(r, options)
	case parltls.FormatPKCS12:
		return encodePKCS12(r, options)
	default:
		err = parltls.NewError(parltls.KindInvalid, errUnsupportedFormat(options.Type))
		return
	}
}

// Decode parses data per options, sniffing the format when options.Type
// is [parltls.FormatUnknown]. If options.Type is set, a mismatch between
// it and the sniffed content fails with KindInvalid.
func Decode(data []byte, options *parltls.ResourceOptions) (r *parltls.Resource, err error) {
	if options == nil {
		options = &parltls.ResourceOptions{}
	}

	var format = options.Type
	if format == parltls.FormatUnknown {
		var isPEM bool
		format, isPEM = sniff(data)
		if format == parltls.FormatUnknown {
			err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("unable to determine resource format"))
			return
		}
		_ = isPEM
	} else {
		sniffed, _ := sniff(data)
		if sniffed != parltls.FormatUnknown && !formatsCompatible(format, sniffed) {
			err = parltls.NewError(parltls.KindInvalid, perrors.ErrorfPF("resource options named %v but content sniffed as %v", format, sniffed))
			return
		}
	}

	switch format {
	case parltls.FormatASN1:
		return decodeASN1(data)
	case parltls.FormatASN1PEM:
		return decodeASN1PEM(data, options)
	case parltls.FormatPKCS7:
		return decodePKCS7DER(data)
	case parltls.FormatPKCS7PEM:
		return decodePKCS7PEM(data)
	case parltls.FormatPKCS8:
		return decodePKCS8(data, options)
	case parltls.FormatPKCS8PEM:
		return decodePKCS8PEM(data, options)
	case parltls.FormatPKCS12:
		return decodePKCS12(data, options)
	default:
		err = parltls.NewError(parltls.KindInvalid, errUnsupportedFormat(format))
		return
	}
}

// formatsCompatible reports whether the sniffed format is a subtype of
// the requested format family (eg. pkcs8-pem sniffed for an asn1-pem
// request whose first block is a private key still counts, since sniff
// cannot distinguish pkcs8-pem from asn1-pem by PEM type alone for a
// "PRIVATE KEY" block)
func formatsCompatible(requested, sniffed parltls.Format) (compatible bool) {
	if requested == sniffed {
		return true
	}
	if requested == parltls.FormatPKCS8PEM && sniffed == parltls.FormatASN1PEM {
		return true
	}
	if requested == parltls.FormatASN1PEM && sniffed == parltls.FormatPKCS8PEM {
		return true
	}
	if (requested == parltls.FormatPKCS7 || requested == parltls.FormatPKCS8) && sniffed == parltls.FormatASN1 {
		// plain DER pkcs7 and pkcs8 are themselves a SEQUENCE and
		// cannot be distinguished from asn1 by tag alone; trust the
		// caller-pinned Type, same as pkcs12 below
		return true
	}
	if requested == parltls.FormatPKCS12 {
		// pkcs12 is DER-opaque and cannot be distinguished by sniff;
		// trust the caller-pinned Type
		return true
	}
	return
}
