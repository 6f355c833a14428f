/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlcodec

import (
	"crypto/x509"
	"encoding/pem"

	"github.com/haraldrudell/parltls"
	"github.com/haraldrudell/parltls/parlca"
	"github.com/haraldrudell/parltls/perrors"
	"github.com/youmark/pkcs8"
)

// encodePrivateKeyBlock builds the PEM block for a private key, PKCS#8
// DER, encrypted with options.Passphrase when options.Encrypted is set.
// The Go standard library carries no encrypted-PKCS#8 writer, so the
// consumed third-party pkcs8 package performs the PBES2 wrapping.
func encodePrivateKeyBlock(key parltls.Key, options *parltls.ResourceOptions) (block *pem.Block, err error) {
	if options != nil && options.Encrypted {
		var secret *parltls.Secret
		if secret, err = options.ResolvePassphrase(); err != nil {
			return
		}
		var der []byte
		if der, err = pkcs8.MarshalPrivateKey(key.Signer(), secret.Bytes(), nil); perrors.IsPF(&err, "pkcs8.MarshalPrivateKey %w", err) {
			err = parltls.NewError(parltls.KindCrypto, err)
			return
		}
		return &pem.Block{Type: pemTypeEncryptedPrivate, Bytes: der}, nil
	}

	var der []byte
	if der, err = parlca.EncodePrivateKeyDER(key); err != nil {
		return
	}
	return &pem.Block{Type: pemTypePrivateKey, Bytes: der}, nil
}

// decryptPKCS8Block reverses the encrypted branch of
// [encodePrivateKeyBlock]
func decryptPKCS8Block(der []byte, options *parltls.ResourceOptions) (key parltls.Key, err error) {
	if options == nil {
		err = parltls.NewError(parltls.KindUnauthorized, perrors.NewPF("encrypted private key requires a passphrase"))
		return
	}
	var secret *parltls.Secret
	if secret, err = options.ResolvePassphrase(); err != nil {
		err = parltls.NewError(parltls.KindUnauthorized, err)
		return
	}
	var signer any
	if signer, _, err = pkcs8.ParsePKCS8PrivateKey(der, secret.Bytes()); err != nil {
		err = parltls.NewError(parltls.KindUnauthorized, perrors.ErrorfPF("pkcs8.ParsePKCS8PrivateKey %w", err))
		return
	}
	// round-trip the decrypted key back through the standard library’s
	// unencrypted PKCS#8 marshaler, so the rest of the codec only ever
	// handles the in-house parlca key representation
	var plainDER []byte
	if plainDER, err = x509.MarshalPKCS8PrivateKey(signer); err != nil {
		err = parltls.NewError(parltls.KindCrypto, perrors.ErrorfPF("x509.MarshalPKCS8PrivateKey %w", err))
		return
	}
	return parlca.DecodePrivateKey(plainDER)
}

// encodePKCS8 implements the plain (non-PEM) pkcs8 format: private key
// only, optionally encrypted
func encodePKCS8(r *parltls.Resource, options *parltls.ResourceOptions) (der []byte, err error) {
	if r.Key == nil {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("pkcs8 resource requires a private key"))
		return
	}
	var block *pem.Block
	if block, err = encodePrivateKeyBlock(r.Key, options); err != nil {
		return
	}
	return block.Bytes, nil
}

// decodePKCS8 reverses [encodePKCS8]
func decodePKCS8(der []byte, options *parltls.ResourceOptions) (r *parltls.Resource, err error) {
	r = parltls.NewResource()
	if options != nil && options.Encrypted {
		var key parltls.Key
		if key, err = decryptPKCS8Block(der, options); err != nil {
			return
		}
		r.SetKey(key)
		return
	}
	var key parltls.Key
	if key, err = parlca.DecodePrivateKey(der); err != nil {
		return
	}
	r.SetKey(key)
	return
}

// encodePKCS8PEM is pkcs8 wrapped in a single PEM block
func encodePKCS8PEM(r *parltls.Resource, options *parltls.ResourceOptions) (out []byte, err error) {
	if r.Key == nil {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("pkcs8-pem resource requires a private key"))
		return
	}
	var block *pem.Block
	if block, err = encodePrivateKeyBlock(r.Key, options); err != nil {
		return
	}
	return pem.EncodeToMemory(block), nil
}

// decodePKCS8PEM reverses [encodePKCS8PEM]
func decodePKCS8PEM(data []byte, options *parltls.ResourceOptions) (r *parltls.Resource, err error) {
	block, _ := pem.Decode(data)
	if block == nil {
		err = parltls.NewError(parltls.KindInvalid, perrors.NewPF("pkcs8-pem: no pem block found"))
		return
	}
	r = parltls.NewResource()
	if block.Type == pemTypeEncryptedPrivate {
		var key parltls.Key
		if key, err = decryptPKCS8Block(block.Bytes, options); err != nil {
			return
		}
		r.SetKey(key)
		return
	}
	var key parltls.Key
	if key, err = parlca.DecodePrivateKey(block.Bytes); err != nil {
		return
	}
	r.SetKey(key)
	return
}
