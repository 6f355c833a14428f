/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package parlcodec encodes and decodes a [parltls.Resource] across the
// five container formats the engine supports: asn1, asn1-pem, pkcs7 (and
// its PEM wrapping), pkcs8 (and its PEM wrapping), and pkcs12.
package parlcodec
