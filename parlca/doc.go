/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

// Package parlca generates, encodes and decodes [parltls.Key] and
// [parltls.Certificate] values: RSA, ECDSA and Ed25519 are fully
// supported; DSA keys can be generated, encoded and decoded, but can
// neither sign a certificate nor be a certificate’s subject key (both
// fail with KindNotImplemented); Ed448 is recognized but fails with
// KindNotImplemented since the Go cryptographic standard library carries
// no Ed448 implementation.
package parlca
