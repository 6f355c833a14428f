/*
© 2022–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parlca

import (
	"crypto/sha256"
	"encoding/hex"
)

// fingerprint returns the deterministic hash of a DER-encoded
// SubjectPublicKeyInfo required by [parltls.Key.Fingerprint]
func fingerprint(subjectPublicKeyInfoDER []byte) (print string) {
	var sum = sha256.Sum256(subjectPublicKeyInfoDER)
	return hex.EncodeToString(sum[:])
}
