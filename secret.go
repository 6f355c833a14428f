/*
© 2021–present Harald Rudell <harald.rudell@gmail.com> (https://haraldrudell.github.io/haraldrudell/)
ISC License
*/

package parltls

import "crypto/subtle"

// Secret is an opaque byte container for passphrases and other sensitive
// material. Clear overwrites its storage with zero bytes; a Secret that
// is released without Clear is not zeroed, and neither is a backing
// array that Append has outgrown.
//   - copying a Secret by value is permitted: the copy shares the
//     original’s backing array until an Append reallocates it
//   - equality is constant-time to avoid timing side-channels on
//     passphrase comparison
type Secret struct {
	b []byte
}

// NewSecret returns a Secret initialized with a copy of b
func NewSecret(b []byte) (s *Secret) {
	s = &Secret{}
	s.Append(b)
	return
}

// Append adds b to the end of the secret’s storage
func (s *Secret) Append(b []byte) {
	if len(b) == 0 {
		return
	}
	s.b = append(s.b, b...)
}

// Len returns the number of bytes held
func (s *Secret) Len() (length int) {
	if s == nil {
		return
	}
	return len(s.b)
}

// Bytes returns the held bytes. The returned slice aliases the Secret’s
// storage and must not be retained past a subsequent Clear
func (s *Secret) Bytes() (b []byte) {
	if s == nil {
		return
	}
	return s.b
}

// Equal performs a constant-time comparison against other
func (s *Secret) Equal(other *Secret) (isEqual bool) {
	if s == nil || other == nil {
		return s == other
	}
	return subtle.ConstantTimeCompare(s.b, other.b) == 1
}

// Clear overwrites the storage with zero bytes and releases it. Clear is
// idempotent and safe to call on a nil Secret
func (s *Secret) Clear() {
	if s == nil {
		return
	}
	for i := range s.b {
		s.b[i] = 0
	}
	s.b = nil
}
