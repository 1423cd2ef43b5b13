package domain

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"
)

// Identity is a hex-encoded Ed25519 public key. It names every party in the
// system: platform authority, treasury, customers and vehicle operators.
type Identity string

// ParseIdentity normalises s to lowercase and checks that it decodes to a
// 32-byte public key.
func ParseIdentity(s string) (Identity, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return "", ErrInvalidIdentity
	}
	return Identity(s), nil
}

// PublicKey returns the decoded key. Callers must only use it on identities
// produced by ParseIdentity.
func (i Identity) PublicKey() ed25519.PublicKey {
	raw, _ := hex.DecodeString(string(i))
	return ed25519.PublicKey(raw)
}

func (i Identity) String() string {
	return string(i)
}
