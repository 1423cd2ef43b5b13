package service

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	"delivery-escrow/internal/core/domain"
)

// Ed25519SignatureService implements ports.SignatureService.
type Ed25519SignatureService struct{}

// NewEd25519SignatureService creates a new Ed25519 signature service.
func NewEd25519SignatureService() *Ed25519SignatureService {
	return &Ed25519SignatureService{}
}

// Sign signs payload with key and returns the lowercase hex signature.
// Clients use it to produce X-Signature.
func (s *Ed25519SignatureService) Sign(key ed25519.PrivateKey, payload string) string {
	return hex.EncodeToString(ed25519.Sign(key, []byte(payload)))
}

// Verify checks signatureHex against payload under the signer's public key.
func (s *Ed25519SignatureService) Verify(signer domain.Identity, payload string, signatureHex string) bool {
	pub := signer.PublicKey()
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, []byte(payload), sig)
}

// BuildCanonicalString constructs the canonical payload for signing.
// Format: METHOD|PATH|TIMESTAMP|NONCE|BODY
func (s *Ed25519SignatureService) BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string {
	return fmt.Sprintf("%s|%s|%d|%s|%s", method, path, timestamp, nonce, body)
}
