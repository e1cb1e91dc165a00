package manifest

import (
	"crypto/ed25519"
	"encoding/base64"

	"go.uber.org/zap"
)

// Verifier checks detached ed25519 signatures against a pinned public
// key. The key is fixed at construction; key rotation means building a
// new verifier.
type Verifier struct {
	pub    ed25519.PublicKey
	logger *zap.Logger
}

// NewVerifier pins the given public key. The key must be exactly
// ed25519.PublicKeySize bytes; anything else yields a verifier that
// rejects every signature.
func NewVerifier(pub ed25519.PublicKey, logger *zap.Logger) *Verifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{pub: pub, logger: logger.With(zap.String("component", "manifest_verifier"))}
}

// Verify reports whether signatureB64 is a valid signature over
// manifestBytes. Malformed input of any kind — bad base64, wrong
// signature length, wrong key size — returns false, never an error or
// a panic.
func (v *Verifier) Verify(manifestBytes []byte, signatureB64 string) bool {
	if len(v.pub) != ed25519.PublicKeySize {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		v.logger.Debug("signature not valid base64", zap.Error(err))
		return false
	}
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(v.pub, manifestBytes, sig)
}

// Sign produces the detached base64 signature for manifestBytes.
// Used by packaging tooling and tests; devices only ever verify.
func Sign(priv ed25519.PrivateKey, manifestBytes []byte) string {
	return base64.StdEncoding.EncodeToString(ed25519.Sign(priv, manifestBytes))
}
