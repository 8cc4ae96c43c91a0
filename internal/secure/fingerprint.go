package secure

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint identifies a secret in logs without exposing any part of it.
func Fingerprint(secret string) string {
	if secret == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:4])
}
