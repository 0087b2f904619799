// Package webhook signs and verifies trigger payloads with a shared secret.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignaturePrefix may precede the hex digest in a signature header
const SignaturePrefix = "sha256="

// Sign returns the lowercase hex HMAC-SHA256 of payload
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches payload under secret. An empty
// secret never verifies.
func Verify(secret string, payload []byte, signature string) bool {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), SignaturePrefix)
	if secret == "" || signature == "" {
		return false
	}
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	want, _ := hex.DecodeString(Sign(secret, payload))
	return hmac.Equal(want, got)
}
