// Package signature implements the shared-secret HMAC scheme used to
// authenticate webhook payloads.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Compute returns the hex-encoded HMAC-SHA256 of body keyed by secret.
func Compute(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether header matches the HMAC-SHA256 of the exact raw
// request body bytes. The signature must be computed over the bytes as
// received: re-serializing the JSON can reorder keys or change whitespace
// and break signatures produced upstream.
//
// An empty secret always fails verification.
func Verify(body []byte, header, secret string) bool {
	if secret == "" {
		return false
	}
	expected := Compute(body, secret)
	return hmac.Equal([]byte(header), []byte(expected))
}
