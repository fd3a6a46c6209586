package licenses

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Attestation is the signed proof of license validity an offline client
// caches between checks. Signing covers the JSON encoding of this struct,
// so the field set and order are part of the wire contract.
type Attestation struct {
	BusinessID  string `json:"business_id"`
	Fingerprint string `json:"fingerprint"`
	Expiry      string `json:"expiry"`
	ServerTime  string `json:"server_time"`
}

// Signer produces HMAC-SHA256 attestations for license verification
// responses.
type Signer struct {
	secret []byte
}

// NewSigner builds a signer from the shared license secret.
func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

// Sign returns the hex HMAC over the attestation's JSON encoding.
func (s *Signer) Sign(att Attestation) (string, error) {
	payload, err := json.Marshal(att)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Verify reports whether the signature matches the attestation.
func (s *Signer) Verify(att Attestation, signature string) bool {
	expected, err := s.Sign(att)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(expected), []byte(signature))
}

func formatExpiry(expiry *time.Time) string {
	if expiry == nil {
		return ""
	}
	return expiry.UTC().Format(time.RFC3339)
}
