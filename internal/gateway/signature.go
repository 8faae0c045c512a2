package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier checks checkout callbacks, which carry
// hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

func (v *SignatureVerifier) mac(orderID, paymentID string) []byte {
	h := hmac.New(sha256.New, v.secret)
	h.Write([]byte(orderID + "|" + paymentID))
	return h.Sum(nil)
}

// Sign returns the signature the gateway would send for the pair.
func (v *SignatureVerifier) Sign(orderID, paymentID string) string {
	return hex.EncodeToString(v.mac(orderID, paymentID))
}

// Verify compares in constant time. Malformed hex never matches, and nothing
// matches when the verifier has no secret.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) bool {
	if len(v.secret) == 0 {
		return false
	}
	given, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(v.mac(orderID, paymentID), given)
}
