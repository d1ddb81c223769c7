// Package payment implements the trust boundary with the payment gateway:
// signature verification of payment confirmations and order creation against
// the gateway API.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrVerificationFailed covers every rejection: missing inputs, a signature
// mismatch, and an unconfigured secret. Callers get one indistinct error so a
// forger learns nothing about why verification failed.
var ErrVerificationFailed = errors.New("payment verification failed")

// Verifier proves a payment confirmation originated from the gateway. The
// gateway signs "<orderID>|<paymentID>" with HMAC-SHA256 over a shared secret
// and sends the hex digest alongside the confirmation.
type Verifier struct {
	secret []byte
}

// NewVerifier returns a Verifier over the gateway key secret. An empty secret
// is allowed at construction; verification then fails closed.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Configured reports whether a secret is present. The secret itself is never
// exposed.
func (v *Verifier) Configured() bool {
	return len(v.secret) > 0
}

// Sign computes the expected hex signature for an order/payment pair.
func (v *Verifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the supplied signature against the expected one. Any missing
// input, any mismatch, or a missing secret returns ErrVerificationFailed.
func (v *Verifier) Verify(orderID, paymentID, signature string) error {
	if !v.Configured() {
		return ErrVerificationFailed
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return ErrVerificationFailed
	}
	expected := v.Sign(orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrVerificationFailed
	}
	return nil
}
