// Package shopify holds the wire-level pieces of the Shopify webhook
// integration: header names, HMAC signature verification and the lenient
// payload types that absorb Shopify's string-or-number JSON encoding.
package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// Webhook request headers set by Shopify
const (
	HeaderTopic      = "X-Shopify-Topic"
	HeaderHmacSHA256 = "X-Shopify-Hmac-Sha256"
	HeaderShopDomain = "X-Shopify-Shop-Domain"
)

// ComputeSignature returns the base64-encoded HMAC-SHA256 of the raw
// request body under the tenant's webhook secret
func ComputeSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook signature in constant time.
// The signature must be computed over the exact raw bytes of the request
// body, before any JSON decoding.
func VerifySignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := ComputeSignature(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
