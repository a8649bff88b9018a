package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifySignature checks that sig is hex(HMAC-SHA256(secret,
// gatewayOrderID + "|" + gatewayPaymentID)). Comparison is constant
// time.
func VerifySignature(secret, gatewayOrderID, gatewayPaymentID, sig string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}
