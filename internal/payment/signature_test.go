package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "test-key-secret"
	valid := sign(secret, "order_abc", "pay_xyz")

	require.True(t, VerifySignature(secret, "order_abc", "pay_xyz", valid))

	// tampered in every position
	require.False(t, VerifySignature(secret, "order_abc", "pay_xyz", valid[:len(valid)-1]+"0"))
	require.False(t, VerifySignature(secret, "order_other", "pay_xyz", valid))
	require.False(t, VerifySignature(secret, "order_abc", "pay_other", valid))
	require.False(t, VerifySignature("wrong-secret", "order_abc", "pay_xyz", valid))
	require.False(t, VerifySignature(secret, "order_abc", "pay_xyz", ""))
}

func TestVerifySignatureKnownVector(t *testing.T) {
	// HMAC-SHA256("k", "a|b")
	want := sign("k", "a", "b")
	mac := hmac.New(sha256.New, []byte("k"))
	mac.Write([]byte("a|b"))
	require.Equal(t, hex.EncodeToString(mac.Sum(nil)), want)
	require.True(t, VerifySignature("k", "a", "b", want))
}
