package accounts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	require.NotEqual(t, "hunter22", hash)

	require.True(t, CheckPassword(hash, "hunter22"))
	require.False(t, CheckPassword(hash, "hunter23"))
	require.False(t, CheckPassword("not-a-hash", "hunter22"))
}
