package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveSigningKey_Deterministic(t *testing.T) {
	k1 := DeriveSigningKey([]byte("secretKey"))
	k2 := DeriveSigningKey([]byte("secretKey"))

	require.Len(t, k1, 32)
	assert.Equal(t, k1, k2)
}

func TestDeriveSigningKey_DifferentSecrets(t *testing.T) {
	assert.NotEqual(t, DeriveSigningKey([]byte("a")), DeriveSigningKey([]byte("b")))
	assert.NotEqual(t, []byte("secretKey"), DeriveSigningKey([]byte("secretKey")))
}

func TestEqualSecrets(t *testing.T) {
	assert.True(t, EqualSecrets("pw", "pw"))
	assert.True(t, EqualSecrets("", ""))
	assert.False(t, EqualSecrets("pw", "pW"))
	assert.False(t, EqualSecrets("pw", "pw "))
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(16)
	require.NoError(t, err)
	b, err := RandomHex(16)
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
