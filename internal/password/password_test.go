package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasher_HashAndVerify(t *testing.T) {
	h := NewHasher()

	digest, err := h.Hash("secret123")
	require.NoError(t, err)
	require.NotEmpty(t, digest)
	require.NotEqual(t, "secret123", digest)

	assert.True(t, h.Verify("secret123", digest))
	assert.False(t, h.Verify("secret124", digest))
}

func TestHasher_UniqueSalts(t *testing.T) {
	h := NewHasher()

	first, err := h.Hash("secret123")
	require.NoError(t, err)
	second, err := h.Hash("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHasher_VerifyGarbageDigest(t *testing.T) {
	h := NewHasher()

	assert.False(t, h.Verify("secret123", "not-a-bcrypt-digest"))
}

func TestHasher_TooLongPassword(t *testing.T) {
	h := NewHasher()

	// bcrypt rejects inputs over 72 bytes.
	_, err := h.Hash(strings.Repeat("a", 100))
	require.Error(t, err)
}
