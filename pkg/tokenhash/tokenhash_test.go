package tokenhash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hashed, err := Hash("some-session-token")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)

	assert.True(t, Verify("some-session-token", hashed))
	assert.False(t, Verify("other-token", hashed))
	assert.False(t, Verify("", hashed))
}

func TestHashIsSalted(t *testing.T) {
	a, err := Hash("same-token")
	require.NoError(t, err)
	b, err := Hash("same-token")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, Verify("same-token", a))
	assert.True(t, Verify("same-token", b))
}

func TestHashUsesBcrypt(t *testing.T) {
	hashed, err := Hash("token")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hashed, "$2a$10$"), "got %q", hashed)
}

func TestVerifyGarbageHash(t *testing.T) {
	assert.False(t, Verify("token", "not-a-bcrypt-hash"))
}
