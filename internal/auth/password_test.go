package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Small parameters keep the test fast; the encoded form embeds them, so the
// verify path is identical to production.
func testScryptParams() ScryptParams {
	return ScryptParams{N: 1024, R: 8, P: 1}
}

func TestPasswordHashAndVerify(t *testing.T) {
	t.Parallel()

	encoded, err := HashPassword("correct horse", testScryptParams())
	require.NoError(t, err)
	require.Contains(t, encoded, "scrypt$1024$8$1$")

	ok, err := VerifyPassword("correct horse", encoded)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifyPassword("battery staple", encoded)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPasswordHashIsSalted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("pw", testScryptParams())
	require.NoError(t, err)
	second, err := HashPassword("pw", testScryptParams())
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	for _, encoded := range []string{
		"",
		"bcrypt$10$abc",
		"scrypt$x$8$1$c2FsdA$a2V5",
		"scrypt$1024$8$1$!!!$a2V5",
		"scrypt$1024$8$1$c2FsdA$",
	} {
		_, err := VerifyPassword("pw", encoded)
		require.ErrorIs(t, err, ErrHashFormat, "hash %q", encoded)
	}
}
