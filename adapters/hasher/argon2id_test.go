package hasher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h := New()

	encoded, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := h.Verify("s3cret", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	h := New()

	first, err := h.Hash("s3cret")
	require.NoError(t, err)
	second, err := h.Hash("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestHashEmptyPassword(t *testing.T) {
	_, err := New().Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerifyMalformedHash(t *testing.T) {
	h := New()

	for _, encoded := range []string{
		"",
		"not-a-hash",
		"$bcrypt$v=19$m=65536,t=1,p=4$AAAA$BBBB",
		"$argon2id$v=19$bad-params$AAAA$BBBB",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$BBBB",
	} {
		_, err := h.Verify("s3cret", encoded)
		assert.Error(t, err, "hash %q", encoded)
	}
}

func TestVerifyDummyHashNeverMatches(t *testing.T) {
	// The all-zero hash used for unknown-user timing equalization must be
	// well-formed yet unmatchable.
	const dummy = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

	ok, err := New().Verify("s3cret", dummy)
	require.NoError(t, err)
	assert.False(t, ok)
}
