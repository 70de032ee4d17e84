package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var fastConfig = Argon2Config{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewHasher(fastConfig)

	encoded, err := h.Hash("correct horse")
	require.NoError(t, err)
	require.Contains(t, encoded, "$argon2id$")

	ok, err := h.Verify("correct horse", encoded)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify("wrong horse", encoded)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasher_SaltsDiffer(t *testing.T) {
	t.Parallel()

	h := NewHasher(fastConfig)
	a, err := h.Hash("secret123")
	require.NoError(t, err)
	b, err := h.Hash("secret123")
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestVerify_InvalidHash(t *testing.T) {
	t.Parallel()

	_, err := VerifyPassword("x", "not-a-hash")
	require.ErrorIs(t, err, ErrInvalidHash)

	_, err = VerifyPassword("x", "$bcrypt$v=19$m=1,t=1,p=1$abc$def")
	require.ErrorIs(t, err, ErrInvalidHash)
}

func TestNeedsRehash(t *testing.T) {
	t.Parallel()

	weak, err := NewHasher(fastConfig).Hash("secret123")
	require.NoError(t, err)

	stronger := fastConfig
	stronger.Iterations = 2

	require.False(t, NewHasher(fastConfig).NeedsRehash(weak))
	require.True(t, NewHasher(stronger).NeedsRehash(weak))
	require.True(t, NewHasher(fastConfig).NeedsRehash("garbage"))
}
