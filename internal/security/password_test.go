package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	passwords := []string{"secret", "Pässphräse123!", "a", strings.Repeat("x", 72)}

	for _, password := range passwords {
		hash, err := hasher.Hash(password)
		require.NoError(t, err)
		assert.NotEqual(t, password, hash)
		assert.True(t, strings.HasPrefix(hash, "$2"))

		ok, err := hasher.Verify(password, hash)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify against its own hash", password)
	}
}

func TestBcryptHasher_DifferentPasswordDoesNotVerify(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)

	for _, other := range []string{"correct horse ", "Correct horse", "", "battery staple"} {
		ok, err := hasher.Verify(other, hash)
		require.NoError(t, err)
		assert.False(t, ok, "password %q must not verify", other)
	}
}

func TestBcryptHasher_SaltsEveryHash(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	for _, stored := range []string{"", "plaintext", "$argon2id$v=19$m=65536,t=3,p=1$abc$def"} {
		ok, err := hasher.Verify("secret", stored)
		assert.False(t, ok)
		require.ErrorIs(t, err, ErrMalformedHash, "stored value %q", stored)
	}
}

func TestBcryptHasher_RejectsUnusableInput(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)

	_, err := hasher.Hash("")
	require.ErrorIs(t, err, ErrPasswordEmpty)

	_, err = hasher.Hash(strings.Repeat("x", 73))
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewBcryptHasher_CostBounds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).Cost())
	assert.Equal(t, bcrypt.MinCost, NewBcryptHasher(1).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewBcryptHasher(99).Cost())

	hash, err := NewBcryptHasher(bcrypt.MinCost).Hash("secret")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestOpaqueToken(t *testing.T) {
	t.Parallel()

	first, err := NewOpaqueToken()
	require.NoError(t, err)
	second, err := NewOpaqueToken()
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
	assert.Equal(t, HashOpaqueToken(first), HashOpaqueToken(first))
	assert.NotEqual(t, first, HashOpaqueToken(first))
}
