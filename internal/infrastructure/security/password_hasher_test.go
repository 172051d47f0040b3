// File: internal/infrastructure/security/password_hasher_test.go
package security

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
)

func TestGenerateSalt(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, SaltLength)
	_, err = hex.DecodeString(salt)
	assert.NoError(t, err, "salt should be valid hex")

	other, err := GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, salt, other, "two salts should not collide")
}

func TestHashPassword(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)

	digest, err := HashPassword("Secure123!", salt)
	require.NoError(t, err)
	assert.Len(t, digest, 32)
	_, err = hex.DecodeString(digest)
	assert.NoError(t, err, "digest should be valid hex")

	// Deterministic for the same password and salt.
	again, err := HashPassword("Secure123!", salt)
	require.NoError(t, err)
	assert.Equal(t, digest, again)

	// A different salt yields a different digest for the same password.
	otherSalt, err := GenerateSalt()
	require.NoError(t, err)
	otherDigest, err := HashPassword("Secure123!", otherSalt)
	require.NoError(t, err)
	assert.NotEqual(t, digest, otherDigest)
}

func TestHashPasswordEmptyInputs(t *testing.T) {
	_, err := HashPassword("", "abcdef")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidArgument)

	_, err = HashPassword("Secure123!", "")
	assert.ErrorIs(t, err, domainErrors.ErrInvalidArgument)
}

func TestVerifyDigest(t *testing.T) {
	salt, err := GenerateSalt()
	require.NoError(t, err)
	digest, err := HashPassword("Secure123!", salt)
	require.NoError(t, err)

	assert.True(t, VerifyDigest("Secure123!", digest, salt))
	assert.False(t, VerifyDigest("WrongPass!", digest, salt))
	assert.False(t, VerifyDigest("", digest, salt))
	assert.False(t, VerifyDigest("Secure123!", "", salt))
	assert.False(t, VerifyDigest("Secure123!", digest, ""))
}

func TestSaltedDigestHasher(t *testing.T) {
	hasher := NewSaltedDigestHasher()

	digest, salt, err := hasher.Hash("Secure123!")
	require.NoError(t, err)
	assert.Len(t, salt, 32)
	assert.Len(t, digest, 32)

	assert.True(t, hasher.Verify("Secure123!", digest, salt))
	assert.False(t, hasher.Verify("Secure123?", digest, salt))

	// Re-hashing the same password produces a fresh salt and digest.
	digest2, salt2, err := hasher.Hash("Secure123!")
	require.NoError(t, err)
	assert.NotEqual(t, salt, salt2)
	assert.NotEqual(t, digest, digest2)
}

func TestClassifyStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     Strength
	}{
		{"common password", "password", StrengthWeak},
		{"common password mixed case", "QWERTY123", StrengthWeak},
		{"too short", "Ab1!", StrengthWeak},
		{"single class", "abcdefghij", StrengthWeak},
		{"digits only", "9847261538", StrengthWeak},
		{"letters and digits", "Secure123", StrengthMedium},
		{"letters and symbols", "Secure!!!", StrengthMedium},
		{"all three classes", "Secure123!", StrengthStrong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyStrength(tt.password))
		})
	}
}
