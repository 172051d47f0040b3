// File: internal/infrastructure/security/password_hasher.go
package security

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"

	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
)

// SaltLength is the fixed salt length in hex characters.
const SaltLength = 32

// PasswordHasher turns a plain password into a stored digest and verifies
// candidates against it. Implementations that embed the salt in the digest
// return an empty salt.
type PasswordHasher interface {
	Hash(password string) (digest string, salt string, err error)
	Verify(password, digest, salt string) bool
}

// GenerateSalt produces a 32 hex-character cryptographically random salt.
func GenerateSalt() (string, error) {
	buf := make([]byte, SaltLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashPassword computes the deterministic salted digest of password. The
// digest is 32 hex characters and is compatible with the account records
// this service inherits.
func HashPassword(password, salt string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("%w: password must not be empty", domainErrors.ErrInvalidArgument)
	}
	if salt == "" {
		return "", fmt.Errorf("%w: salt must not be empty", domainErrors.ErrInvalidArgument)
	}
	sum := md5.Sum([]byte(password + salt))
	return hex.EncodeToString(sum[:]), nil
}

// VerifyDigest recomputes the salted digest and compares it in constant
// time. Malformed comparison inputs degrade to false rather than erroring.
func VerifyDigest(password, digest, salt string) bool {
	if password == "" || digest == "" || salt == "" {
		return false
	}
	computed, err := HashPassword(password, salt)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// VerifyPassword verifies a password against a stored digest of either
// supported scheme, detected by format. Mixed digest populations stay
// verifiable while new writes use the configured scheme.
func VerifyPassword(password, digest, salt string) bool {
	if strings.HasPrefix(digest, argon2Prefix) {
		ok, err := VerifyArgon2(password, digest)
		return err == nil && ok
	}
	return VerifyDigest(password, digest, salt)
}

// saltedDigestHasher is the scheme compatible with pre-existing records.
type saltedDigestHasher struct{}

// NewSaltedDigestHasher returns the deterministic salted-digest hasher.
func NewSaltedDigestHasher() PasswordHasher {
	return saltedDigestHasher{}
}

func (saltedDigestHasher) Hash(password string) (string, string, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return "", "", err
	}
	digest, err := HashPassword(password, salt)
	if err != nil {
		return "", "", err
	}
	return digest, salt, nil
}

func (saltedDigestHasher) Verify(password, digest, salt string) bool {
	return VerifyPassword(password, digest, salt)
}

// Strength is the classification of a password's resistance to guessing.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// commonPasswords is the denylist of passwords that are always weak.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"123456":     {},
	"12345678":   {},
	"123456789":  {},
	"qwerty":     {},
	"qwerty123":  {},
	"111111":     {},
	"abc123":     {},
	"letmein":    {},
	"iloveyou":   {},
	"admin":      {},
	"admin123":   {},
	"welcome":    {},
	"monkey":     {},
	"dragon":     {},
	"sunshine":   {},
	"princess":   {},
	"football":   {},
	"000000":     {},
	"1234567890": {},
}

// ClassifyStrength grades a password. Weak means shorter than 8 characters,
// a single character class, or membership in the common-password denylist.
// Strong requires at least 8 characters mixing letters, digits and symbols.
func ClassifyStrength(password string) Strength {
	if _, denied := commonPasswords[strings.ToLower(password)]; denied {
		return StrengthWeak
	}
	if len(password) < 8 {
		return StrengthWeak
	}

	var hasLetter, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	classes := 0
	for _, present := range []bool{hasLetter, hasDigit, hasSymbol} {
		if present {
			classes++
		}
	}
	switch {
	case classes <= 1:
		return StrengthWeak
	case classes == 3:
		return StrengthStrong
	default:
		return StrengthMedium
	}
}
