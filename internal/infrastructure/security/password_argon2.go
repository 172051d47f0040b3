// File: internal/infrastructure/security/password_argon2.go
package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	domainErrors "github.com/identity-platform/sso-service/internal/domain/errors"
)

const argon2Prefix = "$argon2id$"

// Argon2idParams holds the parameters for Argon2id hashing.
type Argon2idParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2idParams are moderate parameters suitable for an interactive
// login path.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

type argon2idHasher struct {
	params Argon2idParams
}

// NewArgon2idHasher creates the adaptive, memory-hard password hasher. The
// salt is embedded in the PHC-formatted digest, so Hash returns an empty
// separate salt.
func NewArgon2idHasher(params Argon2idParams) (PasswordHasher, error) {
	if params.Memory == 0 || params.Iterations == 0 || params.Parallelism == 0 || params.SaltLength == 0 || params.KeyLength == 0 {
		return nil, errors.New("argon2id params must be fully configured")
	}
	return &argon2idHasher{params: params}, nil
}

func (h *argon2idHasher) Hash(password string) (string, string, error) {
	if password == "" {
		return "", "", fmt.Errorf("%w: password must not be empty", domainErrors.ErrInvalidArgument)
	}
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Iterations, h.params.Parallelism, b64Salt, b64Hash)
	return encoded, "", nil
}

func (h *argon2idHasher) Verify(password, digest, _ string) bool {
	ok, err := VerifyArgon2(password, digest)
	return err == nil && ok
}

// VerifyArgon2 verifies a password against a PHC-formatted Argon2id digest.
// The parameters are taken from the digest itself so hashes created with
// older parameters remain verifiable.
func VerifyArgon2(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return false, errors.New("invalid hash format: wrong number of parts")
	}
	if parts[1] != "argon2id" {
		return false, errors.New("invalid hash format: not argon2id")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errors.New("invalid hash format: unsupported version")
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, fmt.Errorf("invalid hash format: malformed params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("invalid hash format: failed to decode salt: %w", err)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("invalid hash format: failed to decode hash: %w", err)
	}

	comparison := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, comparison) == 1, nil
}
