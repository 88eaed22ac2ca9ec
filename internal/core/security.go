// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLength   = 16
)

// PasswordFormat is the representation found in a stored password column.
type PasswordFormat int

const (
	FormatPlaintext PasswordFormat = iota
	FormatArgon2id
	FormatBcrypt
)

func (f PasswordFormat) String() string {
	switch f {
	case FormatArgon2id:
		return "argon2id"
	case FormatBcrypt:
		return "bcrypt"
	default:
		return "plaintext"
	}
}

// DetectPasswordFormat sniffs the stored value by its fixed prefix. Anything
// without a known hash prefix is legacy plaintext.
func DetectPasswordFormat(stored string) PasswordFormat {
	switch {
	case strings.HasPrefix(stored, "$argon2id$"):
		return FormatArgon2id
	case strings.HasPrefix(stored, "$2a$"),
		strings.HasPrefix(stored, "$2b$"),
		strings.HasPrefix(stored, "$2y$"):
		return FormatBcrypt
	default:
		return FormatPlaintext
	}
}

// PasswordCheck is the outcome of comparing a candidate against a stored
// value. Upgraded is non-empty when the stored value should be replaced.
type PasswordCheck struct {
	Matched  bool
	Format   PasswordFormat
	Upgraded string
}

func (c PasswordCheck) NeedsUpgrade() bool {
	return c.Matched && c.Upgraded != ""
}

// CheckPassword verifies password against stored in whichever format stored
// is in. A match on plaintext or bcrypt always yields an argon2id digest in
// Upgraded; an argon2id match yields one only if the parameters are stale.
func CheckPassword(password, stored string) (PasswordCheck, error) {
	format := DetectPasswordFormat(stored)
	result := PasswordCheck{Format: format}

	switch format {
	case FormatArgon2id:
		valid, newHash, err := VerifyPasswordWithRehash(password, stored)
		if err != nil {
			return result, err
		}
		result.Matched = valid
		result.Upgraded = newHash

	case FormatBcrypt:
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return result, nil
		}
		if err != nil {
			return result, fmt.Errorf("verify bcrypt hash: %w", err)
		}
		result.Matched = true

	case FormatPlaintext:
		if stored == "" {
			return result, nil
		}
		result.Matched = subtle.ConstantTimeCompare(
			[]byte(password),
			[]byte(stored),
		) == 1
	}

	if result.Matched && format != FormatArgon2id {
		digest, err := HashPassword(password)
		if err != nil {
			//nolint:nilerr // the password matched; the upgrade is retried next login
			return result, nil
		}
		result.Upgraded = digest
	}

	return result, nil
}

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		argonTime,
		argonMemory,
		argonThreads,
		argonKeyLen,
	)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	)

	return encoded, nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	params, salt, hash, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}

	otherHash := argon2.IDKey(
		[]byte(password),
		salt,
		params.time,
		params.memory,
		params.threads,
		params.keyLen,
	)

	return subtle.ConstantTimeCompare(hash, otherHash) == 1, nil
}

func VerifyPasswordWithRehash(
	password, encodedHash string,
) (bool, string, error) {
	valid, err := VerifyPassword(password, encodedHash)
	if err != nil || !valid {
		return false, "", err
	}

	if needsRehash(encodedHash) {
		newHash, hashErr := HashPassword(password)
		if hashErr != nil {
			//nolint:nilerr // password verified successfully; rehash failure is non-critical
			return true, "", nil
		}
		return true, newHash, nil
	}

	return true, "", nil
}

var dummyHash string

func init() {
	hash, err := HashPassword("dummy_password_for_timing_attack_prevention")
	if err != nil {
		panic(fmt.Sprintf("security: failed to generate dummy hash: %v", err))
	}
	dummyHash = hash
}

// BurnPasswordCheck spends the same work as a real argon2id verification.
// Used when the account does not exist.
func BurnPasswordCheck(password string) {
	//nolint:errcheck // result is discarded on purpose
	_, _ = VerifyPassword(password, dummyHash)
}

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

func decodeHash(encodedHash string) (*argonParams, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, nil, fmt.Errorf("invalid hash format")
	}

	if parts[1] != "argon2id" {
		return nil, nil, nil, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid version: %w", err)
	}

	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("incompatible version: %d", version)
	}

	params := &argonParams{}
	_, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&params.memory,
		&params.time,
		&params.threads,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decode hash: %w", err)
	}

	//nolint:gosec // G115: hash length is always small (32 bytes for Argon2id)
	params.keyLen = uint32(len(hash))

	return params, salt, hash, nil
}

func needsRehash(encodedHash string) bool {
	params, _, _, err := decodeHash(encodedHash)
	if err != nil {
		return true
	}

	return params.memory != argonMemory ||
		params.time != argonTime ||
		params.threads != argonThreads ||
		params.keyLen != argonKeyLen
}
