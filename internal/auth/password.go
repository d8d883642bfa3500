package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptSaltLen = 16
	scryptKeyLen  = 32
)

// ScryptParams are the work parameters for password hashing. The defaults
// target tens of milliseconds per hash on current server hardware; raise N
// as hardware improves. Stored hashes embed their own parameters, so changing
// the defaults only affects newly hashed passwords.
type ScryptParams struct {
	N int
	R int
	P int
}

func DefaultScryptParams() ScryptParams {
	return ScryptParams{N: 32768, R: 8, P: 1}
}

// HashPassword derives a fresh salted scrypt hash. The encoded form is
// "scrypt$N$r$p$base64(salt)$base64(key)" so verification can recover the
// parameters without external configuration.
func HashPassword(plain string, params ScryptParams) (string, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(plain), salt, params.N, params.R, params.P, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return fmt.Sprintf("scrypt$%d$%d$%d$%s$%s",
		params.N, params.R, params.P,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// VerifyPassword recomputes the derived key with the parameters and salt
// embedded in the encoded hash and compares in constant time. A mismatch is
// (false, nil); only a malformed encoded hash is an error.
func VerifyPassword(plain string, encoded string) (bool, error) {
	params, salt, want, err := parseEncodedHash(encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrHashFormat, err)
	}

	got, err := scrypt.Key([]byte(plain), salt, params.N, params.R, params.P, len(want))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrHashFormat, err)
	}

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func parseEncodedHash(encoded string) (ScryptParams, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "scrypt" {
		return ScryptParams{}, nil, nil, fmt.Errorf("expected 6 scrypt segments, got %d", len(parts))
	}

	var params ScryptParams
	var err error
	if params.N, err = strconv.Atoi(parts[1]); err != nil {
		return ScryptParams{}, nil, nil, fmt.Errorf("parse N: %v", err)
	}
	if params.R, err = strconv.Atoi(parts[2]); err != nil {
		return ScryptParams{}, nil, nil, fmt.Errorf("parse r: %v", err)
	}
	if params.P, err = strconv.Atoi(parts[3]); err != nil {
		return ScryptParams{}, nil, nil, fmt.Errorf("parse p: %v", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ScryptParams{}, nil, nil, fmt.Errorf("decode salt: %v", err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return ScryptParams{}, nil, nil, fmt.Errorf("decode key: %v", err)
	}
	if len(key) == 0 {
		return ScryptParams{}, nil, nil, fmt.Errorf("empty derived key")
	}

	return params, salt, key, nil
}
