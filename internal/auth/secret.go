package auth

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
)

const (
	minSecretLen       = 128
	recommendedLen     = 256
	generatedSecretLen = 256
)

// printable ASCII, space excluded
const secretAlphabet = "!\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"

// Secret is the process-wide HMAC signing key. It is fixed at startup and
// shared by reference; nothing mutates it afterwards.
type Secret struct {
	key []byte
}

// NewSecret builds the signing key from an operator-supplied value. An empty
// value generates a fresh random key, which makes every restart invalidate
// all outstanding tokens.
func NewSecret(operatorValue string) (*Secret, error) {
	if operatorValue == "" {
		key, err := generateSecret(generatedSecretLen)
		if err != nil {
			return nil, fmt.Errorf("generate signing secret: %w", err)
		}
		slog.Info("generated random signing secret; existing tokens are now invalid")
		return &Secret{key: key}, nil
	}

	if len(operatorValue) <= minSecretLen {
		return nil, fmt.Errorf("signing secret must be longer than %d bytes, got %d", minSecretLen, len(operatorValue))
	}
	if len(operatorValue) < recommendedLen {
		slog.Warn("signing secret is shorter than recommended", "length", len(operatorValue), "recommended", recommendedLen)
	}

	return &Secret{key: []byte(operatorValue)}, nil
}

// Bytes returns the raw key. Callers must treat it as read-only.
func (s *Secret) Bytes() []byte {
	return s.key
}

func generateSecret(length int) ([]byte, error) {
	alphabetLen := big.NewInt(int64(len(secretAlphabet)))
	key := make([]byte, length)
	for i := range key {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return nil, err
		}
		key[i] = secretAlphabet[n.Int64()]
	}
	return key, nil
}
