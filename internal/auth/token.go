package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-forum-api/internal/model"
)

// Claims is the signed token payload: subject, role set, issue and expiry
// instants. Timestamps travel as ISO-8601 UTC strings.
type Claims struct {
	Subject   uuid.UUID
	Roles     []model.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type claimsWire struct {
	Subject   uuid.UUID    `json:"sub"`
	Roles     []model.Role `json:"user_roles"`
	IssuedAt  string       `json:"iat"`
	ExpiresAt string       `json:"exp"`
}

func (c Claims) HasRole(role model.Role) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c Claims) MarshalJSON() ([]byte, error) {
	return json.Marshal(claimsWire{
		Subject:   c.Subject,
		Roles:     c.Roles,
		IssuedAt:  c.IssuedAt.UTC().Format(time.RFC3339Nano),
		ExpiresAt: c.ExpiresAt.UTC().Format(time.RFC3339Nano),
	})
}

func (c *Claims) UnmarshalJSON(data []byte) error {
	var wire claimsWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	iat, err := time.Parse(time.RFC3339Nano, wire.IssuedAt)
	if err != nil {
		return fmt.Errorf("parse iat: %w", err)
	}
	exp, err := time.Parse(time.RFC3339Nano, wire.ExpiresAt)
	if err != nil {
		return fmt.Errorf("parse exp: %w", err)
	}

	c.Subject = wire.Subject
	c.Roles = wire.Roles
	c.IssuedAt = iat.UTC()
	c.ExpiresAt = exp.UTC()
	return nil
}

// jwt.Claims interface. Validation is disabled at decode time (expiry is the
// extractor's job), but the library still requires these accessors.

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(c.ExpiresAt), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(c.IssuedAt), nil
}

func (c Claims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

func (c Claims) GetIssuer() (string, error) {
	return "", nil
}

func (c Claims) GetSubject() (string, error) {
	return c.Subject.String(), nil
}

func (c Claims) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}

// EncodeToken signs the claims with HMAC-SHA256 and returns the compact
// three-segment form.
func EncodeToken(claims Claims, secret *Secret) (string, error) {
	if secret == nil {
		return "", ErrUnavailable
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret.Bytes())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenSign, err)
	}
	return signed, nil
}

// DecodeToken verifies the HS256 signature over the transmitted header and
// payload bytes and returns the claims. It deliberately does not check
// expiry; callers that enforce expiry do so against their own clock.
//
// Tokens whose header the jwt library cannot interpret (for example an empty
// header object from older clients) are still accepted when a raw HMAC-SHA256
// check over the transmitted bytes succeeds.
func DecodeToken(raw string, secret *Secret) (Claims, error) {
	if secret == nil {
		return Claims{}, ErrUnavailable
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return secret.Bytes(), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	if err == nil {
		return claims, nil
	}

	fallback, fbErr := decodeRawHS256(raw, secret)
	if fbErr != nil {
		return Claims{}, fmt.Errorf("decode token: %w", err)
	}
	return fallback, nil
}

// decodeRawHS256 is the header-agnostic verification path: recompute
// HMAC-SHA256 over "header.payload" and compare against the third segment.
func decodeRawHS256(raw string, secret *Secret) (Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("expected 3 token segments, got %d", len(parts))
	}

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return Claims{}, fmt.Errorf("decode signature: %w", err)
	}

	mac := hmac.New(sha256.New, secret.Bytes())
	mac.Write([]byte(parts[0] + "." + parts[1]))
	if !hmac.Equal(sig, mac.Sum(nil)) {
		return Claims{}, fmt.Errorf("signature mismatch")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("decode payload: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return Claims{}, fmt.Errorf("unmarshal claims: %w", err)
	}
	return claims, nil
}
