package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-forum-api/internal/model"
)

const bearerPrefix = "Bearer"

// Principal is the authenticated identity handed to a request handler. Role
// is the required role the token satisfied, not the full role set.
type Principal struct {
	Subject uuid.UUID
	Role    model.Role
}

// ExtractPrincipal runs the full authentication pipeline over the raw
// Authorization header values: bearer parsing, signature verification,
// expiry, role check, ban check. It is pure apart from the ban registry
// read, which makes it directly testable without an HTTP server.
func ExtractPrincipal(headerValues []string, secret *Secret, bans *BanList, required model.Role, now time.Time) (Principal, error) {
	if secret == nil || bans == nil {
		return Principal{}, ErrUnavailable
	}

	claims, err := ExtractClaims(headerValues, secret, now)
	if err != nil {
		return Principal{}, err
	}

	if !claims.HasRole(required) {
		return Principal{}, fmt.Errorf("%w: requires role %s", ErrNotAuthorized, required)
	}

	if bans.IsBanned(claims.Subject) {
		return Principal{}, ErrBanned
	}

	return Principal{Subject: claims.Subject, Role: required}, nil
}

// ExtractClaims is the role-agnostic prefix of the pipeline: header parsing,
// signature verification and expiry only. Reauth-style endpoints use it to
// inspect claims without a role gate.
func ExtractClaims(headerValues []string, secret *Secret, now time.Time) (Claims, error) {
	if len(headerValues) != 1 {
		return Claims{}, ErrMissingToken
	}

	parts := strings.Fields(headerValues[0])
	if len(parts) != 2 || parts[0] != bearerPrefix {
		return Claims{}, ErrMalformedToken
	}

	claims, err := DecodeToken(parts[1], secret)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrIllegalToken, err)
	}

	if !claims.ExpiresAt.After(now) {
		return Claims{}, ErrExpiredToken
	}

	return claims, nil
}
