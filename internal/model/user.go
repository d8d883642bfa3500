package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               uuid.UUID  `json:"id"`
	UserName         string     `json:"user_name"`
	PasswordHash     string     `json:"-"`
	Roles            []Role     `json:"roles"`
	FailedLoginCount int        `json:"-"`
	LockedUntil      *time.Time `json:"-"`
	Banned           bool       `json:"banned"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PublicUser is the administrative listing shape, without credential fields.
type PublicUser struct {
	ID       uuid.UUID `json:"id"`
	UserName string    `json:"user_name"`
	Roles    []Role    `json:"roles"`
	Banned   bool      `json:"banned"`
}
