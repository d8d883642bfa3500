package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-forum-api/internal/auth"
	"go-forum-api/internal/model"
)

// UserStore is the persistence surface the auth service needs. Lockout
// bookkeeping must be row-atomic: concurrent failed attempts for one user
// must not lose increments.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (model.User, error)
	FindByUserName(ctx context.Context, userName string) (model.User, error)
	Create(ctx context.Context, u model.User) error
	RecordFailedLogin(ctx context.Context, userID uuid.UUID, now time.Time) (int, error)
	ClearLock(ctx context.Context, userID uuid.UUID) error
	ResetFailedLogins(ctx context.Context, userID uuid.UUID) error
	SetBanned(ctx context.Context, userID uuid.UUID, banned bool) error
	SetRoles(ctx context.Context, userID uuid.UUID, roles []model.Role) error
	ListBannedIDs(ctx context.Context) ([]uuid.UUID, error)
}

type AuthService struct {
	users    UserStore
	secret   *auth.Secret
	bans     *auth.BanList
	tokenTTL time.Duration
	scrypt   auth.ScryptParams
}

func NewAuthService(users UserStore, secret *auth.Secret, bans *auth.BanList, tokenTTL time.Duration, scrypt auth.ScryptParams) *AuthService {
	return &AuthService{
		users:    users,
		secret:   secret,
		bans:     bans,
		tokenTTL: tokenTTL,
		scrypt:   scrypt,
	}
}

// LoadBans fills the in-memory revocation set from the banned column. Called
// once at startup; afterwards Ban/Unban keep both sides in step.
func (s *AuthService) LoadBans(ctx context.Context) error {
	ids, err := s.users.ListBannedIDs(ctx)
	if err != nil {
		return fmt.Errorf("load ban list: %w", err)
	}
	for _, id := range ids {
		s.bans.Ban(id)
	}
	if len(ids) > 0 {
		slog.Info("loaded ban list", "banned_users", len(ids))
	}
	return nil
}

// Login verifies the password and returns a signed token. Failed attempts
// lock the account for 2 seconds per accumulated failure; a success resets
// the counter. An expired lock is cleared on the next attempt.
//
// Unknown user and wrong password are deliberately distinguishable in the
// returned error: diagnostics were judged worth the enumeration trade-off.
func (s *AuthService) Login(ctx context.Context, userName string, password string) (string, error) {
	user, err := s.users.FindByUserName(ctx, strings.TrimSpace(userName))
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()

	if user.LockedUntil != nil {
		if user.LockedUntil.After(now) {
			return "", auth.ErrAccountLocked
		}
		if err := s.users.ClearLock(ctx, user.ID); err != nil {
			return "", err
		}
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", err
	}
	if !ok {
		count, err := s.users.RecordFailedLogin(ctx, user.ID, now)
		if err != nil {
			return "", err
		}
		slog.Warn("failed login attempt", "user_name", user.UserName, "failures", count)
		return "", auth.ErrIncorrectPassword
	}

	if user.FailedLoginCount > 0 {
		if err := s.users.ResetFailedLogins(ctx, user.ID); err != nil {
			return "", err
		}
	}

	claims := auth.Claims{
		Subject:   user.ID,
		Roles:     user.Roles,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.tokenTTL),
	}

	token, err := auth.EncodeToken(claims, s.secret)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Register creates an unprivileged user with a freshly salted password hash.
func (s *AuthService) Register(ctx context.Context, userName string, password string) (model.User, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return model.User{}, fmt.Errorf("%w: user name and password are required", model.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password, s.scrypt)
	if err != nil {
		return model.User{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.New(),
		UserName:     userName,
		PasswordHash: hash,
		Roles:        []model.Role{model.RoleUnprivileged},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Ban revokes a user: the banned column persists the decision and the
// in-memory set makes it effective for tokens already in the wild.
func (s *AuthService) Ban(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.SetBanned(ctx, userID, true); err != nil {
		return err
	}
	s.bans.Ban(userID)
	slog.Info("user banned", "user_id", userID)
	return nil
}

func (s *AuthService) Unban(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.SetBanned(ctx, userID, false); err != nil {
		return err
	}
	s.bans.Unban(userID)
	slog.Info("user unbanned", "user_id", userID)
	return nil
}

// GrantRole adds a role to a user's set; roles already present are kept.
func (s *AuthService) GrantRole(ctx context.Context, userID uuid.UUID, role model.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: invalid role", model.ErrInvalidInput)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.HasRole(role) {
		return nil
	}
	return s.users.SetRoles(ctx, userID, append(user.Roles, role))
}

func (s *AuthService) RevokeRole(ctx context.Context, userID uuid.UUID, role model.Role) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	kept := make([]model.Role, 0, len(user.Roles))
	for _, r := range user.Roles {
		if r != role {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(user.Roles) {
		return nil
	}
	return s.users.SetRoles(ctx, userID, kept)
}
