package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-forum-api/internal/auth"
	"go-forum-api/internal/model"
)

const userColumns = `id, user_name, password_hash, roles, failed_login_count,
	locked_until, banned, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	var roles []int32
	err := row.Scan(&u.ID, &u.UserName, &u.PasswordHash, &roles, &u.FailedLoginCount,
		&u.LockedUntil, &u.Banned, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Roles = model.RolesFromInt32(roles)
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	u, err := r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, auth.ErrUnknownUser
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByUserName(ctx context.Context, userName string) (model.User, error) {
	u, err := r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(user_name) = lower($1)`,
		strings.TrimSpace(userName)))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, auth.ErrUnknownUser
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by name: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, user_name, password_hash, roles, banned, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		u.ID, u.UserName, u.PasswordHash, model.RolesToInt32(u.Roles), u.Banned, u.CreatedAt, u.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.ErrUserAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// RecordFailedLogin increments the failure counter and extends the lock in a
// single statement. The row lock serializes concurrent failures for the same
// user, so N failures always end with a count of N and a lock of 2*N seconds
// from the last attempt.
func (r *UserRepository) RecordFailedLogin(ctx context.Context, userID uuid.UUID, now time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET failed_login_count = failed_login_count + 1,
		     locked_until = $2 + make_interval(secs => (failed_login_count + 1) * 2),
		     updated_at = $2
		 WHERE id = $1
		 RETURNING failed_login_count`,
		userID, now).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("record failed login: %w", err)
	}
	return count, nil
}

func (r *UserRepository) ClearLock(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET locked_until = NULL, updated_at = $2 WHERE id = $1`,
		userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("clear lock: %w", err)
	}
	return nil
}

func (r *UserRepository) ResetFailedLogins(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET failed_login_count = 0, locked_until = NULL, updated_at = $2 WHERE id = $1`,
		userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("reset failed logins: %w", err)
	}
	return nil
}

func (r *UserRepository) SetBanned(ctx context.Context, userID uuid.UUID, banned bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET banned = $2, updated_at = $3 WHERE id = $1`,
		userID, banned, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set banned: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUnknownUser
	}
	return nil
}

func (r *UserRepository) SetRoles(ctx context.Context, userID uuid.UUID, roles []model.Role) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET roles = $2, updated_at = $3 WHERE id = $1`,
		userID, model.RolesToInt32(roles), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set roles: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUnknownUser
	}
	return nil
}

func (r *UserRepository) ListBannedIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM users WHERE banned`)
	if err != nil {
		return nil, fmt.Errorf("list banned users: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan banned user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UserRepository) List(ctx context.Context) ([]model.PublicUser, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_name, roles, banned FROM users ORDER BY user_name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.PublicUser, 0)
	for rows.Next() {
		var u model.PublicUser
		var roles []int32
		if err := rows.Scan(&u.ID, &u.UserName, &roles, &u.Banned); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Roles = model.RolesFromInt32(roles)
		users = append(users, u)
	}
	return users, rows.Err()
}
