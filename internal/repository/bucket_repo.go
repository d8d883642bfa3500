package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-forum-api/internal/model"
)

type BucketRepository struct {
	pool *pgxpool.Pool
}

func NewBucketRepository(pool *pgxpool.Pool) *BucketRepository {
	return &BucketRepository{pool: pool}
}

func (r *BucketRepository) Create(ctx context.Context, b model.Bucket) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO buckets (id, name, description, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		b.ID, b.Name, b.Description, b.CreatedBy, b.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return model.ErrInvalidInput
	}
	if err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

func (r *BucketRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Bucket, error) {
	var b model.Bucket
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_by, created_at FROM buckets WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.Description, &b.CreatedBy, &b.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bucket{}, model.ErrBucketNotFound
	}
	if err != nil {
		return model.Bucket{}, fmt.Errorf("find bucket: %w", err)
	}
	return b, nil
}

func (r *BucketRepository) List(ctx context.Context) ([]model.Bucket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_by, created_at FROM buckets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list buckets: %w", err)
	}
	defer rows.Close()

	buckets := make([]model.Bucket, 0)
	for rows.Next() {
		var b model.Bucket
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

func (r *BucketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM buckets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bucket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBucketNotFound
	}
	return nil
}
