package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-forum-api/internal/model"
)

type QuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

func (r *QuestionRepository) Create(ctx context.Context, q model.Question) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO questions (id, bucket_id, author_id, title, body, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		q.ID, q.BucketID, q.AuthorID, q.Title, q.Body, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Question, error) {
	var q model.Question
	err := r.pool.QueryRow(ctx,
		`SELECT id, bucket_id, author_id, title, body, created_at FROM questions WHERE id = $1`, id).
		Scan(&q.ID, &q.BucketID, &q.AuthorID, &q.Title, &q.Body, &q.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Question{}, model.ErrQuestionNotFound
	}
	if err != nil {
		return model.Question{}, fmt.Errorf("find question: %w", err)
	}
	return q, nil
}

func (r *QuestionRepository) ListByBucket(ctx context.Context, bucketID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, bucket_id, author_id, title, body, created_at
		 FROM questions WHERE bucket_id = $1 ORDER BY created_at DESC`, bucketID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	questions := make([]model.Question, 0)
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.BucketID, &q.AuthorID, &q.Title, &q.Body, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrQuestionNotFound
	}
	return nil
}
