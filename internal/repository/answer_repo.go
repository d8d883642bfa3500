package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-forum-api/internal/model"
)

type AnswerRepository struct {
	pool *pgxpool.Pool
}

func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{pool: pool}
}

func (r *AnswerRepository) Create(ctx context.Context, a model.Answer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO answers (id, question_id, author_id, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.QuestionID, a.AuthorID, a.Body, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create answer: %w", err)
	}
	return nil
}

func (r *AnswerRepository) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, question_id, author_id, body, created_at
		 FROM answers WHERE question_id = $1 ORDER BY created_at`, questionID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	answers := make([]model.Answer, 0)
	for rows.Next() {
		var a model.Answer
		if err := rows.Scan(&a.ID, &a.QuestionID, &a.AuthorID, &a.Body, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
