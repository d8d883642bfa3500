package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-forum-api/internal/model"
)

type ArticleRepository struct {
	pool *pgxpool.Pool
}

func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

func (r *ArticleRepository) Create(ctx context.Context, a model.Article) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO articles (id, author_id, title, body, published_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.AuthorID, a.Title, a.Body, a.PublishedAt)
	if err != nil {
		return fmt.Errorf("create article: %w", err)
	}
	return nil
}

func (r *ArticleRepository) List(ctx context.Context) ([]model.Article, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, author_id, title, body, published_at
		 FROM articles ORDER BY published_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]model.Article, 0)
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.AuthorID, &a.Title, &a.Body, &a.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
