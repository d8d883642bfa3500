package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-forum-api/internal/model"
)

type BucketStore interface {
	Create(ctx context.Context, b model.Bucket) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Bucket, error)
	List(ctx context.Context) ([]model.Bucket, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type QuestionStore interface {
	Create(ctx context.Context, q model.Question) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Question, error)
	ListByBucket(ctx context.Context, bucketID uuid.UUID) ([]model.Question, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type AnswerStore interface {
	Create(ctx context.Context, a model.Answer) error
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error)
}

type ArticleStore interface {
	Create(ctx context.Context, a model.Article) error
	List(ctx context.Context) ([]model.Article, error)
}

type ForumService struct {
	buckets   BucketStore
	questions QuestionStore
	answers   AnswerStore
	articles  ArticleStore
}

func NewForumService(buckets BucketStore, questions QuestionStore, answers AnswerStore, articles ArticleStore) *ForumService {
	return &ForumService{
		buckets:   buckets,
		questions: questions,
		answers:   answers,
		articles:  articles,
	}
}

func (s *ForumService) CreateBucket(ctx context.Context, createdBy uuid.UUID, name string, description string) (model.Bucket, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Bucket{}, fmt.Errorf("%w: bucket name is required", model.ErrInvalidInput)
	}

	bucket := model.Bucket{
		ID:          uuid.New(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.buckets.Create(ctx, bucket); err != nil {
		return model.Bucket{}, err
	}
	return bucket, nil
}

func (s *ForumService) ListBuckets(ctx context.Context) ([]model.Bucket, error) {
	return s.buckets.List(ctx)
}

func (s *ForumService) DeleteBucket(ctx context.Context, id uuid.UUID) error {
	return s.buckets.Delete(ctx, id)
}

func (s *ForumService) AskQuestion(ctx context.Context, bucketID uuid.UUID, authorID uuid.UUID, title string, body string) (model.Question, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Question{}, fmt.Errorf("%w: question title is required", model.ErrInvalidInput)
	}

	if _, err := s.buckets.FindByID(ctx, bucketID); err != nil {
		return model.Question{}, err
	}

	question := model.Question{
		ID:        uuid.New(),
		BucketID:  bucketID,
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return model.Question{}, err
	}
	return question, nil
}

func (s *ForumService) ListQuestions(ctx context.Context, bucketID uuid.UUID) ([]model.Question, error) {
	if _, err := s.buckets.FindByID(ctx, bucketID); err != nil {
		return nil, err
	}
	return s.questions.ListByBucket(ctx, bucketID)
}

func (s *ForumService) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return s.questions.Delete(ctx, id)
}

func (s *ForumService) AnswerQuestion(ctx context.Context, questionID uuid.UUID, authorID uuid.UUID, body string) (model.Answer, error) {
	if strings.TrimSpace(body) == "" {
		return model.Answer{}, fmt.Errorf("%w: answer body is required", model.ErrInvalidInput)
	}

	if _, err := s.questions.FindByID(ctx, questionID); err != nil {
		return model.Answer{}, err
	}

	answer := model.Answer{
		ID:         uuid.New(),
		QuestionID: questionID,
		AuthorID:   authorID,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return model.Answer{}, err
	}
	return answer, nil
}

func (s *ForumService) ListAnswers(ctx context.Context, questionID uuid.UUID) ([]model.Answer, error) {
	if _, err := s.questions.FindByID(ctx, questionID); err != nil {
		return nil, err
	}
	return s.answers.ListByQuestion(ctx, questionID)
}

func (s *ForumService) PublishArticle(ctx context.Context, authorID uuid.UUID, title string, body string) (model.Article, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Article{}, fmt.Errorf("%w: article title is required", model.ErrInvalidInput)
	}

	article := model.Article{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       title,
		Body:        body,
		PublishedAt: time.Now().UTC(),
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return model.Article{}, err
	}
	return article, nil
}

func (s *ForumService) ListArticles(ctx context.Context) ([]model.Article, error) {
	return s.articles.List(ctx)
}
