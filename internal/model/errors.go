package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Forum related errors
	ErrBucketNotFound   = errors.New("bucket not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrArticleNotFound  = errors.New("article not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
