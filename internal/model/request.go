package model

type LoginRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

type RoleChangeRequest struct {
	Role string `json:"role"`
}

type CreateBucketRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateQuestionRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type CreateAnswerRequest struct {
	Body string `json:"body"`
}

type CreateArticleRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
