package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-forum-api/internal/config"
	"go-forum-api/internal/handler"
	"go-forum-api/internal/middleware"
	"go-forum-api/internal/model"
)

type Handlers struct {
	Auth  *handler.AuthHandler
	User  *handler.UserHandler
	Forum *handler.ForumHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/register", h.Auth.Register)
			auth.With(authMiddleware.RequireClaims).Get("/me", h.Auth.Me)
		})

		requireNormal := authMiddleware.RequireRole(model.RoleUnprivileged)
		requireModerator := authMiddleware.RequireRole(model.RoleModerator)
		requireAdmin := authMiddleware.RequireRole(model.RoleAdmin)
		requirePublisher := authMiddleware.RequireRole(model.RolePublisher)

		api.With(requireAdmin).Get("/users", h.User.List)
		api.With(requireAdmin).Post("/users/{user_id}/ban", h.User.Ban)
		api.With(requireAdmin).Post("/users/{user_id}/unban", h.User.Unban)
		api.With(requireAdmin).Post("/users/{user_id}/roles", h.User.GrantRole)
		api.With(requireAdmin).Delete("/users/{user_id}/roles", h.User.RevokeRole)

		api.With(requireAdmin).Post("/buckets", h.Forum.CreateBucket)
		api.With(requireNormal).Get("/buckets", h.Forum.ListBuckets)
		api.With(requireAdmin).Delete("/buckets/{bucket_id}", h.Forum.DeleteBucket)

		api.With(requireNormal).Post("/buckets/{bucket_id}/questions", h.Forum.AskQuestion)
		api.With(requireNormal).Get("/buckets/{bucket_id}/questions", h.Forum.ListQuestions)
		api.With(requireModerator).Delete("/questions/{question_id}", h.Forum.DeleteQuestion)

		api.With(requireNormal).Post("/questions/{question_id}/answers", h.Forum.AnswerQuestion)
		api.With(requireNormal).Get("/questions/{question_id}/answers", h.Forum.ListAnswers)

		api.With(requirePublisher).Post("/articles", h.Forum.PublishArticle)
		api.Get("/articles", h.Forum.ListArticles)
	})

	return r
}
