package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-forum-api/internal/auth"
	"go-forum-api/internal/config"
	"go-forum-api/internal/database"
	"go-forum-api/internal/handler"
	"go-forum-api/internal/middleware"
	"go-forum-api/internal/repository"
	"go-forum-api/internal/router"
	"go-forum-api/internal/service"
)

type App struct {
	server *http.Server
	db     *database.DB
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	secret, err := auth.NewSecret(cfg.AuthSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing secret: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	bucketRepo := repository.NewBucketRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)
	articleRepo := repository.NewArticleRepository(pool)
	slog.Info("database ready")

	bans := auth.NewBanList()
	scryptParams := auth.ScryptParams{N: cfg.ScryptN, R: cfg.ScryptR, P: cfg.ScryptP}
	authService := service.NewAuthService(userRepo, secret, bans, cfg.TokenTTL, scryptParams)
	if err := authService.LoadBans(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load ban list: %w", err)
	}

	forumService := service.NewForumService(bucketRepo, questionRepo, answerRepo, articleRepo)

	authMiddleware := middleware.NewAuthMiddleware(secret, bans)
	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:  handler.NewAuthHandler(authService),
		User:  handler.NewUserHandler(authService, userRepo),
		Forum: handler.NewForumHandler(forumService),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.db.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.db.Close()
	slog.Info("server stopped")
	return nil
}
