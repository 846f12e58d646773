package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/videotube-dev/videotube/internal/api/handler"
	"github.com/videotube-dev/videotube/internal/api/middleware"
	"github.com/videotube-dev/videotube/internal/config"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/infrastructure/auth"
	"github.com/videotube-dev/videotube/internal/infrastructure/cache"
	"github.com/videotube-dev/videotube/internal/infrastructure/postgres"
	"github.com/videotube-dev/videotube/internal/infrastructure/queue"
	"github.com/videotube-dev/videotube/internal/infrastructure/storage"
	"github.com/videotube-dev/videotube/internal/infrastructure/userclient"
	"github.com/videotube-dev/videotube/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Infrastructure clients
	pgClient, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pgClient.Close()
	logger.Info("connected to PostgreSQL")

	redisClient, err := cache.NewClient(ctx, cache.ClientConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisClient.Close()
	logger.Info("connected to Redis")

	storageClient, err := storage.NewClient(ctx, storage.ClientConfig{
		Endpoint:      cfg.MinIO.Endpoint,
		AccessKey:     cfg.MinIO.AccessKey,
		SecretKey:     cfg.MinIO.SecretKey,
		Bucket:        cfg.MinIO.Bucket,
		UseSSL:        cfg.MinIO.UseSSL,
		PublicBaseURL: cfg.MinIO.PublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to MinIO: %w", err)
	}
	logger.Info("connected to MinIO")

	queueClient, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer queueClient.Close()
	logger.Info("connected to RabbitMQ")

	tokens, err := auth.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	// Repositories and caches
	hashes := cache.NewHashes(redisClient)
	userCache := cache.NewUserCache(hashes)
	videoCache := cache.NewVideoCache(hashes)
	usernameIndex := cache.NewUsernameIndex(cache.NewStrings(redisClient), cfg.Redis.TTL)

	userRepo := postgres.NewUserRepository(pgClient.Pool())
	videoRepo := postgres.NewVideoRepository(pgClient.Pool())
	commentRepo := postgres.NewCommentRepository(pgClient.Pool())
	likeRepo := postgres.NewLikeRepository(pgClient.Pool())
	subscriptionRepo := postgres.NewSubscriptionRepository(pgClient.Pool())

	// Services
	userSvc := usecase.NewUserService(userRepo, userCache, usernameIndex, storageClient, queueClient)

	// The directory resolves in-process when this instance owns the users
	// table, and over HTTP against the user service otherwise.
	var directory repository.UserDirectory = userSvc
	if cfg.UserService.BaseURL != "" {
		directory = userclient.NewClient(cfg.UserService.BaseURL)
	}

	videoSvc := usecase.NewVideoService(videoRepo, videoCache, storageClient, queueClient, directory)
	commentSvc := usecase.NewCommentService(commentRepo, videoRepo, directory)
	likeSvc := usecase.NewLikeService(likeRepo, videoRepo, commentRepo, directory)
	subscriptionSvc := usecase.NewSubscriptionService(subscriptionRepo, directory)

	r := setupRouter(logger, tokens, userSvc, videoSvc, commentSvc, likeSvc, subscriptionSvc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(
	logger *slog.Logger,
	tokens *auth.Manager,
	userSvc usecase.UserService,
	videoSvc usecase.VideoService,
	commentSvc usecase.CommentService,
	likeSvc usecase.LikeService,
	subscriptionSvc usecase.SubscriptionService,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health)
	r.Handle("/metrics", promhttp.Handler())

	userHandler := handler.NewUserHandler(userSvc, tokens)
	videoHandler := handler.NewVideoHandler(videoSvc)
	commentHandler := handler.NewCommentHandler(commentSvc)
	likeHandler := handler.NewLikeHandler(likeSvc)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionSvc)

	r.Route("/v1", func(r chi.Router) {
		// Public endpoints
		r.Post("/users", userHandler.Register)
		r.Post("/users/login", userHandler.Login)
		r.Post("/users/bulk", userHandler.Bulk)
		r.Get("/videos", videoHandler.List)
		r.Get("/videos/{id}", videoHandler.Get)
		r.Get("/videos/{id}/comments", commentHandler.ListByVideo)
		r.Get("/videos/{id}/likes", likeHandler.ListByVideo)
		r.Get("/comments/{id}", commentHandler.Get)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(tokens))

			r.Post("/users/logout", userHandler.Logout)
			r.Get("/users/me", userHandler.GetCurrent)
			r.Patch("/users/me", userHandler.UpdateProfile)
			r.Delete("/users/me", userHandler.Delete)
			r.Patch("/users/me/avatar", userHandler.UpdateAvatar)
			r.Delete("/users/me/avatar", userHandler.RemoveAvatar)
			r.Patch("/users/me/cover-image", userHandler.UpdateCoverImage)
			r.Delete("/users/me/cover-image", userHandler.RemoveCoverImage)

			r.Post("/videos", videoHandler.Publish)
			r.Patch("/videos/{id}", videoHandler.UpdateDetails)
			r.Patch("/videos/{id}/thumbnail", videoHandler.UpdateThumbnail)
			r.Post("/videos/{id}/toggle-publish", videoHandler.TogglePublish)
			r.Delete("/videos/{id}", videoHandler.Delete)
			r.Post("/videos/{id}/toggle-like", likeHandler.ToggleVideo)

			r.Post("/videos/{id}/comments", commentHandler.Add)
			r.Patch("/comments/{id}", commentHandler.Update)
			r.Delete("/comments/{id}", commentHandler.Delete)
			r.Post("/comments/{id}/toggle-like", likeHandler.ToggleComment)

			r.Post("/channels/{id}/toggle-subscribe", subscriptionHandler.Toggle)
			r.Get("/channels/{id}/subscribers", subscriptionHandler.ListSubscribers)
			r.Get("/channels/{id}/subscribed", subscriptionHandler.ListSubscribed)
		})
	})

	return r
}
