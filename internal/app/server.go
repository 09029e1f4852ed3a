package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/ConnectApp/internal/handler"
	"github.com/GoArmGo/ConnectApp/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// HealthChecker проверяет доступность зависимостей сервера
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// routerDeps — всё, что нужно HTTP-слою
type routerDeps struct {
	users          usecase.UserUseCase
	connections    usecase.ConnectionUseCase
	posts          usecase.PostUseCase
	tokens         handler.TokenVerifier
	health         HealthChecker
	uploads        *handler.Uploads
	requestTimeout time.Duration
	corsOrigins    []string
	logger         *slog.Logger
}

func newRouter(d routerDeps) http.Handler {
	userHandler := handler.NewUserHandler(d.users, d.uploads, d.logger)
	connectionHandler := handler.NewConnectionHandler(d.connections, d.logger)
	postHandler := handler.NewPostHandler(d.posts, d.uploads, d.logger)
	requireAuth := handler.Authenticate(d.tokens, d.logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handler.RequestLogger(d.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if d.requestTimeout > 0 {
		r.Use(middleware.Timeout(d.requestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := d.health.Ping(r.Context()); err != nil {
			d.logger.Error("health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/signup", userHandler.Signup)
		r.Post("/signin", userHandler.Signin)
		r.Get("/getAllUsers", userHandler.ListUsers)
		r.Get("/posts", postHandler.ListPosts)
		r.Get("/posts/{postId}/comments", postHandler.ListComments)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/update_user", userHandler.UpdateUser)
			r.Get("/get_user_and_profile", userHandler.GetUserAndProfile)
			r.Post("/update_user_profile", userHandler.UpdateProfile)
			r.Post("/update_profile_picture", userHandler.UploadProfilePicture)

			r.Post("/user/send_request_connection", connectionHandler.Send)
			r.Get("/user/my_sent_reqs", connectionHandler.ListSent)
			r.Get("/user/my_received_reqs", connectionHandler.ListReceived)
			r.Post("/user/connection_Req_Status", connectionHandler.Resolve)

			r.Post("/create/post", postHandler.CreatePost)
			r.Delete("/delete/post", postHandler.DeletePost)
			r.Post("/create/comment", postHandler.CreateComment)
			r.Delete("/delete/comment", postHandler.DeleteComment)
			r.Post("/increaseLikes", postHandler.LikePost)
		})
	})

	return r
}

// runServer запускает HTTP сервер и блокируется до отмены ctx
func runServer(ctx context.Context, port string, h http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка при запуске сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
