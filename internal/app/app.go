package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/ConnectApp/internal/auth"
	"github.com/GoArmGo/ConnectApp/internal/config"
	"github.com/GoArmGo/ConnectApp/internal/core/ports"
	"github.com/GoArmGo/ConnectApp/internal/database/client"
	"github.com/GoArmGo/ConnectApp/internal/handler"
	"github.com/GoArmGo/ConnectApp/internal/usecase"
)

type App struct {
	Config *config.Config
	logger *slog.Logger

	db          *client.Client
	users       usecase.UserUseCase
	connections usecase.ConnectionUseCase
	posts       usecase.PostUseCase
	tokens      *auth.TokenManager
	consumer    ports.ConnectionEventConsumer
	closers     []func()

	uploadLimiter chan struct{}
}

// Deps — собранные зависимости приложения
type Deps struct {
	DB          *client.Client
	Users       usecase.UserUseCase
	Connections usecase.ConnectionUseCase
	Posts       usecase.PostUseCase
	Tokens      *auth.TokenManager
	Consumer    ports.ConnectionEventConsumer
	// Closers вызываются при завершении в обратном порядке
	Closers       []func()
	UploadLimiter chan struct{}
}

func NewApp(cfg *config.Config, logger *slog.Logger, d Deps) *App {
	return &App{
		Config:        cfg,
		logger:        logger,
		db:            d.DB,
		users:         d.Users,
		connections:   d.Connections,
		posts:         d.Posts,
		tokens:        d.Tokens,
		consumer:      d.Consumer,
		closers:       d.Closers,
		uploadLimiter: d.UploadLimiter,
	}
}

func (a *App) LoggerIns() *slog.Logger {
	return a.logger
}

// Run запускает приложение в режиме server или worker и ждёт SIGINT/SIGTERM
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer a.Shutdown()

	a.logger.Info("starting", "mode", mode)

	switch mode {
	case "server":
		router := newRouter(routerDeps{
			users:          a.users,
			connections:    a.connections,
			posts:          a.posts,
			tokens:         a.tokens,
			health:         a.db,
			uploads:        handler.NewUploads(a.uploadLimiter, a.Config.MaxUploadSizeMB<<20),
			requestTimeout: a.Config.RequestTimeout,
			corsOrigins:    a.Config.CORSAllowedOrigins,
			logger:         a.logger,
		})
		return runServer(ctx, a.Config.ServerPort, router, a.logger)
	case "worker":
		return runWorker(ctx, a.users, a.consumer, a.logger)
	default:
		return fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	a.logger.Info("application resources released")
}
