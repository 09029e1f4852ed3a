package di

import (
	"context"
	"fmt"

	"github.com/GoArmGo/ConnectApp/internal/adapter/storage/minio"
	"github.com/GoArmGo/ConnectApp/internal/app"
	"github.com/GoArmGo/ConnectApp/internal/auth"
	"github.com/GoArmGo/ConnectApp/internal/config"
	"github.com/GoArmGo/ConnectApp/internal/database/client"
	"github.com/GoArmGo/ConnectApp/internal/database/postgres"
	"github.com/GoArmGo/ConnectApp/internal/database/storage"
	"github.com/GoArmGo/ConnectApp/internal/logger"
	"github.com/GoArmGo/ConnectApp/internal/rabbitmq"
	"github.com/GoArmGo/ConnectApp/internal/usecase"
)

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
// При ошибке уже открытые ресурсы закрываются.
func BuildApp(ctx context.Context) (_ *app.App, err error) {
	// 1. Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	// 2. PostgreSQL + миграции
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, func() { _ = dbClient.Close() })

	// 3. Хранилища: sqlx для пользователей, заявок и ленты, GORM для профилей
	userStorage := storage.NewUserStorage(dbClient.DB, slogger)
	connectionStorage := storage.NewConnectionStorage(dbClient.DB, slogger)
	postStorage := storage.NewPostStorage(dbClient.DB, slogger)

	gormDB, err := postgres.NewGormDB(dbClient.DB.DB)
	if err != nil {
		return nil, err
	}
	profileStorage := postgres.NewGormProfileStorage(gormDB, slogger)

	// 4. Файловое хранилище
	fileStorage, err := minio.NewMinioClient(ctx, cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 5. RabbitMQ: сервер публикует события, воркер их потребляет
	rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}
	closers = append(closers, rabbitMQClient.Close)

	// 6. Токены
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации токенов: %w", err)
	}

	// 7. Бизнес-логика
	users := usecase.NewUserUseCase(userStorage, profileStorage, fileStorage, tokens, slogger)
	connections := usecase.NewConnectionUseCase(connectionStorage, userStorage, rabbitMQClient, slogger)
	posts := usecase.NewPostUseCase(postStorage, fileStorage, slogger)

	application := app.NewApp(cfg, slogger, app.Deps{
		DB:            dbClient,
		Users:         users,
		Connections:   connections,
		Posts:         posts,
		Tokens:        tokens,
		Consumer:      rabbitMQClient,
		Closers:       closers,
		UploadLimiter: make(chan struct{}, cfg.UploadConcurrency),
	})

	slogger.Info("all dependencies initialized")
	return application, nil
}
