package client

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/ConnectApp/internal/config"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Client представляет клиент для взаимодействия с PostgreSQL
type Client struct {
	DB     *sqlx.DB
	logger *slog.Logger
}

// NewClient инициализирует новое подключение к PostgreSQL и применяет миграции
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open PostgreSQL connection", "error", err)
		return nil, fmt.Errorf("ошибка открытия соединения с БД: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		_ = db.Close()
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	logger.Info("PostgreSQL connection established successfully",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if err := applyMigrations(cfg.DatabaseURL, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка при применении миграций: %w", err)
	}

	return &Client{DB: db, logger: logger}, nil
}

// applyMigrations применяет встроенные в бинарник миграции к бд
func applyMigrations(databaseURL string, logger *slog.Logger) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("не удалось открыть встроенные миграции: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("не удалось создать экземпляр мигратора: %w", err)
	}
	defer m.Close()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migrations not required, schema is up to date")
	case err != nil:
		return fmt.Errorf("ошибка выполнения миграций: %w", err)
	default:
		logger.Info("migrations applied successfully")
	}
	return nil
}

// Ping проверяет доступность базы, используется health-эндпоинтом
func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Client) Close() error {
	start := time.Now()
	err := c.DB.Close()
	if err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
