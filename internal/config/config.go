package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required"`
	ServerPort  string `env:"SERVER_PORT"`

	// Секрет подписи токенов читается один раз при старте и не меняется в рантайме
	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL"` // 0 — токен без срока действия

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	UploadConcurrency  int           `env:"UPLOAD_CONCURRENCY" envDefault:"5"`
	MaxUploadSizeMB    int64         `env:"MAX_UPLOAD_SIZE_MB" envDefault:"10"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Настройки для MinIO
	MinioEndpoint        string `env:"MINIO_ENDPOINT,required"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID,required"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY,required"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME,required"`
	MinioRegion          string `env:"MINIO_REGION,required"`
	MinioPublicURL       string `env:"MINIO_PUBLIC_URL"`

	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL,required"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"connection_events"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}
	if cfg.UploadConcurrency <= 0 {
		cfg.UploadConcurrency = 5
	}
	if cfg.MaxUploadSizeMB <= 0 {
		cfg.MaxUploadSizeMB = 10
	}
	if cfg.MinioPublicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		cfg.MinioPublicURL = fmt.Sprintf("%s://%s", scheme, cfg.MinioEndpoint)
	}

	return &cfg, nil
}
