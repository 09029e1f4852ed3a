package postgres

import (
	"database/sql"
	"fmt"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewGormDB открывает GORM поверх уже установленного пула соединений,
// чтобы sqlx- и GORM-хранилища делили одно подключение.
func NewGormDB(conn *sql.DB) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: conn}), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Warn),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации GORM: %w", err)
	}
	return db, nil
}
