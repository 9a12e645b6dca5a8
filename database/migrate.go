package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"transport_backend/internal/logger"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "transport_backend/database/migrations"
)

const (
	// Каталог не читается: миграции зарегистрированы в Go
	migrationsDir = "migrations"

	DefaultTimeout = 5 * time.Second
)

// GormConfig - общая настройка GORM для postgres и тестовой sqlite.
// TranslateError превращает нарушения уникальности в gorm.ErrDuplicatedKey.
func GormConfig(level gormlogger.LogLevel) *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
	}
}

// Connect открывает GORM поверх postgres и проверяет соединение.
func Connect(ctx context.Context, dsn string, debug bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), GormConfig(level))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}
	return db, nil
}

func openMigrationDB(dsn string) (*sql.DB, error) {
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	return goose.OpenDBWithDriver("postgres", dsn)
}

// Migrate выполняет команду goose: up, down, status, reset или version.
func Migrate(ctx context.Context, dsn, command string) error {
	sqlDB, err := openMigrationDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer sqlDB.Close()

	switch command {
	case "up":
		err = goose.UpContext(ctx, sqlDB, migrationsDir)
	case "down":
		err = goose.DownContext(ctx, sqlDB, migrationsDir)
	case "status":
		err = goose.StatusContext(ctx, sqlDB, migrationsDir)
	case "reset":
		err = goose.ResetContext(ctx, sqlDB, migrationsDir)
	case "version":
		err = goose.VersionContext(ctx, sqlDB, migrationsDir)
	default:
		return fmt.Errorf("unknown migrate command %q", command)
	}
	if err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	logger.Info("Migrations finished", "command", command)
	return nil
}
