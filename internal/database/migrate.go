package database

import (
	"context"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"hotelbooking/internal/repository"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate brings the schema up to date. PostgreSQL goes through goose so
// the exclusion constraint on room stays is created; SQLite is for local
// development only and gets a plain AutoMigrate schema without it.
func Migrate(ctx context.Context, db *gorm.DB, dsn string) error {
	if !IsPostgres(dsn) {
		return db.WithContext(ctx).AutoMigrate(repository.Models()...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
