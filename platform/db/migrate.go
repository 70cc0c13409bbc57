// Package db provides database connection infrastructure.
// This is part of the platform layer and contains no business logic.
package db

import (
	"context"
	"io/fs"

	"leadconvert/platform/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies all pending migrations from the embedded filesystem.
func RunMigrations(ctx context.Context, cfg config.DatabaseConfig, fsys fs.FS) error {
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	sqlDB, err := goose.OpenDBWithDriver("pgx", cfg.GetDatabaseURL())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	return goose.UpContext(ctx, sqlDB, ".")
}
