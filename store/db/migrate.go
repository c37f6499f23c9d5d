package db

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// MigrationDir 返回驱动对应的迁移目录名
func MigrationDir(d Driver) string {
	if d == DriverSQLite {
		return "sqlite3"
	}
	return string(d)
}

func gooseDialect(d Driver) (goose.Dialect, error) {
	switch d {
	case DriverPostgres:
		return goose.DialectPostgres, nil
	case DriverMySQL:
		return goose.DialectMySQL, nil
	case DriverSQLite:
		return goose.DialectSQLite3, nil
	default:
		return "", ErrUnsupportedDriver
	}
}

// Migrate 执行 fsys 中当前驱动目录下的全部迁移，
// fsys 的布局为 <postgres|mysql|sqlite3>/NNNNN_name.sql
func (c *Client) Migrate(ctx context.Context, fsys fs.FS) error {
	dialect, err := gooseDialect(c.config.Driver)
	if err != nil {
		return err
	}
	sub, err := fs.Sub(fsys, MigrationDir(c.config.Driver))
	if err != nil {
		return fmt.Errorf("db: migrations for %s: %w", c.config.Driver, err)
	}

	provider, err := goose.NewProvider(dialect, c.sqlDB, sub)
	if err != nil {
		return fmt.Errorf("db: migration provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	for _, r := range results {
		c.logger.Info().Str("migration", r.Source.Path).Dur("duration", r.Duration).Msg("migration applied")
	}
	return nil
}
