package db

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kochabx/authkit/log"
)

func newMemory(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), &Config{
		Driver: DriverSQLite,
		DSN:    "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
	}, WithLogger(log.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(context.Background(), &Config{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestSQLiteClient(t *testing.T) {
	client := newMemory(t)

	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, DriverSQLite, client.Driver())
	assert.Equal(t, 1, client.Stats().MaxOpenConnections)
	assert.NotNil(t, client.DB())
}

func TestMigrateAndTranslateError(t *testing.T) {
	client := newMemory(t)
	ctx := context.Background()

	require.NoError(t, client.Migrate(ctx, os.DirFS("testdata")))
	// second run is a no-op
	require.NoError(t, client.Migrate(ctx, os.DirFS("testdata")))

	type item struct {
		ID   int64
		Name string
	}
	db := client.DB().WithContext(ctx)
	require.NoError(t, db.Create(&item{Name: "a"}).Error)

	err := db.Create(&item{Name: "a"}).Error
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestMigrateMissingDialectDir(t *testing.T) {
	client := newMemory(t)
	client.config.Driver = DriverPostgres
	assert.Error(t, client.Migrate(context.Background(), os.DirFS("testdata")))
}

func TestDataSourceName(t *testing.T) {
	cfg := &Config{Driver: DriverPostgres}
	require.NoError(t, cfg.ApplyDefaults())

	dsn, err := cfg.DataSourceName()
	require.NoError(t, err)
	assert.Contains(t, dsn, "host=localhost port=5432 user=postgres")
	assert.Contains(t, dsn, "sslmode=disable")

	cfg.Driver = DriverMySQL
	dsn, err = cfg.DataSourceName()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, "root:@tcp(localhost:3306)/app?"))
	assert.Contains(t, dsn, "parseTime=true")

	cfg.Driver = DriverSQLite
	dsn, err = cfg.DataSourceName()
	require.NoError(t, err)
	assert.Equal(t, "file:authkit.db?_journal_mode=WAL&_busy_timeout=5000", dsn)
}

func TestCloseNotInitialized(t *testing.T) {
	c := &Client{}
	assert.NoError(t, c.Close())
	assert.ErrorIs(t, c.Ping(context.Background()), ErrNotInitialized)
}
