package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kochabx/authkit/store/db"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimal = `
jwt:
  access_secret: access
  refresh_secret: refresh
`

func TestLoadDefaults(t *testing.T) {
	s, c, err := Load(writeFile(t, minimal))
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, "authkit", s.App.Name)
	assert.Equal(t, ":8000", s.App.Addr)
	assert.False(t, s.App.OpenRegistration)
	assert.Equal(t, 30*time.Second, s.App.ShutdownTimeout)
	assert.Equal(t, 192*time.Hour, s.JWT.AccessTokenTTL)
	assert.Equal(t, 192*time.Hour, s.JWT.RefreshTokenTTL)
	assert.Equal(t, []string{"localhost:6379"}, s.Redis.Addrs)
	assert.Equal(t, db.DriverSQLite, s.Database.Driver)
	assert.Equal(t, "info", s.Log.Level)
	assert.Equal(t, "/metrics", s.HTTP.Metrics.Path)
	assert.Equal(t, "/health", s.HTTP.Health.Path)
	assert.Equal(t, "authkit.audit", s.Audit.Topic)
	assert.False(t, s.FirstSuperuser.Enabled())
	assert.False(t, s.App.SignInLimit.Enabled)
	assert.Equal(t, time.Minute, s.App.SignInLimit.Window)
	assert.Equal(t, 10, s.App.SignInLimit.Limit)
}

func TestLoadFile(t *testing.T) {
	s, _, err := Load(writeFile(t, `
app:
  addr: ":9000"
  open_registration: true
jwt:
  access_secret: access
  refresh_secret: refresh
  access_token_ttl: 15m
session:
  prefix: authkit
database:
  driver: postgres
  postgres:
    host: db
first_superuser:
  email: admin@example.com
  password: changeme
`))
	require.NoError(t, err)

	assert.Equal(t, ":9000", s.App.Addr)
	assert.True(t, s.App.OpenRegistration)
	assert.Equal(t, 15*time.Minute, s.JWT.AccessTokenTTL)
	assert.Equal(t, "authkit", s.Session.Prefix)
	assert.Equal(t, db.DriverPostgres, s.Database.Driver)
	assert.Equal(t, "db", s.Database.Postgres.Host)
	assert.Equal(t, 5432, s.Database.Postgres.Port)
	assert.True(t, s.FirstSuperuser.Enabled())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("AUTHKIT_JWT_ACCESS_SECRET", "env-access")
	t.Setenv("AUTHKIT_JWT_REFRESH_SECRET", "env-refresh")
	t.Setenv("AUTHKIT_APP_ADDR", ":7000")

	s, _, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-access", s.JWT.AccessSecret)
	assert.Equal(t, "env-refresh", s.JWT.RefreshSecret)
	assert.Equal(t, ":7000", s.App.Addr)
}

func TestLoadValidation(t *testing.T) {
	_, _, err := Load(writeFile(t, "app:\n  name: x\n"))
	assert.Error(t, err)

	_, _, err = Load(writeFile(t, minimal+"first_superuser:\n  email: admin@example.com\n"))
	assert.Error(t, err)
}
