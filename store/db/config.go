package db

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/kochabx/authkit/core/tag"
)

// Driver 数据库驱动类型
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// Config 数据库配置，Driver 决定使用哪一段驱动配置
type Config struct {
	Driver Driver `json:"driver" mapstructure:"driver" default:"sqlite" validate:"oneof=mysql postgres sqlite"`
	// DSN 非空时直接使用，忽略驱动配置
	DSN      string         `json:"dsn" mapstructure:"dsn"`
	Postgres PostgresConfig `json:"postgres" mapstructure:"postgres"`
	MySQL    MySQLConfig    `json:"mysql" mapstructure:"mysql"`
	SQLite   SQLiteConfig   `json:"sqlite" mapstructure:"sqlite"`
	Pool     PoolConfig     `json:"pool" mapstructure:"pool"`
	// LogLevel silent/error/warn/info
	LogLevel      string        `json:"log_level" mapstructure:"log_level" default:"warn" validate:"oneof=silent error warn info"`
	SlowThreshold time.Duration `json:"slow_threshold" mapstructure:"slow_threshold" default:"200ms"`
	// Migrate 启动时执行数据库迁移
	Migrate bool `json:"migrate" mapstructure:"migrate"`
}

// PoolConfig 连接池配置，SQLite 下 MaxOpenConns 为 0 时固定为 1
type PoolConfig struct {
	MaxIdleConns    int           `json:"max_idle_conns" mapstructure:"max_idle_conns" default:"10"`
	MaxOpenConns    int           `json:"max_open_conns" mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" mapstructure:"conn_max_lifetime" default:"1h"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time" mapstructure:"conn_max_idle_time" default:"10m"`
}

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	Host           string `json:"host" mapstructure:"host" default:"localhost"`
	Port           int    `json:"port" mapstructure:"port" default:"5432"`
	User           string `json:"user" mapstructure:"user" default:"postgres"`
	Password       string `json:"password" mapstructure:"password"`
	Database       string `json:"database" mapstructure:"database" default:"app"`
	SSLMode        string `json:"sslmode" mapstructure:"sslmode" default:"disable"`
	TimeZone       string `json:"timezone" mapstructure:"timezone" default:"UTC"`
	ConnectTimeout int    `json:"connect_timeout" mapstructure:"connect_timeout" default:"10"`
}

func (c PostgresConfig) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s connect_timeout=%d",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode, c.TimeZone, c.ConnectTimeout)
}

// MySQLConfig MySQL 配置
type MySQLConfig struct {
	Host     string        `json:"host" mapstructure:"host" default:"localhost"`
	Port     int           `json:"port" mapstructure:"port" default:"3306"`
	User     string        `json:"user" mapstructure:"user" default:"root"`
	Password string        `json:"password" mapstructure:"password"`
	Database string        `json:"database" mapstructure:"database" default:"app"`
	Charset  string        `json:"charset" mapstructure:"charset" default:"utf8mb4"`
	Loc      string        `json:"loc" mapstructure:"loc" default:"UTC"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout" default:"10s"`
}

func (c MySQLConfig) dsn() string {
	q := url.Values{}
	q.Set("charset", c.Charset)
	q.Set("parseTime", "true")
	q.Set("loc", c.Loc)
	q.Set("timeout", c.Timeout.String())
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", c.User, c.Password, c.Host, c.Port, c.Database, q.Encode())
}

// SQLiteConfig SQLite 配置
type SQLiteConfig struct {
	Path        string `json:"path" mapstructure:"path" default:"authkit.db"`
	JournalMode string `json:"journal_mode" mapstructure:"journal_mode" default:"WAL"`
	BusyTimeout int    `json:"busy_timeout" mapstructure:"busy_timeout" default:"5000"`
}

func (c SQLiteConfig) dsn() string {
	return "file:" + c.Path + "?_journal_mode=" + c.JournalMode + "&_busy_timeout=" + strconv.Itoa(c.BusyTimeout)
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() error {
	return tag.ApplyDefaults(c)
}

// DataSourceName 返回当前驱动的连接串
func (c *Config) DataSourceName() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch c.Driver {
	case DriverPostgres:
		return c.Postgres.dsn(), nil
	case DriverMySQL:
		return c.MySQL.dsn(), nil
	case DriverSQLite:
		return c.SQLite.dsn(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, c.Driver)
	}
}
