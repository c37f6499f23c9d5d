// Package settings is the process configuration of authd.
package settings

import (
	"time"

	"github.com/kochabx/authkit/config"
	"github.com/kochabx/authkit/core/auth/jwt"
	"github.com/kochabx/authkit/core/auth/session"
	"github.com/kochabx/authkit/log"
	"github.com/kochabx/authkit/store/db"
	"github.com/kochabx/authkit/store/kafka"
	"github.com/kochabx/authkit/store/redis"
	khttp "github.com/kochabx/authkit/transport/http"
)

// EnvPrefix prefixes every environment override, e.g. AUTHKIT_JWT_ACCESS_SECRET.
const EnvPrefix = "AUTHKIT"

// Settings 进程配置
type Settings struct {
	App            App              `json:"app" mapstructure:"app"`
	HTTP           khttp.Options    `json:"http" mapstructure:"http"`
	JWT            jwt.Config       `json:"jwt" mapstructure:"jwt"`
	Session        session.Keyspace `json:"session" mapstructure:"session"`
	Redis          redis.Config     `json:"redis" mapstructure:"redis"`
	Database       db.Config        `json:"database" mapstructure:"database"`
	Log            log.Config       `json:"log" mapstructure:"log"`
	FirstSuperuser FirstSuperuser   `json:"first_superuser" mapstructure:"first_superuser"`
	Audit          Audit            `json:"audit" mapstructure:"audit"`
}

// App 服务本身的配置
type App struct {
	Name             string        `json:"name" mapstructure:"name" default:"authkit" validate:"required"`
	Addr             string        `json:"addr" mapstructure:"addr" default:":8000" validate:"required"`
	OpenRegistration bool          `json:"open_registration" mapstructure:"open_registration"`
	BcryptCost       int           `json:"bcrypt_cost" mapstructure:"bcrypt_cost" default:"10" validate:"gte=4,lte=31"`
	ShutdownTimeout  time.Duration `json:"shutdown_timeout" mapstructure:"shutdown_timeout" default:"30s"`
	// CorsOrigins 为空时不启用 CORS
	CorsOrigins []string  `json:"cors_origins" mapstructure:"cors_origins"`
	SignInLimit RateLimit `json:"sign_in_limit" mapstructure:"sign_in_limit"`
}

// RateLimit 按客户端 IP 的滑动窗口限流
type RateLimit struct {
	Enabled bool          `json:"enabled" mapstructure:"enabled"`
	Window  time.Duration `json:"window" mapstructure:"window" default:"1m"`
	Limit   int           `json:"limit" mapstructure:"limit" default:"10" validate:"gt=0"`
}

// FirstSuperuser 启动时确保存在的超级用户，Email 为空表示跳过
type FirstSuperuser struct {
	Email    string `json:"email" mapstructure:"email" validate:"omitempty,email"`
	Password string `json:"password" mapstructure:"password" validate:"required_with=Email,max=72"`
	FullName string `json:"full_name" mapstructure:"full_name"`
}

// Enabled 是否配置了首个超级用户
func (f FirstSuperuser) Enabled() bool {
	return f.Email != ""
}

// Audit 审计事件投递
type Audit struct {
	Enabled bool         `json:"enabled" mapstructure:"enabled"`
	Topic   string       `json:"topic" mapstructure:"topic" default:"authkit.audit"`
	Kafka   kafka.Config `json:"kafka" mapstructure:"kafka"`
}

// Load 从 file 与环境变量加载配置。file 为空时只使用默认值与环境变量。
// 返回的 config.Config 可用于 Watch。
func Load(file string, opts ...config.Option) (*Settings, *config.Config, error) {
	s := new(Settings)
	base := []config.Option{config.WithFile(file), config.WithEnvPrefix(EnvPrefix)}
	c := config.New(s, append(base, opts...)...)
	if err := c.Load(); err != nil {
		return nil, nil, err
	}
	return s, c, nil
}
