package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kochabx/authkit/core/tag"
)

// Config 令牌配置。access 与 refresh 两类令牌使用不同密钥。
type Config struct {
	AccessSecret    string        `json:"access_secret" mapstructure:"access_secret" validate:"required"`
	RefreshSecret   string        `json:"refresh_secret" mapstructure:"refresh_secret" validate:"required,nefield=AccessSecret"`
	Algorithm       string        `json:"algorithm" mapstructure:"algorithm" default:"HS256" validate:"oneof=HS256 HS384 HS512"`
	AccessTokenTTL  time.Duration `json:"access_token_ttl" mapstructure:"access_token_ttl" default:"192h" validate:"gt=0"`
	RefreshTokenTTL time.Duration `json:"refresh_token_ttl" mapstructure:"refresh_token_ttl" default:"192h" validate:"gt=0"`
	Issuer          string        `json:"issuer" mapstructure:"issuer"`
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() error {
	return tag.ApplyDefaults(c)
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return ErrEmptySecret
	}
	if c.AccessSecret == c.RefreshSecret {
		return ErrSameSecret
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return ErrInvalidTTL
	}
	if signingMethod(c.Algorithm) == nil {
		return ErrUnsupportedAlgorithm
	}
	return nil
}

func signingMethod(alg string) jwt.SigningMethod {
	switch alg {
	case "HS256":
		return jwt.SigningMethodHS256
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return nil
	}
}
