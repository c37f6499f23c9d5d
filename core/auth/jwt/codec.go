package jwt

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kochabx/authkit/errors"
)

// TokenType 令牌类型
const TokenType = "bearer"

// TokenPair 一次签发的访问令牌与刷新令牌
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Option Codec 选项
type Option func(*Codec)

// WithClock 替换时间源
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// Codec 签发与校验携带用户 id 的 JWT。
// sub 为十进制用户 id，exp 为绝对过期时间，jti 保证同一秒内签发的令牌互不相同。
type Codec struct {
	config Config
	method jwt.SigningMethod
	now    func() time.Time
}

// New 创建 Codec
func New(cfg Config, opts ...Option) (*Codec, error) {
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Codec{
		config: cfg,
		method: signingMethod(cfg.Algorithm),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config 返回生效的配置
func (c *Codec) Config() Config {
	return c.config
}

// Issue 用 secret 签发 subjectID 的令牌，过期时间为 now+ttl。
// ttl 为 0 的令牌签发即过期。
func (c *Codec) Issue(subjectID int64, secret string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subjectID, 10),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
		Issuer:    c.config.Issuer,
	}
	token, err := jwt.NewWithClaims(c.method, claims).SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, 500, "token_sign_failed", "sign token")
	}
	return token, nil
}

// Verify 校验签名与过期时间并返回 subject。
// 签名错误、算法不符、载荷格式错误、subject 缺失或非整数返回 ErrInvalidToken；
// 签名正确但已过期返回 ErrExpired。
func (c *Codec) Verify(token, secret string) (int64, error) {
	return c.parse(token, secret, true)
}

// Subject 只校验签名，忽略过期时间
func (c *Codec) Subject(token, secret string) (int64, error) {
	return c.parse(token, secret, false)
}

func (c *Codec) parse(token, secret string, validateClaims bool) (int64, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(c.now),
	}
	if validateClaims {
		opts = append(opts, jwt.WithExpirationRequired())
		if c.config.Issuer != "" {
			opts = append(opts, jwt.WithIssuer(c.config.Issuer))
		}
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, errors.ErrExpired.WithCause(err)
		}
		return 0, errors.ErrInvalidToken.WithCause(err)
	}

	if claims.Subject == "" {
		return 0, errors.ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.ErrInvalidToken.WithCause(err)
	}
	return id, nil
}

// IssuePair 签发一对访问令牌与刷新令牌
func (c *Codec) IssuePair(subjectID int64) (*TokenPair, error) {
	access, err := c.Issue(subjectID, c.config.AccessSecret, c.config.AccessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := c.Issue(subjectID, c.config.RefreshSecret, c.config.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: TokenType}, nil
}

// VerifyAccess 校验访问令牌
func (c *Codec) VerifyAccess(token string) (int64, error) {
	return c.Verify(token, c.config.AccessSecret)
}

// VerifyRefresh 校验刷新令牌
func (c *Codec) VerifyRefresh(token string) (int64, error) {
	return c.Verify(token, c.config.RefreshSecret)
}

// RefreshSubject 只校验刷新令牌签名，过期的令牌同样返回 subject
func (c *Codec) RefreshSubject(token string) (int64, error) {
	return c.Subject(token, c.config.RefreshSecret)
}
