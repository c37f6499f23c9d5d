package desensitize

const Mask = "******"

var (
	// PasswordRule 密码字段
	PasswordRule = MustNewFieldRule("password", Mask, "password", "hashed_password", "new_password")

	// TokenRule 令牌字段
	TokenRule = MustNewFieldRule("token", Mask, "token", "access_token", "refresh_token", "authorization")

	// SecretRule 密钥字段
	SecretRule = MustNewFieldRule("secret", Mask, "secret", "access_secret", "refresh_secret")

	// JWTRule 任意位置出现的 JWT
	JWTRule = MustNewContentRule("jwt", `eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`, Mask)

	// EmailRule 邮箱 (alice@example.com -> a***@example.com)
	EmailRule = MustNewContentRule("email", `\b([A-Za-z0-9])[A-Za-z0-9._%+-]*@([A-Za-z0-9.-]+\.[A-Za-z]{2,})\b`, "${1}***@${2}")
)

// BuiltinRules 返回全部内置规则，字段规则在内容规则之前执行
func BuiltinRules() []Rule {
	return []Rule{PasswordRule, TokenRule, SecretRule, JWTRule, EmailRule}
}
