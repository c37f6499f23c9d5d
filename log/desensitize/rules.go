package desensitize

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule 脱敏规则
type Rule interface {
	Name() string
	Process(s string) string
}

// ContentRule 按正则匹配内容替换
type ContentRule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// NewContentRule 创建内容规则，replacement 支持 $1 形式的分组引用
func NewContentRule(name, pattern, replacement string) (*ContentRule, error) {
	if name == "" {
		return nil, fmt.Errorf("desensitize: rule name cannot be empty")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("desensitize: invalid pattern %q: %w", pattern, err)
	}
	return &ContentRule{name: name, pattern: re, replacement: replacement}, nil
}

// MustNewContentRule 创建内容规则，失败时 panic
func MustNewContentRule(name, pattern, replacement string) *ContentRule {
	r, err := NewContentRule(name, pattern, replacement)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *ContentRule) Name() string { return r.name }

func (r *ContentRule) Process(s string) string {
	return r.pattern.ReplaceAllString(s, r.replacement)
}

// FieldRule 按 JSON 字段名整体替换字符串值
type FieldRule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// NewFieldRule 创建字段规则，fields 为需要脱敏的 JSON 字段名
func NewFieldRule(name, mask string, fields ...string) (*FieldRule, error) {
	if name == "" {
		return nil, fmt.Errorf("desensitize: rule name cannot be empty")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("desensitize: rule %q has no fields", name)
	}
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = regexp.QuoteMeta(f)
	}
	re, err := regexp.Compile(`"(` + strings.Join(quoted, "|") + `)"\s*:\s*"(?:[^"\\]|\\.)*"`)
	if err != nil {
		return nil, fmt.Errorf("desensitize: field rule %q: %w", name, err)
	}
	return &FieldRule{
		name:        name,
		pattern:     re,
		replacement: `"${1}":"` + strings.ReplaceAll(mask, "$", "$$") + `"`,
	}, nil
}

// MustNewFieldRule 创建字段规则，失败时 panic
func MustNewFieldRule(name, mask string, fields ...string) *FieldRule {
	r, err := NewFieldRule(name, mask, fields...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *FieldRule) Name() string { return r.name }

func (r *FieldRule) Process(s string) string {
	return r.pattern.ReplaceAllString(s, r.replacement)
}
