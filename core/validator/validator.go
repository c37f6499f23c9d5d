package validator

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validate 全局校验器实例
var Validate = New()

// Validator 包装 go-playground/validator，错误信息翻译为英文，字段名取 json 标签
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// New 创建校验器，tagName 为空时使用 validate
func New(tagName ...string) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	if len(tagName) > 0 && tagName[0] != "" {
		v.SetTagName(tagName[0])
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "mapstructure"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	return &Validator{validate: v, trans: trans}
}

// Struct 校验结构体
func (v *Validator) Struct(s any) error {
	return v.StructCtx(context.Background(), s)
}

// StructCtx 带上下文校验结构体
func (v *Validator) StructCtx(ctx context.Context, s any) error {
	return v.translate(v.validate.StructCtx(ctx, s))
}

// Var 校验单个变量
func (v *Validator) Var(field any, tag string) error {
	return v.translate(v.validate.Var(field, tag))
}

// ValidateStruct 实现 gin binding.StructValidator，非结构体直接放行
func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}
	return v.Struct(obj)
}

// Engine 实现 gin binding.StructValidator
func (v *Validator) Engine() any {
	return v.validate
}

func (v *Validator) translate(err error) error {
	if err == nil {
		return nil
	}
	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := &Errors{Fields: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fe.Translate(v.trans),
		})
	}
	return out
}
