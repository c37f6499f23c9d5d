package config

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/kochabx/authkit/core/tag"
	"github.com/kochabx/authkit/core/validator"
)

// FileLoader 从文件与环境变量加载配置
//
// 优先级: 环境变量 > 配置文件 > default 标签
type FileLoader struct {
	viper    *viper.Viper
	validate *validator.Validator
	optional bool
}

// NewFileLoader 创建文件加载器。file 为空时不读取文件，仅使用默认值与环境变量。
// envPrefix 非空时环境变量形如 AUTHKIT_JWT_ACCESS_SECRET。
func NewFileLoader(file, envPrefix string, v *viper.Viper, validate *validator.Validator) *FileLoader {
	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType(strings.TrimPrefix(filepath.Ext(file), "."))
	}
	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &FileLoader{viper: v, validate: validate, optional: file == ""}
}

// Load 实现 Loader
func (l *FileLoader) Load(target any) error {
	if err := tag.ApplyDefaults(target); err != nil {
		return fmt.Errorf("config: apply defaults: %w", err)
	}

	bindEnv(l.viper, reflect.TypeOf(target), "")

	if !l.optional {
		if err := l.viper.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", l.viper.ConfigFileUsed(), err)
		}
	}

	if err := l.viper.Unmarshal(target); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return fmt.Errorf("config: validate: %w", err)
		}
	}
	return nil
}

// Watch 实现 Loader
func (l *FileLoader) Watch(callback func()) error {
	if l.optional {
		return nil
	}
	l.viper.OnConfigChange(func(fsnotify.Event) {
		if callback != nil {
			callback()
		}
	})
	l.viper.WatchConfig()
	return nil
}

// bindEnv 注册所有叶子键，使只出现在环境变量中的键也能被 Unmarshal 读到
func bindEnv(v *viper.Viper, t reflect.Type, prefix string) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}

		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct && ft.PkgPath() != "time" {
			bindEnv(v, ft, key)
			continue
		}
		_ = v.BindEnv(key)
	}
}
