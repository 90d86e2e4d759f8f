package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Load 读取并解析 TOML 配置文件，同时注入默认值与校验逻辑。
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.toml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置失败: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(durationDecodeHook())); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	applyGlobalDefaults(&cfg.Global)
	applyStoreDefaults(&cfg.Store)
	applyGistDefaults(&cfg.Gist)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenPort", 8080)
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFilePath", "")
	v.SetDefault("LogMaxSize", 100)
	v.SetDefault("LogMaxBackups", 10)
	v.SetDefault("LogCompress", true)
	v.SetDefault("Store.Timeout", "10s")
	v.SetDefault("Gist.APIBase", "https://api.github.com")
	v.SetDefault("Gist.Timeout", "10s")
	v.SetDefault("Gist.CacheTTL", "30s")
	v.SetDefault("Gist.SourceExtension", ".go")
}

func applyGlobalDefaults(g *GlobalConfig) {
	if g.ListenPort == 0 {
		g.ListenPort = 8080
	}
	if g.LogLevel == "" {
		g.LogLevel = "info"
	}
}

func applyStoreDefaults(s *StoreConfig) {
	if s.Timeout.DurationValue() == 0 {
		s.Timeout = Duration(10 * time.Second)
	}
}

func applyGistDefaults(g *GistConfig) {
	if g.APIBase == "" {
		g.APIBase = "https://api.github.com"
	}
	if g.Timeout.DurationValue() == 0 {
		g.Timeout = Duration(10 * time.Second)
	}
	if g.CacheTTL.DurationValue() == 0 {
		g.CacheTTL = Duration(30 * time.Second)
	}
	if ext := strings.TrimSpace(g.SourceExtension); ext == "" {
		g.SourceExtension = ".go"
	} else if !strings.HasPrefix(ext, ".") {
		g.SourceExtension = "." + ext
	} else {
		g.SourceExtension = ext
	}
}

func durationDecodeHook() mapstructure.DecodeHookFunc {
	targetType := reflect.TypeOf(Duration(0))

	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != targetType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if v == "" {
				return Duration(0), nil
			}
			if parsed, err := time.ParseDuration(v); err == nil {
				return Duration(parsed), nil
			}
			if intVal, err := parseInt(v); err == nil {
				return Duration(time.Duration(intVal) * time.Second), nil
			}
			return nil, fmt.Errorf("invalid duration value: %s", v)
		case int, int32, int64, float64:
			seconds := reflect.ValueOf(v).Convert(reflect.TypeOf(int64(0))).Int()
			return Duration(time.Duration(seconds) * time.Second), nil
		default:
			return data, nil
		}
	}
}
