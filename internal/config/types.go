package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if seconds, err := time.ParseDuration(raw); err == nil {
		*d = Duration(seconds)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// GlobalConfig 描述进程级运行时行为（监听端口与日志输出）。
type GlobalConfig struct {
	ListenPort    int    `mapstructure:"ListenPort"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`
}

// StoreConfig 决定如何访问存放 sandbox 静态包的对象存储。
type StoreConfig struct {
	Endpoint string   `mapstructure:"Endpoint"`
	Region   string   `mapstructure:"Region"`
	Bucket   string   `mapstructure:"Bucket"`
	Timeout  Duration `mapstructure:"Timeout"`
}

// BaseURL 返回对象存储的根地址；Endpoint 为空时基于 Region 推导标准 S3 域名。
func (s StoreConfig) BaseURL() string {
	if endpoint := strings.TrimRight(strings.TrimSpace(s.Endpoint), "/"); endpoint != "" {
		return endpoint
	}
	return fmt.Sprintf("https://s3.%s.amazonaws.com", s.Region)
}

// GistConfig 决定如何访问远端 gist API 及其缓存/选择行为。
type GistConfig struct {
	APIBase         string   `mapstructure:"APIBase"`
	ClientID        string   `mapstructure:"ClientID"`
	ClientSecret    string   `mapstructure:"ClientSecret"`
	Timeout         Duration `mapstructure:"Timeout"`
	CacheTTL        Duration `mapstructure:"CacheTTL"`
	SourceExtension string   `mapstructure:"SourceExtension"`
}

// HasCredentials 表示是否配置了完整的 gist API 凭证。
func (g GistConfig) HasCredentials() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// AuthMode 输出 `credentialed` 或 `anonymous`，供日志字段使用。
func (g GistConfig) AuthMode() string {
	if g.HasCredentials() {
		return "credentialed"
	}
	return "anonymous"
}

// Config 是 TOML 文件映射的整体结构。
type Config struct {
	Global GlobalConfig `mapstructure:",squash"`
	Store  StoreConfig  `mapstructure:"Store"`
	Gist   GistConfig   `mapstructure:"Gist"`
}
