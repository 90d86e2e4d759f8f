package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate 针对语义级别做进一步校验，防止非法配置启动服务。
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("配置为空")
	}

	g := c.Global
	if g.ListenPort <= 0 || g.ListenPort > 65535 {
		return newFieldError("Global.ListenPort", "必须在 1-65535")
	}

	s := c.Store
	if strings.TrimSpace(s.Bucket) == "" {
		return newFieldError("Store.Bucket", "不能为空")
	}
	if strings.TrimSpace(s.Endpoint) == "" && strings.TrimSpace(s.Region) == "" {
		return newFieldError("Store.Endpoint/Region", "必须至少提供一个")
	}
	if s.Endpoint != "" {
		if err := validateBaseURL(s.Endpoint); err != nil {
			return fmt.Errorf("Store.Endpoint: %w", err)
		}
	}
	if s.Timeout.DurationValue() <= 0 {
		return newFieldError("Store.Timeout", "必须大于 0")
	}

	gist := c.Gist
	if err := validateBaseURL(gist.APIBase); err != nil {
		return fmt.Errorf("Gist.APIBase: %w", err)
	}
	if (gist.ClientID == "") != (gist.ClientSecret == "") {
		return newFieldError("Gist.ClientID/ClientSecret", "必须同时提供或同时留空")
	}
	if gist.Timeout.DurationValue() <= 0 {
		return newFieldError("Gist.Timeout", "必须大于 0")
	}
	if gist.CacheTTL.DurationValue() <= 0 {
		return newFieldError("Gist.CacheTTL", "必须大于 0")
	}

	return nil
}

func validateBaseURL(raw string) error {
	if raw == "" {
		return errors.New("缺少地址")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("仅支持 http/https: %s", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("缺少 Host: %s", raw)
	}
	return nil
}
