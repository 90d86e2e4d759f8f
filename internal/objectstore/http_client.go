package objectstore

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/code-pad/code-pad/internal/config"
)

// Shared HTTP transport tunings，复用长连接并集中配置超时。
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   100,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// HTTPClient 通过 S3 风格 REST 接口访问对象存储。
type HTTPClient struct {
	client  *http.Client
	baseURL string
	bucket  string
}

// NewHTTPClient 基于 Store 配置构建共享客户端，所有请求携带固定超时。
func NewHTTPClient(cfg config.StoreConfig) *HTTPClient {
	timeout := cfg.Timeout.DurationValue()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout:   timeout,
			Transport: defaultTransport.Clone(),
		},
		baseURL: cfg.BaseURL(),
		bucket:  cfg.Bucket,
	}
}

// listBucketResult 对应 ListObjectsV2 的 XML 响应，仅保留需要的字段。
type listBucketResult struct {
	XMLName        xml.Name `xml:"ListBucketResult"`
	IsTruncated    bool     `xml:"IsTruncated"`
	NextToken      string   `xml:"NextContinuationToken"`
	CommonPrefixes []struct {
		Prefix string `xml:"Prefix"`
	} `xml:"CommonPrefixes"`
}

// ListPrefixes 枚举 bucket 顶层的 CommonPrefixes，自动翻页直至取完。
func (c *HTTPClient) ListPrefixes(ctx context.Context) ([]string, error) {
	var prefixes []string
	token := ""

	for {
		query := url.Values{}
		query.Set("list-type", "2")
		query.Set("delimiter", "/")
		if token != "" {
			query.Set("continuation-token", token)
		}

		endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, c.bucket, query.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("构建列举请求失败: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("列举对象失败: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("读取列举响应失败: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("列举对象返回 %d", resp.StatusCode)
		}

		var result listBucketResult
		if err := xml.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("解析列举响应失败: %w", err)
		}

		for _, cp := range result.CommonPrefixes {
			if prefix := strings.TrimSuffix(cp.Prefix, "/"); prefix != "" {
				prefixes = append(prefixes, prefix)
			}
		}

		if !result.IsTruncated || result.NextToken == "" {
			return prefixes, nil
		}
		token = result.NextToken
	}
}

// Get 读取 bucket/key 对象。404/403 统一映射为 ErrNotFound，
// 其余非 200 状态视为上游错误。
func (c *HTTPClient) Get(ctx context.Context, key string) (*Object, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", c.baseURL, c.bucket, escapeKey(key))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("构建对象请求失败: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("读取对象失败: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fallthrough to body read
	case http.StatusNotFound, http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, ErrNotFound
	default:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("读取对象返回 %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取对象正文失败: %w", err)
	}

	obj := &Object{
		Body:          body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
		ETag:          resp.Header.Get("Etag"),
	}
	if raw := resp.Header.Get("Last-Modified"); raw != "" {
		if parsed, err := http.ParseTime(raw); err == nil {
			obj.LastModified = parsed
		}
	}
	return obj, nil
}

// escapeKey 按路径段转义 key，保留 "/" 作为层级分隔符。
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
