package gist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/code-pad/code-pad/internal/cache"
	"github.com/code-pad/code-pad/internal/config"
)

// ErrNoFile 表示 gist 里没有可用的文件或正文，边界层映射为 404。
var ErrNoFile = errors.New("gist has no resolvable file")

// Result 是可直接回写给客户端的响应：非 200 时 Body 为空。
type Result struct {
	Status int
	Body   []byte
}

// Fetcher 负责 orchestrate “元数据缓存 → 文件选择 → truncated 补拉” 的
// 全流程。元数据按 gist id 做 TTL 缓存；raw 补拉不走缓存。
type Fetcher struct {
	client       *http.Client
	logger       *logrus.Logger
	apiBase      string
	clientID     string
	clientSecret string
	sourceExt    string
	metadata     *cache.TTL[*Metadata]
}

// NewFetcher 基于 Gist 配置构建 Fetcher，所有出站请求携带固定超时。
func NewFetcher(cfg config.GistConfig, logger *logrus.Logger) *Fetcher {
	timeout := cfg.Timeout.DurationValue()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.CacheTTL.DurationValue()
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &Fetcher{
		client:       &http.Client{Timeout: timeout},
		logger:       logger,
		apiBase:      cfg.APIBase,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		sourceExt:    cfg.SourceExtension,
		metadata:     cache.NewTTL[*Metadata](ttl),
	}
}

// Fetch 解析 gist 并返回待回写的响应。
// 上游非 200 时状态码原样透传、正文为空；找不到可用文件返回 ErrNoFile；
// 元数据请求的网络故障（含超时）作为错误上抛，不做重试。
func (f *Fetcher) Fetch(ctx context.Context, id string) (*Result, error) {
	meta, hit := f.metadata.Get(id)
	if !hit {
		fetched, err := f.fetchMetadata(ctx, id)
		if err != nil {
			return nil, err
		}
		f.metadata.Set(id, fetched)
		meta = fetched
	}

	if meta.Status != http.StatusOK {
		return &Result{Status: meta.Status}, nil
	}

	file, ok := meta.SelectFile(f.sourceExt)
	if !ok {
		return nil, ErrNoFile
	}

	body, ok := f.resolveContent(ctx, id, file)
	if !ok {
		return nil, ErrNoFile
	}

	return &Result{Status: http.StatusOK, Body: body}, nil
}

// fetchMetadata 请求 gist API 并解码文件列表；非 200 只保留状态码。
func (f *Fetcher) fetchMetadata(ctx context.Context, id string) (*Metadata, error) {
	endpoint := fmt.Sprintf("%s/gists/%s", f.apiBase, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("构建 gist 请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if f.clientID != "" && f.clientSecret != "" {
		req.SetBasicAuth(f.clientID, f.clientSecret)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 gist API 失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &Metadata{Status: resp.StatusCode}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取 gist 响应失败: %w", err)
	}

	files, err := decodeFiles(body)
	if err != nil {
		return nil, err
	}

	return &Metadata{Status: http.StatusOK, Files: files}, nil
}

// resolveContent 返回选中文件的正文。truncated 文件先尝试 raw 补拉，
// 失败再退回内联 content；两者都不可用视为无法解析。
func (f *Fetcher) resolveContent(ctx context.Context, id string, file File) ([]byte, bool) {
	if file.Truncated && file.RawURL != "" {
		if body, err := f.fetchRaw(ctx, file.RawURL); err == nil {
			return body, true
		} else if f.logger != nil {
			f.logger.WithFields(logrus.Fields{
				"action":  "gist_raw_fetch",
				"gist_id": id,
				"file":    file.Name,
			}).WithError(err).Warn("raw 补拉失败，退回内联内容")
		}
	}

	if file.HasContent {
		return []byte(file.Content), true
	}
	return nil, false
}

func (f *Fetcher) fetchRaw(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("构建 raw 请求失败: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求 raw 内容失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("raw 内容返回 %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
