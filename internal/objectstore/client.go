package objectstore

import (
	"context"
	"errors"
	"time"
)

// Client 抽象对象存储的两种访问方式：按分隔符枚举顶层前缀、按 key 取对象。
// 测试中可以用内存实现替换。
type Client interface {
	// ListPrefixes 返回 bucket 下以 "/" 分组的顶层前缀，已去除结尾分隔符。
	ListPrefixes(ctx context.Context) ([]string, error)

	// Get 返回对象正文与可用元数据；对象不存在或被拒绝访问时返回 ErrNotFound。
	Get(ctx context.Context, key string) (*Object, error)
}

// Object 表示一次对象读取结果。元数据字段均为可选：
// 空字符串/零值/-1 表示来源对象未携带该属性。
type Object struct {
	Body          []byte
	ContentType   string
	ContentLength int64
	LastModified  time.Time
	ETag          string
}

// ErrNotFound 表示对象不存在（含上游以拒绝访问方式隐藏对象的情况）。
var ErrNotFound = errors.New("object not found")
