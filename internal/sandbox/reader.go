package sandbox

import (
	"context"
	"errors"
	"time"

	"github.com/code-pad/code-pad/internal/cache"
	"github.com/code-pad/code-pad/internal/objectstore"
)

// File 是某个 sandbox 版本内单个静态文件的完整读取结果。
// 元数据字段遵循 objectstore.Object 的可选约定。
type File struct {
	Body          []byte
	ContentType   string
	ContentLength int64
	LastModified  time.Time
	ETag          string
}

// Reader 按版本前缀读取 bundle 文件，并对每个 path 做进程级 memoization。
// 已发布版本视为不可变，因此缓存没有失效机制；“文件不存在”同样会被缓存。
type Reader struct {
	version string
	store   objectstore.Client
	memo    *cache.Memo[*File]
}

func newReader(version string, store objectstore.Client) *Reader {
	return &Reader{
		version: version,
		store:   store,
		memo:    cache.NewMemo[*File](),
	}
}

// Version 返回该 Reader 绑定的版本号。
func (r *Reader) Version() string {
	return r.version
}

// Get 返回 {version}/{path} 对象。文件缺失（含上游拒绝访问）返回
// objectstore.ErrNotFound；传输层故障原样返回且不会被缓存。
func (r *Reader) Get(ctx context.Context, path string) (*File, error) {
	file, err := r.memo.GetOrCompute(path, func() (*File, error) {
		obj, err := r.store.Get(ctx, r.version+"/"+path)
		if errors.Is(err, objectstore.ErrNotFound) {
			// 缺失结果同样缓存，nil 哨兵表示 absence。
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &File{
			Body:          obj.Body,
			ContentType:   obj.ContentType,
			ContentLength: obj.ContentLength,
			LastModified:  obj.LastModified,
			ETag:          obj.ETag,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, objectstore.ErrNotFound
	}
	return file, nil
}

// Cached 报告某个 path 是否已有缓存结果，供日志字段使用。
func (r *Reader) Cached(path string) bool {
	_, ok := r.memo.Get(path)
	return ok
}

// CachedEntries 返回已缓存的 path 数量，供诊断输出使用。
func (r *Reader) CachedEntries() int {
	return r.memo.Len()
}
