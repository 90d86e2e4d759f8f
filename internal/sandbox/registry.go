package sandbox

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/code-pad/code-pad/internal/objectstore"
)

// Registry 维护版本号到 Reader 的只读映射。启动时构建一次，之后不再
// 重新枚举：对象存储中后续发布的版本要等进程重启才可见。
type Registry struct {
	readers  map[string]*Reader
	versions []string
	latest   string
}

// NewRegistry 枚举 bucket 顶层前缀并为每个版本创建 Reader。
// 枚举失败或版本集为空都视为致命错误，由调用方中止启动。
func NewRegistry(store objectstore.Client) (*Registry, error) {
	if store == nil {
		return nil, errors.New("object store client is nil")
	}

	prefixes, err := store.ListPrefixes(context.Background())
	if err != nil {
		return nil, fmt.Errorf("枚举 sandbox 版本失败: %w", err)
	}
	if len(prefixes) == 0 {
		return nil, errors.New("对象存储中没有可用的 sandbox 版本")
	}

	registry := &Registry{
		readers: make(map[string]*Reader, len(prefixes)),
	}
	for _, version := range prefixes {
		if _, exists := registry.readers[version]; exists {
			continue
		}
		registry.readers[version] = newReader(version, store)
		registry.versions = append(registry.versions, version)
	}

	sort.Strings(registry.versions)
	// 默认版本取字典序最大的版本号，启动后不再重算。
	registry.latest = registry.versions[len(registry.versions)-1]

	return registry, nil
}

// Reader 返回指定版本的 Reader，未知版本返回 false。
func (r *Registry) Reader(version string) (*Reader, bool) {
	if r == nil {
		return nil, false
	}
	reader, ok := r.readers[version]
	return reader, ok
}

// Versions 返回字典序排列的版本号副本。
func (r *Registry) Versions() []string {
	if r == nil || len(r.versions) == 0 {
		return nil
	}
	result := make([]string, len(r.versions))
	copy(result, r.versions)
	return result
}

// Latest 返回启动时解析出的默认（最新）版本号。
func (r *Registry) Latest() string {
	if r == nil {
		return ""
	}
	return r.latest
}
