package integration

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/code-pad/code-pad/internal/config"
	"github.com/code-pad/code-pad/internal/gist"
	"github.com/code-pad/code-pad/internal/objectstore"
	"github.com/code-pad/code-pad/internal/sandbox"
	"github.com/code-pad/code-pad/internal/server"
)

// bundleObject 描述存储桩里的一个对象及其可选元数据。
type bundleObject struct {
	body        string
	contentType string
	etag        string
	modTime     time.Time
}

// storeStub 用 httptest 模拟 S3 风格对象存储，并统计每个 key 的访问次数。
type storeStub struct {
	server  *httptest.Server
	objects map[string]bundleObject

	mu       sync.Mutex
	getCalls map[string]int
}

func newStoreStub(t *testing.T, objects map[string]bundleObject) *storeStub {
	t.Helper()
	stub := &storeStub{
		objects:  objects,
		getCalls: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/bundles", func(w http.ResponseWriter, r *http.Request) {
		prefixes := map[string]struct{}{}
		for key := range stub.objects {
			if idx := strings.Index(key, "/"); idx > 0 {
				prefixes[key[:idx+1]] = struct{}{}
			}
		}
		sorted := make([]string, 0, len(prefixes))
		for p := range prefixes {
			sorted = append(sorted, p)
		}
		sort.Strings(sorted)

		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, p := range sorted {
			fmt.Fprintf(w, "<CommonPrefixes><Prefix>%s</Prefix></CommonPrefixes>", p)
		}
		fmt.Fprint(w, `</ListBucketResult>`)
	})
	mux.HandleFunc("/bundles/", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/bundles/")
		stub.mu.Lock()
		stub.getCalls[key]++
		stub.mu.Unlock()

		obj, ok := stub.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if obj.contentType != "" {
			w.Header().Set("Content-Type", obj.contentType)
		}
		if obj.etag != "" {
			w.Header().Set("Etag", obj.etag)
		}
		if !obj.modTime.IsZero() {
			w.Header().Set("Last-Modified", obj.modTime.Format(http.TimeFormat))
		}
		fmt.Fprint(w, obj.body)
	})

	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *storeStub) calls(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getCalls[key]
}

// gistAPIStub 模拟 gist API 与 raw 内容上游。
type gistAPIStub struct {
	server *httptest.Server

	mu            sync.Mutex
	metadataCalls int

	status  int
	files   string // files 对象的 JSON 片段
	rawBody string
}

func newGistAPIStub(t *testing.T) *gistAPIStub {
	t.Helper()
	stub := &gistAPIStub{status: http.StatusOK}

	mux := http.NewServeMux()
	mux.HandleFunc("/gists/", func(w http.ResponseWriter, r *http.Request) {
		stub.mu.Lock()
		stub.metadataCalls++
		stub.mu.Unlock()

		if stub.status != http.StatusOK {
			w.WriteHeader(stub.status)
			return
		}
		fmt.Fprintf(w, `{"id": "stub", "files": %s}`, stub.files)
	})
	mux.HandleFunc("/raw/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, stub.rawBody)
	})

	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *gistAPIStub) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metadataCalls
}

// newPlaygroundApp 用真实组件（HTTP 存储客户端、registry、fetcher）组装应用。
func newPlaygroundApp(t *testing.T, store *storeStub, gistAPI *gistAPIStub) *fiber.App {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client := objectstore.NewHTTPClient(config.StoreConfig{
		Endpoint: store.server.URL,
		Bucket:   "bundles",
		Timeout:  config.Duration(2 * time.Second),
	})
	registry, err := sandbox.NewRegistry(client)
	if err != nil {
		t.Fatalf("registry error: %v", err)
	}

	fetcher := gist.NewFetcher(config.GistConfig{
		APIBase:         gistAPI.server.URL,
		Timeout:         config.Duration(2 * time.Second),
		CacheTTL:        config.Duration(30 * time.Second),
		SourceExtension: ".go",
	}, logger)

	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Registry:   registry,
		Gists:      fetcher,
		Tokens:     server.UUIDTokenSource(),
		ListenPort: 8080,
	})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	return app
}
