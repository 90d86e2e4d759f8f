package server

import (
	"context"
	"io"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/code-pad/code-pad/internal/gist"
	"github.com/code-pad/code-pad/internal/objectstore"
	"github.com/code-pad/code-pad/internal/sandbox"
)

// memStore 是内存对象存储，足以驱动 handler 测试。
type memStore struct {
	prefixes []string
	objects  map[string]*objectstore.Object
}

func (m *memStore) ListPrefixes(ctx context.Context) ([]string, error) {
	return m.prefixes, nil
}

func (m *memStore) Get(ctx context.Context, key string) (*objectstore.Object, error) {
	obj, ok := m.objects[key]
	if !ok {
		return nil, objectstore.ErrNotFound
	}
	return obj, nil
}

type fakeGists struct {
	result *gist.Result
	err    error
	lastID string
}

func (f *fakeGists) Fetch(ctx context.Context, id string) (*gist.Result, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type staticTokens struct {
	value string
}

func (s staticTokens) Token() string {
	return s.value
}

func testRegistry(t *testing.T, store *memStore) *sandbox.Registry {
	t.Helper()
	registry, err := sandbox.NewRegistry(store)
	if err != nil {
		t.Fatalf("registry error: %v", err)
	}
	return registry
}

func newTestApp(t *testing.T, registry *sandbox.Registry, gists GistFetcher) *fiber.App {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app, err := NewApp(AppOptions{
		Logger:     logger,
		Registry:   registry,
		Gists:      gists,
		Tokens:     staticTokens{value: "tok-123"},
		ListenPort: 8080,
	})
	if err != nil {
		t.Fatalf("failed to create app: %v", err)
	}
	return app
}
