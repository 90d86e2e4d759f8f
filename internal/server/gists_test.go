package server

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/code-pad/code-pad/internal/gist"
	"github.com/code-pad/code-pad/internal/objectstore"
)

func TestGistEndpointReturnsPlainText(t *testing.T) {
	store := &memStore{prefixes: []string{"1.0"}, objects: map[string]*objectstore.Object{}}
	gists := &fakeGists{result: &gist.Result{Status: 200, Body: []byte("package main")}}
	app := newTestApp(t, testRegistry(t, store), gists)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/gist/deadbeef", nil))
	if err != nil {
		t.Fatalf("app test failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		t.Fatalf("unexpected content type: %s", resp.Header.Get("Content-Type"))
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "package main" {
		t.Fatalf("unexpected body: %s", body)
	}
	if gists.lastID != "deadbeef" {
		t.Fatalf("gist id 透传错误: %s", gists.lastID)
	}
}

func TestGistEndpointPropagatesUpstreamStatus(t *testing.T) {
	store := &memStore{prefixes: []string{"1.0"}}
	gists := &fakeGists{result: &gist.Result{Status: 404}}
	app := newTestApp(t, testRegistry(t, store), gists)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/gist/missing", nil))
	if err != nil {
		t.Fatalf("app test failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("应透传上游状态码，得到 %d", resp.StatusCode)
	}
}

func TestGistEndpointMapsErrNoFile(t *testing.T) {
	store := &memStore{prefixes: []string{"1.0"}}
	gists := &fakeGists{err: gist.ErrNoFile}
	app := newTestApp(t, testRegistry(t, store), gists)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/gist/nofile", nil))
	if err != nil {
		t.Fatalf("app test failed: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("ErrNoFile 应映射为 404，得到 %d", resp.StatusCode)
	}
}

func TestGistEndpointMapsUpstreamFailureTo502(t *testing.T) {
	store := &memStore{prefixes: []string{"1.0"}}
	gists := &fakeGists{err: errors.New("dial timeout")}
	app := newTestApp(t, testRegistry(t, store), gists)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/gist/broken", nil))
	if err != nil {
		t.Fatalf("app test failed: %v", err)
	}
	if resp.StatusCode != 502 {
		t.Fatalf("网络故障应映射为 502，得到 %d", resp.StatusCode)
	}
}
