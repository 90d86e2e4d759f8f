package gist

import (
	"testing"
)

func TestDecodeFilesPreservesAPIOrder(t *testing.T) {
	body := []byte(`{
  "id": "abc",
  "description": "sample",
  "files": {
    "z-last.md": {"content": "z", "truncated": false, "raw_url": "https://example.com/z"},
    "b-mid.go": {"content": "b", "truncated": false, "raw_url": "https://example.com/b"},
    "a-first.txt": {"content": "a", "truncated": true, "raw_url": "https://example.com/a"}
  },
  "owner": {"login": "someone"}
}`)

	files, err := decodeFiles(body)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	for i, want := range []string{"z-last.md", "b-mid.go", "a-first.txt"} {
		if files[i].Name != want {
			t.Fatalf("字段顺序未保留: %v", files)
		}
	}
	if !files[2].Truncated {
		t.Fatal("truncated 标记丢失")
	}
	if files[1].RawURL != "https://example.com/b" {
		t.Fatalf("raw_url 解析错误: %s", files[1].RawURL)
	}
}

func TestDecodeFilesDistinguishesMissingContent(t *testing.T) {
	body := []byte(`{
  "files": {
    "empty.go": {"content": "", "truncated": false, "raw_url": ""},
    "withheld.bin": {"truncated": true, "raw_url": "https://example.com/raw"}
  }
}`)

	files, err := decodeFiles(body)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !files[0].HasContent {
		t.Fatal("空字符串内容应视为存在")
	}
	if files[1].HasContent {
		t.Fatal("缺失的 content 字段不应视为存在")
	}
}

func TestDecodeFilesHandlesNullAndMissing(t *testing.T) {
	for _, body := range []string{`{"files": null}`, `{"id": "abc"}`} {
		files, err := decodeFiles([]byte(body))
		if err != nil {
			t.Fatalf("decode error for %s: %v", body, err)
		}
		if len(files) != 0 {
			t.Fatalf("expected no files for %s", body)
		}
	}
}

func TestDecodeFilesRejectsMalformedPayload(t *testing.T) {
	for _, body := range []string{`[]`, `{"files": "oops"}`, `{`} {
		if _, err := decodeFiles([]byte(body)); err == nil {
			t.Fatalf("畸形响应应返回错误: %s", body)
		}
	}
}

func TestSelectFilePrecedence(t *testing.T) {
	meta := &Metadata{Status: 200, Files: []File{
		{Name: "notes.txt"},
		{Name: "main.go"},
		{Name: "other.go"},
	}}

	file, ok := meta.SelectFile(".go")
	if !ok || file.Name != "main.go" {
		t.Fatalf("应选中第一个 .go 文件: %+v", file)
	}

	file, ok = meta.SelectFile(".rs")
	if !ok || file.Name != "notes.txt" {
		t.Fatalf("无命中时应取第一个文件: %+v", file)
	}

	empty := &Metadata{Status: 200}
	if _, ok := empty.SelectFile(".go"); ok {
		t.Fatal("空列表不应返回文件")
	}
}
