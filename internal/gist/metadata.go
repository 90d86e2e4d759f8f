package gist

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// File 描述 gist 中的一个命名文件。Content 仅在 API 内联了正文时有效，
// HasContent 区分“字段缺失”与“空文件”。
type File struct {
	Name       string
	Content    string
	HasContent bool
	Truncated  bool
	RawURL     string
}

// Metadata 是一次 gist 元数据请求的完整结果：上游状态码加按 API
// 原始字段顺序排列的文件列表。非 200 时 Files 为空。
type Metadata struct {
	Status int
	Files  []File
}

// SelectFile 按既定优先级挑选文件：先取第一个命中源码扩展名的文件，
// 否则退回列表中的第一个文件。顺序敏感，依赖 API 自身的字段顺序。
func (m *Metadata) SelectFile(sourceExt string) (File, bool) {
	if m == nil || len(m.Files) == 0 {
		return File{}, false
	}
	for _, file := range m.Files {
		if strings.HasSuffix(file.Name, sourceExt) {
			return file, true
		}
	}
	return m.Files[0], true
}

// decodeFiles 从 gist 元数据 JSON 中按出现顺序提取 files 对象。
// encoding/json 的 map 解码会打乱键序，这里用 token 流逐字段读取。
func decodeFiles(body []byte) ([]File, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("解析 gist 响应失败: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("gist 响应不是 JSON 对象")
	}

	var files []File
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("解析 gist 字段失败: %w", err)
		}
		key, _ := keyTok.(string)

		if key != "files" {
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, fmt.Errorf("跳过字段 %s 失败: %w", key, err)
			}
			continue
		}

		files, err = decodeFileObject(dec)
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

func decodeFileObject(dec *json.Decoder) ([]File, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("解析 files 失败: %w", err)
	}
	if tok == nil {
		// "files": null
		return nil, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("files 字段不是 JSON 对象")
	}

	var files []File
	for dec.More() {
		nameTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("解析文件名失败: %w", err)
		}
		name, _ := nameTok.(string)

		var entry struct {
			Content   *string `json:"content"`
			Truncated bool    `json:"truncated"`
			RawURL    string  `json:"raw_url"`
		}
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("解析文件 %s 失败: %w", name, err)
		}

		file := File{
			Name:      name,
			Truncated: entry.Truncated,
			RawURL:    entry.RawURL,
		}
		if entry.Content != nil {
			file.Content = *entry.Content
			file.HasContent = true
		}
		files = append(files, file)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("files 对象未正确闭合: %w", err)
	}
	return files, nil
}
