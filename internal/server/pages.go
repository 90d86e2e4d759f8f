package server

import (
	"bytes"
	"errors"
	"html/template"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/code-pad/code-pad/internal/cache"
	"github.com/code-pad/code-pad/internal/objectstore"
	"github.com/code-pad/code-pad/internal/sandbox"
)

// handlerSet 聚合所有路由处理函数共享的协作方。
type handlerSet struct {
	logger    *logrus.Logger
	registry  *sandbox.Registry
	gists     GistFetcher
	tokens    TokenSource
	templates *cache.Memo[*template.Template]
}

func newTemplateCache() *cache.Memo[*template.Template] {
	return cache.NewMemo[*template.Template]()
}

// pageOptions 注入到页面模板，携带默认版本与可选的 gist id。
type pageOptions struct {
	Latest string
	GistID string
}

// pageData 是 index.html 模板的渲染上下文。
type pageData struct {
	Version string
	Options pageOptions
	Token   string
}

// servePage 渲染 playground 主页面。版本缺省时使用启动时解析的最新版本；
// 未知版本或缺失 index.html 均返回 404。
func (h *handlerSet) servePage(c fiber.Ctx) error {
	version := c.Params("version")
	if version == "" {
		version = h.registry.Latest()
	}
	gistID := c.Params("gistID")

	reader, ok := h.registry.Reader(version)
	if !ok {
		return renderNotFound(c, "unknown_sandbox_version")
	}

	tmpl, err := h.pageTemplate(c, reader)
	if errors.Is(err, objectstore.ErrNotFound) {
		return renderNotFound(c, "index_not_found")
	}
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"action":          "render_page",
			"sandbox_version": version,
			"request_id":      RequestID(c),
		}).WithError(err).Error("页面模板不可用")
		return c.SendStatus(fiber.StatusBadGateway)
	}

	data := pageData{
		Version: version,
		Options: pageOptions{
			Latest: h.registry.Latest(),
			GistID: gistID,
		},
		Token: h.tokens.Token(),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		h.logger.WithFields(logrus.Fields{
			"action":          "render_page",
			"sandbox_version": version,
			"request_id":      RequestID(c),
		}).WithError(err).Error("页面渲染失败")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// pageTemplate 取出该版本的 index.html 并解析为模板，解析结果随版本缓存。
// bundle 不可变，因此模板与文件正文一样可以缓存整个进程生命周期。
func (h *handlerSet) pageTemplate(c fiber.Ctx, reader *sandbox.Reader) (*template.Template, error) {
	return h.templates.GetOrCompute(reader.Version(), func() (*template.Template, error) {
		file, err := reader.Get(c.Context(), "index.html")
		if err != nil {
			return nil, err
		}
		return template.New("index.html").Parse(string(file.Body))
	})
}
