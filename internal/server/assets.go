package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/code-pad/code-pad/internal/logging"
	"github.com/code-pad/code-pad/internal/objectstore"
)

// serveAsset 返回指定版本 bundle 内的单个静态文件。
// 响应头只回写来源对象真实携带的元数据，绝不输出空值头。
func (h *handlerSet) serveAsset(c fiber.Ctx) error {
	version := c.Params("version")
	path := c.Params("*")
	if path == "" {
		return renderNotFound(c, "asset_path_required")
	}

	reader, ok := h.registry.Reader(version)
	if !ok {
		return renderNotFound(c, "unknown_sandbox_version")
	}

	cacheHit := reader.Cached(path)
	file, err := reader.Get(c.Context(), path)
	if errors.Is(err, objectstore.ErrNotFound) {
		return renderNotFound(c, "asset_not_found")
	}
	if err != nil {
		h.logger.WithFields(logging.RequestFields(version, path, false)).
			WithFields(logrus.Fields{"request_id": RequestID(c)}).
			WithError(err).Warn("对象存储读取失败")
		return c.SendStatus(fiber.StatusBadGateway)
	}

	h.logger.WithFields(logging.RequestFields(version, path, cacheHit)).
		WithFields(logrus.Fields{"action": "serve_asset", "request_id": RequestID(c)}).
		Debug("asset served")

	if file.ContentType != "" {
		c.Set(fiber.HeaderContentType, file.ContentType)
	} else {
		// 来源未声明 Content-Type 时禁止 fasthttp 填充默认值。
		c.Response().Header.SetNoDefaultContentType(true)
	}
	if file.ContentLength >= 0 {
		c.Set(fiber.HeaderContentLength, strconv.FormatInt(file.ContentLength, 10))
	}
	if !file.LastModified.IsZero() {
		c.Set(fiber.HeaderLastModified, file.LastModified.UTC().Format(http.TimeFormat))
	}
	if file.ETag != "" {
		c.Set(fiber.HeaderETag, file.ETag)
	}

	return c.Send(file.Body)
}
