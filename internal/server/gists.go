package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"github.com/code-pad/code-pad/internal/gist"
)

// serveGist 把 gist 解析结果直接回写给前端：
// 上游状态码原样透传（空正文），选不出文件时 404，网络故障视为 502。
func (h *handlerSet) serveGist(c fiber.Ctx) error {
	id := c.Params("gistID")
	if id == "" {
		return renderNotFound(c, "gist_id_required")
	}

	result, err := h.gists.Fetch(c.Context(), id)
	if errors.Is(err, gist.ErrNoFile) {
		return renderNotFound(c, "gist_file_not_found")
	}
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"action":     "fetch_gist",
			"gist_id":    id,
			"request_id": RequestID(c),
		}).WithError(err).Warn("gist 上游不可达")
		return c.SendStatus(fiber.StatusBadGateway)
	}

	if result.Status != fiber.StatusOK {
		// SendStatus 会补充状态文案正文，这里要求透传空正文。
		return c.Status(result.Status).Send(nil)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Send(result.Body)
}
