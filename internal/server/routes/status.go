package routes

import (
	"github.com/gofiber/fiber/v3"

	"github.com/code-pad/code-pad/internal/sandbox"
	"github.com/code-pad/code-pad/internal/version"
)

// RegisterStatusRoutes 暴露 /-/status 诊断接口，供 SRE 查询可用版本。
func RegisterStatusRoutes(app *fiber.App, registry *sandbox.Registry) {
	if app == nil || registry == nil {
		return
	}

	app.Get("/-/status", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"server":   version.Full(),
			"latest":   registry.Latest(),
			"versions": registry.Versions(),
		})
	})
}
