package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/code-pad/code-pad/internal/gist"
	"github.com/code-pad/code-pad/internal/sandbox"
)

// GistFetcher describes the component resolving gist snippets. It allows
// injecting fake fetchers during tests.
type GistFetcher interface {
	Fetch(ctx context.Context, id string) (*gist.Result, error)
}

// AppOptions controls how the Fiber application should behave on a specific port.
type AppOptions struct {
	Logger     *logrus.Logger
	Registry   *sandbox.Registry
	Gists      GistFetcher
	Tokens     TokenSource
	ListenPort int
}

const contextKeyRequestID = "_codepad_request_id"

// NewApp builds a Fiber application with the static GET route table and
// structured error handling.
func NewApp(opts AppOptions) (*fiber.App, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Registry == nil {
		return nil, errors.New("sandbox registry is required")
	}
	if opts.Gists == nil {
		return nil, errors.New("gist fetcher is required")
	}
	if opts.Tokens == nil {
		return nil, errors.New("token source is required")
	}
	if opts.ListenPort <= 0 {
		return nil, fmt.Errorf("invalid listen port: %d", opts.ListenPort)
	}

	app := fiber.New(fiber.Config{
		CaseSensitive: true,
	})

	app.Use(recover.New())
	app.Use(requestContextMiddleware(opts))

	h := &handlerSet{
		logger:    opts.Logger,
		registry:  opts.Registry,
		gists:     opts.Gists,
		tokens:    opts.Tokens,
		templates: newTemplateCache(),
	}

	// 路由表固定不变：页面四个入口、gist 代理、bundle 静态文件。
	app.Get("/", h.servePage)
	app.Get("/api/v1/gist/:gistID", h.serveGist)
	app.Get("/gist/:version/:gistID", h.servePage)
	app.Get("/gist/:gistID", h.servePage)
	app.Get("/sandbox/:version", h.servePage)
	app.Get("/sandbox/:version/*", h.serveAsset)

	return app, nil
}

// requestContextMiddleware 负责生成请求 ID 并输出结构化访问日志。
func requestContextMiddleware(opts AppOptions) fiber.Handler {
	return func(c fiber.Ctx) error {
		reqID := uuid.NewString()
		c.Locals(contextKeyRequestID, reqID)
		c.Set("X-Request-ID", reqID)

		started := time.Now()
		err := c.Next()

		opts.Logger.WithFields(logrus.Fields{
			"action":     "request",
			"request_id": reqID,
			"method":     c.Method(),
			"path":       string(c.Request().URI().Path()),
			"status":     c.Response().StatusCode(),
			"elapsed_ms": time.Since(started).Milliseconds(),
		}).Debug("请求完成")

		return err
	}
}

// RequestID returns the request identifier stored by the router middleware.
func RequestID(c fiber.Ctx) string {
	if value := c.Locals(contextKeyRequestID); value != nil {
		if reqID, ok := value.(string); ok {
			return reqID
		}
	}
	return ""
}

func renderNotFound(c fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": reason,
	})
}
