package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/code-pad/code-pad/internal/config"
	"github.com/code-pad/code-pad/internal/gist"
	"github.com/code-pad/code-pad/internal/logging"
	"github.com/code-pad/code-pad/internal/objectstore"
	"github.com/code-pad/code-pad/internal/sandbox"
	"github.com/code-pad/code-pad/internal/server"
	"github.com/code-pad/code-pad/internal/server/routes"
	"github.com/code-pad/code-pad/internal/version"
)

// cliOptions 汇总 CLI 标志解析后的结果，便于在测试中注入。
type cliOptions struct {
	configPath  string
	checkOnly   bool
	showVersion bool
}

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	// .env 可选，缺失时静默忽略。
	_ = godotenv.Load()

	opts, err := parseCLIFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(stdErr, err.Error())
		os.Exit(2)
	}
	os.Exit(run(opts))
}

// run 根据解析到的 CLI 选项执行业务流程，并返回退出码，方便测试。
func run(opts cliOptions) int {
	if opts.showVersion {
		printVersion()
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stdErr, "加载配置失败: %v\n", err)
		return 1
	}

	logger, err := logging.InitLogger(cfg.Global)
	if err != nil {
		fmt.Fprintf(stdErr, "初始化日志失败: %v\n", err)
		return 1
	}

	if opts.checkOnly {
		fields := logging.BaseFields("check_config", opts.configPath)
		fields["bucket"] = cfg.Store.Bucket
		fields["gist_auth"] = cfg.Gist.AuthMode()
		fields["result"] = "ok"
		logger.WithFields(fields).Info("配置校验通过")
		return 0
	}

	store := objectstore.NewHTTPClient(cfg.Store)

	// 启动遵循“配置 → 对象存储 → SandboxRegistry → Fiber server”顺序；
	// 版本枚举失败视为致命错误，决不在空注册表上对外服务。
	registry, err := sandbox.NewRegistry(store)
	if err != nil {
		fmt.Fprintf(stdErr, "构建 Sandbox 注册表失败: %v\n", err)
		return 1
	}

	fetcher := gist.NewFetcher(cfg.Gist, logger)

	fields := logging.BaseFields("startup", opts.configPath)
	fields["bucket"] = cfg.Store.Bucket
	fields["versions"] = len(registry.Versions())
	fields["latest"] = registry.Latest()
	fields["listen_port"] = cfg.Global.ListenPort
	fields["gist_auth"] = cfg.Gist.AuthMode()
	fields["version"] = version.Full()
	logger.WithFields(fields).Info("配置加载完成")

	if err := startHTTPServer(cfg, registry, fetcher, logger); err != nil {
		fmt.Fprintf(stdErr, "HTTP 服务启动失败: %v\n", err)
		return 1
	}
	return 0
}

// parseCLIFlags 解析 CLI 参数，并结合环境变量计算最终的配置路径。
func parseCLIFlags(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("code-pad", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		configFlag string
		checkOnly  bool
		showVer    bool
	)

	fs.StringVar(&configFlag, "config", "", "配置文件路径（默认 ./config.toml，可被 CODE_PAD_CONFIG 覆盖）")
	fs.BoolVar(&checkOnly, "check-config", false, "仅校验配置后退出")
	fs.BoolVar(&showVer, "version", false, "显示版本信息")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, fmt.Errorf("解析参数失败: %w", err)
	}

	path := os.Getenv("CODE_PAD_CONFIG")
	if configFlag != "" {
		path = configFlag
	}
	if path == "" {
		path = "config.toml"
	}

	return cliOptions{
		configPath:  path,
		checkOnly:   checkOnly,
		showVersion: showVer,
	}, nil
}

func startHTTPServer(cfg *config.Config, registry *sandbox.Registry, fetcher *gist.Fetcher, logger *logrus.Logger) error {
	port := cfg.Global.ListenPort
	app, err := server.NewApp(server.AppOptions{
		Logger:     logger,
		Registry:   registry,
		Gists:      fetcher,
		Tokens:     server.UUIDTokenSource(),
		ListenPort: port,
	})
	if err != nil {
		return err
	}
	routes.RegisterStatusRoutes(app, registry)

	logger.WithFields(logrus.Fields{
		"action": "listen",
		"port":   port,
	}).Info("Fiber 服务启动")

	return app.Listen(fmt.Sprintf(":%d", port))
}
