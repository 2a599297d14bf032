package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"companymap/internal/config"
	"companymap/internal/logging"
	"companymap/internal/server"
	"companymap/internal/util"
)

type serveOptions struct {
	port      int
	devMode   bool
	dataDir   string
	noBrowser bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	cmd.Flags().BoolVar(&opts.devMode, "dev", false, "开发模式")
	cmd.Flags().StringVar(&opts.dataDir, "dataDir", "", "数据目录 (覆盖配置文件)")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "启动后不打开浏览器")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Println("==========================================")
	fmt.Println("  Companymap - 企业地图数据服务")
	fmt.Println("==========================================")

	// 加载配置
	cfg, info, err := config.LoadConfigWithInfo(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败，使用默认配置: %v\n", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if opts.port > 0 && !info.PortSpecified {
		cfg.Server.Port = opts.port
	}
	if opts.devMode {
		cfg.Server.DevMode = true
	}
	if opts.dataDir != "" {
		cfg.Data.DataDir = opts.dataDir
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("data dir ready", zap.String("path", config.ResolveDataDir(cfg)))

	if err := srv.Bootstrap(ctx); err != nil {
		logger.Warn("assign ids failed", zap.Error(err))
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		errCh <- srv.Run(addr)
	}()

	if !cfg.Server.DevMode && !opts.noBrowser {
		if err := util.OpenBrowser(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	} else {
		fmt.Printf("请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			_ = srv.Shutdown(context.Background())
			return fmt.Errorf("服务启动失败: %w", err)
		}
	}

	fmt.Println("\n正在关闭服务...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
