package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "companymap/internal/api/v1"
	"companymap/internal/config"
	"companymap/internal/logging"
	"companymap/internal/metrics"
	"companymap/internal/pipeline"
	"companymap/internal/service/workbook"
	"companymap/internal/store"
)

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	http    *http.Server
	store   *store.Store
	service *workbook.Service
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewServer 创建服务器
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data dir: %w", err)
	}

	// 初始化 SQLite Store（保存历史）
	sqliteStore, err := store.New(filepath.Join(dataDir, "companymap.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	regions, err := config.LoadRegionSet(cfg)
	if err != nil {
		_ = sqliteStore.Close()
		return nil, err
	}

	m := metrics.New()
	svc := workbook.NewService(workbook.Deps{
		Backend: newBackend(cfg, dataDir),
		Pipeline: pipeline.New(regions,
			pipeline.WithDefaultProjectName(cfg.Pipeline.DefaultProjectName),
			pipeline.WithLogger(logger.Named("pipeline")),
		),
		History: sqliteStore,
		Metrics: m,
		Logger:  logger.Named("workbook"),
	})

	router := gin.New()
	router.Use(logging.GinLogger(logger.Named("http")), gin.Recovery(), m.GinMiddleware())

	s := &Server{
		router: router,
		http: &http.Server{
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:   sqliteStore,
		service: svc,
		metrics: m,
		logger:  logger,
	}
	s.setupRoutes(v1.NewHandler(svc, sqliteStore, filepath.Join(dataDir, "uploads"), logger.Named("api")))

	return s, nil
}

// newBackend 配置了 remote_url 时读写远端实例，否则读写本地文件
func newBackend(cfg *config.AppConfig, dataDir string) workbook.Backend {
	if cfg.Persist.RemoteURL != "" {
		return workbook.NewRemoteBackend(cfg.Persist.RemoteURL, cfg.Persist.Timeout())
	}
	backupDir := ""
	if cfg.Data.AutoBackup {
		backupDir = filepath.Join(dataDir, "backups")
	}
	return workbook.NewFileBackend(config.WorkbookPath(cfg, dataDir), backupDir)
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(handler *v1.Handler) {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// V1 API 路由
	api := s.router.Group("/api")
	{
		handler.RegisterRoutes(api)
	}

	// 工作簿下载
	s.router.GET("/"+workbook.FileName, handler.DownloadWorkbook)

	// Prometheus
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

// Handler 路由（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Bootstrap 启动前为旧数据补齐 id
func (s *Server) Bootstrap(ctx context.Context) error {
	_, err := s.service.Bootstrap(ctx)
	return err
}

// Run 启动服务器，直到 Shutdown 被调用
func (s *Server) Run(addr string) error {
	s.http.Addr = addr
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭并释放数据库
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// GetStore 获取存储（用于测试）
func (s *Server) GetStore() *store.Store {
	return s.store
}
