package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"companymap/internal/service/workbook"
	"companymap/internal/store"
)

// RevisionStore 保存历史查询
type RevisionStore interface {
	ListRevisions(ctx context.Context, limit int) ([]store.Revision, error)
	LastSuccessfulRevision(ctx context.Context) (*store.Revision, error)
}

// Handler V1 API 处理器
type Handler struct {
	svc       *workbook.Service
	revisions RevisionStore
	uploadDir string
	logger    *zap.Logger
}

// NewHandler 创建 V1 API 处理器；uploadDir 为空时不保留上传原件
func NewHandler(svc *workbook.Service, revisions RevisionStore, uploadDir string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		svc:       svc,
		revisions: revisions,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 数据视图
	router.GET("/tree", h.GetTree)
	router.GET("/table", h.GetTable)
	router.GET("/options", h.GetOptions)

	// 记录编辑
	router.POST("/records", h.CreateRecord)
	router.PATCH("/records", h.UpdateRecord)
	router.DELETE("/records", h.DeleteRecord)

	// 整体上传
	router.Any("/saveExcel", h.SaveExcel)

	// 保存历史
	router.GET("/revisions", h.ListRevisions)
}
