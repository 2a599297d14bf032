package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"companymap/internal/service/workbook"
	"companymap/internal/store"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Initialized bool             `json:"initialized"` // 工作簿是否存在
	Workbook    *workbook.Status `json:"workbook"`
	Regions     int              `json:"regions"`
	LastSave    *store.Revision  `json:"lastSave,omitempty"`
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	st, err := h.svc.Status(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := StatusResponse{
		Initialized: st.Exists,
		Workbook:    st,
		Regions:     h.svc.Regions().Len(),
	}
	if h.revisions != nil {
		last, err := h.revisions.LastSuccessfulRevision(c.Request.Context())
		if err != nil {
			h.logger.Warn("query last revision failed", zap.Error(err))
		}
		resp.LastSave = last
	}
	c.JSON(http.StatusOK, resp)
}

// ListRevisions 保存历史
// GET /api/revisions?limit=50
func (h *Handler) ListRevisions(c *gin.Context) {
	if h.revisions == nil {
		c.JSON(http.StatusOK, gin.H{"items": []store.Revision{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.revisions.ListRevisions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if items == nil {
		items = []store.Revision{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
