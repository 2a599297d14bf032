package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"companymap/internal/model"
)

// TreeResponse 项目树响应
type TreeResponse struct {
	Name      string              `json:"name"`
	Subtitle  string              `json:"subtitle"`
	Dropped   int                 `json:"dropped"`
	Countries []model.CountryNode `json:"countries"`
}

// GetTree 项目树
// GET /api/tree?sort=stream
func (h *Handler) GetTree(c *gin.Context) {
	result, err := h.svc.Tree(c.Request.Context(), c.Query("sort") == "stream")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TreeResponse{
		Name:      result.Tree.Name,
		Subtitle:  result.Subtitle,
		Dropped:   result.Dropped,
		Countries: result.Tree.Countries,
	})
}

// GetTable 表格视图
// GET /api/table
func (h *Handler) GetTable(c *gin.Context) {
	rows, err := h.svc.Table(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows, "total": len(rows)})
}

// GetOptions 编辑表单候选值
// GET /api/options
func (h *Handler) GetOptions(c *gin.Context) {
	opts, err := h.svc.Options(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}
