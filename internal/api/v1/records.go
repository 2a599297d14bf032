package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"companymap/internal/service/records"
)

// RecordRequest 记录编辑请求：id 优先，旧数据用 match 组合键定位
type RecordRequest struct {
	records.Ref
	Record records.Input `json:"record"`
}

// RecordResponse 记录编辑响应
type RecordResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

// CreateRecord 追加记录
// POST /api/records
func (h *Handler) CreateRecord(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	id, err := h.svc.Append(c.Request.Context(), req.Record)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, RecordResponse{Success: true, ID: id})
}

// UpdateRecord 编辑记录
// PATCH /api/records
func (h *Handler) UpdateRecord(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	id, err := h.svc.Update(c.Request.Context(), req.Ref, req.Record)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecordResponse{Success: true, ID: id})
}

// DeleteRecord 删除记录
// DELETE /api/records
func (h *Handler) DeleteRecord(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	id, err := h.svc.Delete(c.Request.Context(), req.Ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecordResponse{Success: true, ID: id})
}
