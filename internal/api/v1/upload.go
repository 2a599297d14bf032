package v1

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"companymap/internal/service/workbook"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SaveExcel 用上传的工作簿覆盖服务器端文件
// POST /api/saveExcel (multipart, 字段 file)
func (h *Handler) SaveExcel(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, workbook.SaveResponse{Success: false, Message: "Method not allowed"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, workbook.SaveResponse{Success: false, Message: "No file uploaded"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, workbook.SaveResponse{Success: false, Message: err.Error()})
		return
	}
	data, err := io.ReadAll(file)
	file.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, workbook.SaveResponse{Success: false, Message: err.Error()})
		return
	}

	// 保留上传原件
	if h.uploadDir != "" {
		name := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), filepath.Base(header.Filename))
		if err := os.MkdirAll(h.uploadDir, 0755); err != nil {
			h.logger.Warn("create upload dir failed", zap.Error(err))
		} else if err := c.SaveUploadedFile(header, filepath.Join(h.uploadDir, name)); err != nil {
			h.logger.Warn("keep upload failed", zap.String("file", header.Filename), zap.Error(err))
		}
	}

	rows, err := h.svc.Upload(c.Request.Context(), header.Filename, data)
	if err != nil {
		c.JSON(statusOf(err), workbook.SaveResponse{Success: false, Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, workbook.SaveResponse{
		Success: true,
		Message: fmt.Sprintf("saved %d rows", rows),
	})
}

// DownloadWorkbook 当前工作簿
// GET /newData.xlsx
func (h *Handler) DownloadWorkbook(c *gin.Context) {
	data, err := h.svc.WorkbookBytes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, xlsxContentType, data)
}
