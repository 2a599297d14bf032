package workbook

import (
	"context"
	"errors"
)

// ErrWorkbookMissing 工作簿尚不存在
var ErrWorkbookMissing = errors.New("workbook does not exist")

// FileName 工作簿的对外文件名
const FileName = "newData.xlsx"

// Backend 工作簿的读取与保存
type Backend interface {
	// Load 读取当前工作簿；不存在时返回 ErrWorkbookMissing
	Load(ctx context.Context) ([]byte, error)
	// Persist 整体覆盖保存
	Persist(ctx context.Context, data []byte) error
	// Name 用于日志与保存历史
	Name() string
}

// SaveResponse 保存接口的响应
type SaveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
