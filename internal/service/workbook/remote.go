package workbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"companymap/internal/service/records"
)

// RemoteBackend 通过另一个实例的 HTTP 接口读写工作簿：
// GET {base}/newData.xlsx，POST {base}/api/saveExcel（multipart 字段 file）
type RemoteBackend struct {
	baseURL string
	client  *http.Client
}

// NewRemoteBackend 创建远端后端
func NewRemoteBackend(baseURL string, timeout time.Duration) *RemoteBackend {
	return &RemoteBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// Name 远端地址
func (b *RemoteBackend) Name() string {
	return b.baseURL + "/" + FileName
}

// Load 下载工作簿
func (b *RemoteBackend) Load(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/"+FileName, nil)
	if err != nil {
		return nil, err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrWorkbookMissing
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch workbook: HTTP error! status: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Persist 上传工作簿；失败时返回 *records.PersistenceError，Message 为远端原文
func (b *RemoteBackend) Persist(ctx context.Context, data []byte) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", FileName)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/api/saveExcel", &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := b.client.Do(req)
	if err != nil {
		return &records.PersistenceError{Message: "upload failed", Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &records.PersistenceError{Message: "upload failed", Cause: err}
	}

	var out SaveResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return &records.PersistenceError{Message: "invalid response from save endpoint", Cause: err}
	}
	if resp.StatusCode != http.StatusOK || !out.Success {
		msg := out.Message
		if msg == "" {
			msg = fmt.Sprintf("save endpoint returned status %d", resp.StatusCode)
		}
		return &records.PersistenceError{Message: msg}
	}
	return nil
}
