package workbook

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileBackend 本地文件：原子写入（临时文件 + rename），可选覆盖前备份
type FileBackend struct {
	path      string
	backupDir string
}

// NewFileBackend backupDir 为空时不备份
func NewFileBackend(path, backupDir string) *FileBackend {
	return &FileBackend{path: path, backupDir: backupDir}
}

// Path 工作簿路径
func (b *FileBackend) Path() string {
	return b.path
}

// Name 文件名
func (b *FileBackend) Name() string {
	return filepath.Base(b.path)
}

// Load 读取工作簿
func (b *FileBackend) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrWorkbookMissing
		}
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	return data, nil
}

// Persist 覆盖保存
func (b *FileBackend) Persist(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ensureDir(filepath.Dir(b.path)); err != nil {
		return err
	}
	if b.backupDir != "" && fileExists(b.path) {
		if err := b.backup(); err != nil {
			return fmt.Errorf("backup workbook: %w", err)
		}
	}
	return writeFileAtomic(b.path, data)
}

func (b *FileBackend) backup() error {
	if err := ensureDir(b.backupDir); err != nil {
		return err
	}
	data, err := os.ReadFile(b.path)
	if err != nil {
		return err
	}
	ext := filepath.Ext(b.path)
	base := b.Name()[:len(b.Name())-len(ext)]
	name := fmt.Sprintf("%s_%s%s", base, time.Now().Format("20060102_150405.000000000"), ext)
	return os.WriteFile(filepath.Join(b.backupDir, name), data, 0644)
}

func ensureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
