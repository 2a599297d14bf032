package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// 保存动作
const (
	ActionAppend = "append"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionUpload = "upload"
	ActionInit   = "init"
)

// 保存状态
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Revision 一次工作簿保存记录
type Revision struct {
	ID        int64     `json:"id"`
	Action    string    `json:"action"`
	RecordID  string    `json:"recordId,omitempty"`
	FileName  string    `json:"fileName"`
	FileSize  int64     `json:"fileSize"`
	FileHash  string    `json:"fileHash"`
	RowCount  int       `json:"rowCount"`
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRevision 写入保存记录，返回 id
func (s *Store) CreateRevision(ctx context.Context, rev Revision) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO revisions (action, record_id, file_name, file_size, file_hash, row_count, status, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rev.Action, rev.RecordID, rev.FileName, rev.FileSize, rev.FileHash, rev.RowCount, rev.Status, rev.Message)
	if err != nil {
		return 0, fmt.Errorf("failed to create revision: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get revision id: %w", err)
	}
	return id, nil
}

// ListRevisions 最近的保存记录（按时间倒序）
func (s *Store) ListRevisions(ctx context.Context, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, record_id, file_name, file_size, file_hash, row_count, status, message, created_at
		FROM revisions
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query revisions failed: %w", err)
	}
	defer rows.Close()

	return scanRevisions(rows)
}

// LastSuccessfulRevision 最近一次成功保存，没有时返回 nil
func (s *Store) LastSuccessfulRevision(ctx context.Context) (*Revision, error) {
	revs, err := s.listByStatus(ctx, StatusSuccess, 1)
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return nil, nil
	}
	return &revs[0], nil
}

func (s *Store) listByStatus(ctx context.Context, status string, limit int) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, action, record_id, file_name, file_size, file_hash, row_count, status, message, created_at
		FROM revisions
		WHERE status = ?
		ORDER BY id DESC
		LIMIT ?
	`, status, limit)
	if err != nil {
		return nil, fmt.Errorf("query revisions failed: %w", err)
	}
	defer rows.Close()

	return scanRevisions(rows)
}

func scanRevisions(rows *sql.Rows) ([]Revision, error) {
	out := make([]Revision, 0)
	for rows.Next() {
		var it Revision
		if err := rows.Scan(&it.ID, &it.Action, &it.RecordID, &it.FileName, &it.FileSize, &it.FileHash,
			&it.RowCount, &it.Status, &it.Message, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan revision failed: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions failed: %w", err)
	}
	return out, nil
}
