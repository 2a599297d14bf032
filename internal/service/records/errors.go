package records

import (
	"fmt"
	"strings"
)

// RecordNotFoundError 按 id 或组合键没有找到唯一记录
type RecordNotFoundError struct {
	Ref     Ref
	Matches int
}

func (e *RecordNotFoundError) Error() string {
	if e.Matches > 1 {
		return fmt.Sprintf("record %s is ambiguous: %d rows match", e.Ref, e.Matches)
	}
	return fmt.Sprintf("record %s not found", e.Ref)
}

// ValidationError 输入缺少必填字段
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// PersistenceError 保存失败，Message 为保存方返回的原始信息
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return e.Message + ": " + e.Cause.Error()
	case e.Message != "":
		return e.Message
	case e.Cause != nil:
		return "persist workbook: " + e.Cause.Error()
	default:
		return "persist workbook failed"
	}
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
