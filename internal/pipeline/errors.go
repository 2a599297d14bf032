package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"companymap/internal/model"
)

// ErrNoRows 数据源没有任何数据行
var ErrNoRows = errors.New("no data rows")

// MalformedSourceError 数据源无法解析为表格，或不含任何数据行
type MalformedSourceError struct {
	Cause error
}

func (e *MalformedSourceError) Error() string {
	if e.Cause == nil {
		return "malformed source"
	}
	return "malformed source: " + e.Cause.Error()
}

func (e *MalformedSourceError) Unwrap() error {
	return e.Cause
}

// EmptyResultError 解析成功但没有得到任何国家节点（通常是列名不匹配）
type EmptyResultError struct {
	Rows    int
	Dropped int
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf(
		"no records extracted from %d rows (%d dropped); the sheet must contain columns: %s",
		e.Rows, e.Dropped, strings.Join(model.ExpectedColumns, ", "),
	)
}
