package excel

import "companymap/internal/model"

// DefaultSheetName 新建工作簿时使用的工作表名
const DefaultSheetName = "Sheet1"

// Sheet 工作表内容：表头顺序 + 数据行（按工作表顺序）
type Sheet struct {
	Name   string
	Header []string
	Rows   []model.Row
}

// NewSheet 创建空工作表（使用期望的列）
func NewSheet() *Sheet {
	header := make([]string, len(model.ExpectedColumns))
	copy(header, model.ExpectedColumns)
	return &Sheet{Name: DefaultSheetName, Header: header}
}

// Clone 深拷贝，修改副本不影响原数据
func (s *Sheet) Clone() *Sheet {
	out := &Sheet{
		Name:   s.Name,
		Header: append([]string(nil), s.Header...),
		Rows:   make([]model.Row, len(s.Rows)),
	}
	for i, row := range s.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

// HasColumn 表头是否包含列
func (s *Sheet) HasColumn(column string) bool {
	for _, h := range s.Header {
		if h == column {
			return true
		}
	}
	return false
}

// EnsureColumn 缺失的列追加到表头末尾
func (s *Sheet) EnsureColumn(column string) {
	if !s.HasColumn(column) {
		s.Header = append(s.Header, column)
	}
}
