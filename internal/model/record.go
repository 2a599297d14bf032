package model

// 工作表列名（区分大小写，NameOfWork 除外）
const (
	ColumnCountry     = "Country"
	ColumnType        = "Type"
	ColumnCompany     = "Company"
	ColumnYear        = "Year"
	ColumnDescription = "Description"
	ColumnStream      = "Stream"
	ColumnLinks       = "links"
	ColumnID          = "id"
	ColumnNameOfWork  = "NameOfWork"
)

// ExpectedColumns 工作表期望的列（用于错误提示与新建工作簿）
var ExpectedColumns = []string{
	ColumnID,
	ColumnNameOfWork,
	ColumnCountry,
	ColumnType,
	ColumnCompany,
	ColumnYear,
	ColumnDescription,
	ColumnStream,
	ColumnLinks,
}

// Row 工作表中的一行：表头 -> 单元格文本
type Row map[string]string

// Get 读取单元格，缺失列返回空串
func (r Row) Get(column string) string {
	if r == nil {
		return ""
	}
	return r[column]
}

// Clone 复制一行
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RawRow 通过校验的原始记录
type RawRow struct {
	RowIndex    int
	ID          string
	Country     string
	Type        string
	Company     string
	Year        string
	Description string
	Stream      string
	Links       string
}

// CompanyEntry 树中的企业节点
type CompanyEntry struct {
	ID              string   `json:"id"`
	Company         string   `json:"company"`
	Year            string   `json:"year"`
	Description     string   `json:"description"`
	Stream          string   `json:"stream,omitempty"`
	Links           []string `json:"links,omitempty"`
	OriginalCountry string   `json:"originalCountry,omitempty"` // 仅在归入聚合区域时设置
	RowIndex        int      `json:"rowIndex"`
}

// TypeGroup 类型分组
type TypeGroup struct {
	Type      string         `json:"type"`
	Companies []CompanyEntry `json:"companies"`
}

// CountryNode 国家节点（字面国家或聚合区域）
type CountryNode struct {
	Country   string      `json:"country"`
	Aggregate bool        `json:"aggregate"`
	Types     []TypeGroup `json:"types"`
}

// ProjectTree 项目树
type ProjectTree struct {
	Name      string        `json:"name"`
	Countries []CountryNode `json:"countries"`
}
