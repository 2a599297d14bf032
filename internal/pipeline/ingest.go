package pipeline

import (
	"sort"
	"strings"

	"companymap/internal/model"
)

// DefaultProjectName 工作表未给出项目名时使用
const DefaultProjectName = "Данные из Excel"

// projectNameColumns 项目名列的候选写法，按优先级检查
var projectNameColumns = []string{
	model.ColumnNameOfWork,
	"nameOfWork",
	"Name of Work",
	"name of work",
}

// Ingested 行摄取结果
type Ingested struct {
	ProjectName       string
	SecondProjectName string
	Rows              []model.RawRow
	Dropped           int
}

// Ingest 提取项目名与副标题，丢弃缺少国家/类型/企业的行（不报错）
func Ingest(rows []model.Row, defaultName string) Ingested {
	out := Ingested{
		ProjectName: defaultName,
		Rows:        make([]model.RawRow, 0, len(rows)),
	}
	if len(rows) > 0 {
		if name := projectName(rows[0]); name != "" {
			out.ProjectName = name
		}
	}
	if len(rows) > 1 {
		out.SecondProjectName = projectName(rows[1])
	}

	for i, row := range rows {
		raw, ok := toRawRow(i, row)
		if !ok {
			out.Dropped++
			continue
		}
		out.Rows = append(out.Rows, raw)
	}
	return out
}

func toRawRow(index int, row model.Row) (model.RawRow, bool) {
	get := func(column string) string {
		return strings.TrimSpace(row.Get(column))
	}

	raw := model.RawRow{
		RowIndex:    index,
		ID:          get(model.ColumnID),
		Country:     get(model.ColumnCountry),
		Type:        get(model.ColumnType),
		Company:     get(model.ColumnCompany),
		Year:        get(model.ColumnYear),
		Description: get(model.ColumnDescription),
		Stream:      get(model.ColumnStream),
		Links:       get(model.ColumnLinks),
	}
	if raw.Country == "" || raw.Type == "" || raw.Company == "" {
		return model.RawRow{}, false
	}
	return raw, true
}

// projectName 先按固定候选查找，再按折叠后的列名（小写、去空格和下划线）查找
func projectName(row model.Row) string {
	for _, column := range projectNameColumns {
		if v := strings.TrimSpace(row.Get(column)); v != "" {
			return v
		}
	}

	columns := make([]string, 0, len(row))
	for column := range row {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	for _, column := range columns {
		if foldColumnName(column) != "nameofwork" {
			continue
		}
		if v := strings.TrimSpace(row[column]); v != "" {
			return v
		}
	}
	return ""
}

func foldColumnName(column string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(column) {
		if r == ' ' || r == '_' || r == '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
