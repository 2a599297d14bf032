package records

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"companymap/internal/model"
	"companymap/internal/service/excel"
)

// Input 新增/编辑表单
type Input struct {
	Country     string `json:"Country"`
	Type        string `json:"Type"`
	Company     string `json:"Company"`
	Year        string `json:"Year"`
	Description string `json:"Description"`
	Stream      string `json:"Stream"`
	Links       string `json:"links"`
}

// Validate 校验必填字段（与编辑表单一致：Stream、links 可选）
func (in Input) Validate() error {
	var missing []string
	required := []struct {
		column string
		value  string
	}{
		{model.ColumnCountry, in.Country},
		{model.ColumnType, in.Type},
		{model.ColumnCompany, in.Company},
		{model.ColumnYear, in.Year},
		{model.ColumnDescription, in.Description},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.column)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func (in Input) apply(row model.Row) {
	set := func(column, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			delete(row, column)
			return
		}
		row[column] = value
	}
	set(model.ColumnCountry, in.Country)
	set(model.ColumnType, in.Type)
	set(model.ColumnCompany, in.Company)
	set(model.ColumnYear, in.Year)
	set(model.ColumnDescription, in.Description)
	set(model.ColumnStream, in.Stream)
	set(model.ColumnLinks, in.Links)
}

// CompositeKey 旧数据（无 id）的匹配键
type CompositeKey struct {
	Country     string `json:"country"`
	Type        string `json:"type"`
	Company     string `json:"company"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

// KeyOf 取一行的组合键
func KeyOf(row model.Row) CompositeKey {
	return CompositeKey{
		Country:     row.Get(model.ColumnCountry),
		Type:        row.Get(model.ColumnType),
		Company:     row.Get(model.ColumnCompany),
		Year:        row.Get(model.ColumnYear),
		Description: row.Get(model.ColumnDescription),
	}
}

func (k CompositeKey) normalized() CompositeKey {
	n := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	return CompositeKey{
		Country:     n(k.Country),
		Type:        n(k.Type),
		Company:     n(k.Company),
		Year:        n(k.Year),
		Description: n(k.Description),
	}
}

func (k CompositeKey) isZero() bool {
	return k.normalized() == CompositeKey{}
}

// Ref 记录引用：优先 id，旧数据回退到组合键
type Ref struct {
	ID    string        `json:"id"`
	Match *CompositeKey `json:"match,omitempty"`
}

func (r Ref) String() string {
	if r.ID != "" {
		return fmt.Sprintf("id=%q", r.ID)
	}
	if r.Match != nil {
		return fmt.Sprintf("%s/%s/%s/%s", r.Match.Country, r.Match.Type, r.Match.Company, r.Match.Year)
	}
	return "<empty>"
}

// IDFunc 生成新的记录 id
type IDFunc func() string

// NewID 默认 id 生成器
func NewID() string {
	return uuid.NewString()
}

// EnsureIDs 为没有 id 的行生成 id，返回生成数量
func EnsureIDs(sheet *excel.Sheet, newID IDFunc) int {
	sheet.EnsureColumn(model.ColumnID)
	minted := 0
	for _, row := range sheet.Rows {
		if strings.TrimSpace(row.Get(model.ColumnID)) != "" {
			continue
		}
		row[model.ColumnID] = newID()
		minted++
	}
	return minted
}

// Locate 查找唯一匹配行。有 id 时只按 id 匹配；没有 id 或 id 未命中时
// 仅在行本身没有 id 的旧数据中按组合键匹配。
func Locate(sheet *excel.Sheet, ref Ref) (int, error) {
	if id := strings.TrimSpace(ref.ID); id != "" {
		idx, n := findByID(sheet, id)
		if n == 1 {
			return idx, nil
		}
		if n > 1 || ref.Match == nil {
			return -1, &RecordNotFoundError{Ref: ref, Matches: n}
		}
	}

	if ref.Match == nil || ref.Match.isZero() {
		return -1, &RecordNotFoundError{Ref: ref}
	}

	want := ref.Match.normalized()
	idx, n := -1, 0
	for i, row := range sheet.Rows {
		if strings.TrimSpace(row.Get(model.ColumnID)) != "" {
			continue
		}
		if KeyOf(row).normalized() == want {
			idx = i
			n++
		}
	}
	if n != 1 {
		return -1, &RecordNotFoundError{Ref: ref, Matches: n}
	}
	return idx, nil
}

func findByID(sheet *excel.Sheet, id string) (int, int) {
	idx, n := -1, 0
	for i, row := range sheet.Rows {
		if strings.TrimSpace(row.Get(model.ColumnID)) == id {
			idx = i
			n++
		}
	}
	return idx, n
}

// Append 追加一行：生成 id，并沿用第一行的 NameOfWork
func Append(sheet *excel.Sheet, in Input, newID IDFunc) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}
	for _, col := range []string{model.ColumnID, model.ColumnNameOfWork, model.ColumnCountry, model.ColumnType,
		model.ColumnCompany, model.ColumnYear, model.ColumnDescription, model.ColumnStream, model.ColumnLinks} {
		sheet.EnsureColumn(col)
	}

	id := newID()
	row := model.Row{model.ColumnID: id}
	if len(sheet.Rows) > 0 {
		if name := sheet.Rows[0].Get(model.ColumnNameOfWork); name != "" {
			row[model.ColumnNameOfWork] = name
		}
	}
	in.apply(row)
	sheet.Rows = append(sheet.Rows, row)
	return id, nil
}

// Update 编辑一行，保留 id、NameOfWork 及其他未知列，返回被修改的行
func Update(sheet *excel.Sheet, ref Ref, in Input) (model.Row, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	idx, err := Locate(sheet, ref)
	if err != nil {
		return nil, err
	}
	row := sheet.Rows[idx]
	in.apply(row)
	return row, nil
}

// Delete 删除一行
func Delete(sheet *excel.Sheet, ref Ref) (model.Row, error) {
	idx, err := Locate(sheet, ref)
	if err != nil {
		return nil, err
	}
	removed := sheet.Rows[idx]
	sheet.Rows = append(sheet.Rows[:idx], sheet.Rows[idx+1:]...)
	return removed, nil
}
