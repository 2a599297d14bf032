package excel

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// Exporter Excel导出器
type Exporter struct{}

// NewExporter 创建导出器
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export 把工作表序列化为 xlsx：表头顺序保持不变，行中多出的列按名称排序追加
func (e *Exporter) Export(sheet *Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := sheet.Name
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			return nil, fmt.Errorf("failed to rename sheet: %w", err)
		}
	}

	headers := exportColumns(sheet)

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	// 设置表头样式
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err == nil {
		_ = f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	// 写入数据
	for i, row := range sheet.Rows {
		values := make([]interface{}, len(headers))
		for j, h := range headers {
			values[j] = row.Get(h)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func exportColumns(sheet *Sheet) []string {
	headers := append([]string(nil), sheet.Header...)
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		seen[h] = true
	}

	var extra []string
	for _, row := range sheet.Rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				extra = append(extra, col)
			}
		}
	}
	sort.Strings(extra)
	return append(headers, extra...)
}
