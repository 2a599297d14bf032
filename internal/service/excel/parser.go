package excel

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"companymap/internal/model"
	"companymap/internal/pipeline"
)

// ErrNoSheets 工作簿不含工作表
var ErrNoSheets = errors.New("workbook has no sheets")

// Parser Excel解析器
type Parser struct {
	file *excelize.File
}

// NewParser 创建解析器
func NewParser() *Parser {
	return &Parser{}
}

// LoadFile 加载Excel文件
func (p *Parser) LoadFile(reader io.Reader) error {
	file, err := excelize.OpenReader(reader)
	if err != nil {
		return &pipeline.MalformedSourceError{Cause: fmt.Errorf("failed to open excel: %w", err)}
	}
	p.file = file
	return nil
}

// Parse 读取第一个工作表：首行为表头，其余为数据行；全空行跳过
func (p *Parser) Parse() (*Sheet, error) {
	if p.file == nil {
		return nil, errors.New("no file loaded")
	}

	sheets := p.file.GetSheetList()
	if len(sheets) == 0 {
		return nil, &pipeline.MalformedSourceError{Cause: ErrNoSheets}
	}
	name := sheets[0]

	rows, err := p.file.GetRows(name)
	if err != nil {
		return nil, &pipeline.MalformedSourceError{Cause: fmt.Errorf("failed to read sheet %q: %w", name, err)}
	}

	sheet := &Sheet{Name: name}
	if len(rows) == 0 {
		return sheet, nil
	}

	// 构建列名到索引的映射，重复列名只取第一列
	colIndex := make(map[string]int)
	for i, col := range rows[0] {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		if _, ok := colIndex[col]; ok {
			continue
		}
		colIndex[col] = i
		sheet.Header = append(sheet.Header, col)
	}

	sheet.Rows = make([]model.Row, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row, ok := parseRow(cells, colIndex)
		if !ok {
			continue // 跳过空行
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return sheet, nil
}

// parseRow 解析单行数据，整行为空时返回 false
func parseRow(cells []string, colIndex map[string]int) (model.Row, bool) {
	row := make(model.Row, len(colIndex))
	blank := true
	for col, idx := range colIndex {
		if idx >= len(cells) {
			continue
		}
		value := cells[idx]
		if strings.TrimSpace(value) == "" {
			continue
		}
		row[col] = value
		blank = false
	}
	return row, !blank
}

// Close 关闭文件
func (p *Parser) Close() error {
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ReadSheet 读取并解析工作簿
func ReadSheet(reader io.Reader) (*Sheet, error) {
	p := NewParser()
	if err := p.LoadFile(reader); err != nil {
		return nil, err
	}
	defer p.Close()

	return p.Parse()
}

// ReadSheetBytes 从字节解析工作簿
func ReadSheetBytes(data []byte) (*Sheet, error) {
	if len(data) == 0 {
		return nil, &pipeline.MalformedSourceError{Cause: errors.New("empty file")}
	}
	return ReadSheet(bytes.NewReader(data))
}
