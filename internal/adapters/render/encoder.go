package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeJSON = "application/json"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const defaultSheet = "Sheet1"

var utf8BOM = []byte("\xef\xbb\xbf")

// TableEncoder writes report tables as semicolon CSV, JSON or XLSX.
type TableEncoder struct{}

func NewTableEncoder() *TableEncoder {
	return &TableEncoder{}
}

func (e *TableEncoder) Encode(format string, table domain.ReportTable) ([]byte, string, error) {
	switch domain.NormalizeExportFormat(format) {
	case domain.FormatCSV:
		content, err := encodeCSV(table)
		return content, ContentTypeCSV, err
	case domain.FormatJSON:
		content, err := encodeJSON(table)
		return content, ContentTypeJSON, err
	case domain.FormatXLSX:
		content, err := encodeXLSX(table)
		return content, ContentTypeXLSX, err
	default:
		return nil, "", fmt.Errorf("%w: unsupported format %q", domain.ErrInvalidInput, format)
	}
}

// encodeCSV prefixes a BOM so spreadsheet tools detect UTF-8.
func encodeCSV(table domain.ReportTable) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	writer := csv.NewWriter(&buf)
	writer.Comma = ';'
	if err := writer.Write(table.Columns); err != nil {
		return nil, err
	}
	for _, row := range table.Rows {
		record := make([]string, len(row))
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSON(table domain.ReportTable) ([]byte, error) {
	rows := make([]map[string]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		item := make(map[string]any, len(table.Columns))
		for i, column := range table.Columns {
			if i < len(row) {
				item[column] = row[i]
			}
		}
		rows = append(rows, item)
	}
	return json.MarshalIndent(map[string]any{
		"report":  table.Name,
		"columns": table.Columns,
		"rows":    rows,
	}, "", "  ")
}

func encodeXLSX(table domain.ReportTable) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := defaultSheet
	if name := sheetName(table.Name); name != "" {
		if err := f.SetSheetName(defaultSheet, name); err != nil {
			return nil, err
		}
		sheet = name
	}
	head := make([]any, len(table.Columns))
	for i, column := range table.Columns {
		head[i] = column
	}
	if err := f.SetSheetRow(sheet, "A1", &head); err != nil {
		return nil, err
	}
	for i, row := range table.Rows {
		cells := append([]any(nil), row...)
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCell(cell any) string {
	switch value := cell.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	default:
		return fmt.Sprint(value)
	}
}

// sheetName trims to the 31 character limit of spreadsheet tabs.
func sheetName(name string) string {
	runes := []rune(name)
	if len(runes) > 31 {
		runes = runes[:31]
	}
	return string(runes)
}
