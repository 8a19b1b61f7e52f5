package csvsource

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/domain"
	"github.com/JhonLaurens/Medicion-del-Servicio-sub002/internal/ports"
)

const (
	Delimiter   = ';'
	maxWarnings = 50
)

var utf8BOM = []byte("\xef\xbb\xbf")

// Parse decodes a semicolon-delimited export. The first record is the
// header; headers are mapped to canonical column names. Rows with a
// different field count are padded or truncated and reported in Warnings.
func Parse(source string, content []byte) (ports.Table, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, utf8BOM)))
	reader.Comma = Delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ports.Table{}, fmt.Errorf("%w: %s is empty", domain.ErrNoValidRecords, source)
	}
	if err != nil {
		return ports.Table{}, fmt.Errorf("parse header of %s: %w", source, err)
	}
	headers := make([]string, len(header))
	for i, raw := range header {
		headers[i] = domain.CanonicalHeader(raw)
	}

	table := ports.Table{Source: source, Headers: headers}
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return ports.Table{}, fmt.Errorf("parse %s: %w", source, err)
			}
			addWarning(&table, &skipped, parseErr.Error())
			continue
		}
		line, _ := reader.FieldPos(0)
		if blankRecord(record) {
			continue
		}
		table.TotalRows++
		if len(record) != len(headers) {
			addWarning(&table, &skipped, fmt.Sprintf("line %d: expected %d fields, got %d", line, len(headers), len(record)))
		}
		row := make(map[string]string, len(headers))
		for i, name := range headers {
			if name == "" {
				continue
			}
			if _, seen := row[name]; seen {
				continue
			}
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[name] = value
		}
		table.Rows = append(table.Rows, row)
	}
	if skipped > 0 {
		table.Warnings = append(table.Warnings, fmt.Sprintf("%d more warnings omitted", skipped))
	}
	return table, nil
}

func blankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func addWarning(table *ports.Table, skipped *int, warning string) {
	if len(table.Warnings) >= maxWarnings {
		*skipped++
		return
	}
	table.Warnings = append(table.Warnings, warning)
}
