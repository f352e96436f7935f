// Package xlsxexport renders a consolidated property record as an Excel
// workbook: one sheet with the winning field values and provenance, one with
// the runner-up alternatives kept for audit.
package xlsxexport

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"propfolio/internal/domain"
)

const (
	fieldsSheet       = "Fields"
	alternativesSheet = "Alternatives"
)

// Write builds the workbook and returns its bytes.
func Write(propertyName string, fields map[string]domain.ConsolidatedField) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName("Sheet1", fieldsSheet)
	if _, err := f.NewSheet(alternativesSheet); err != nil {
		return nil, fmt.Errorf("creating alternatives sheet: %w", err)
	}

	fieldHeader := []any{"Field", "Value", "Confidence", "Source"}
	if err := f.SetSheetRow(fieldsSheet, "A1", &fieldHeader); err != nil {
		return nil, fmt.Errorf("writing fields header: %w", err)
	}
	altHeader := []any{"Field", "Value", "Confidence", "Source"}
	if err := f.SetSheetRow(alternativesSheet, "A1", &altHeader); err != nil {
		return nil, fmt.Errorf("writing alternatives header: %w", err)
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	fieldRow, altRow := 2, 2
	for _, name := range names {
		field := fields[name]
		row := []any{name, fmt.Sprint(field.Value), field.Confidence, field.Source}
		if err := f.SetSheetRow(fieldsSheet, fmt.Sprintf("A%d", fieldRow), &row); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", name, err)
		}
		fieldRow++

		for _, alt := range field.Alternatives {
			row := []any{name, fmt.Sprint(alt.Value), alt.Confidence, alt.Source}
			if err := f.SetSheetRow(alternativesSheet, fmt.Sprintf("A%d", altRow), &row); err != nil {
				return nil, fmt.Errorf("writing alternative for %s: %w", name, err)
			}
			altRow++
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{Title: propertyName}); err != nil {
		return nil, fmt.Errorf("setting doc properties: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
