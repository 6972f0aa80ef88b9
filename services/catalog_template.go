package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateCatalogTemplate creates a downloadable .xlsx import template for a
// catalog, with dropdowns on choice columns and a hidden instructions sheet.
func GenerateCatalogTemplate(kind CatalogKind) ([]byte, error) {
	columns := CatalogColumns(kind)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := kind.Title()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	requiredHeaderStyle := headerStyle(f, "#1D4ED8")
	optionalHeaderStyle := headerStyle(f, "#6B7280")

	letters := columnLetters(len(columns))
	for i, c := range columns {
		cell := letters[i] + "1"
		header := c.Label
		style := optionalHeaderStyle
		if c.Required {
			header += " *"
			style = requiredHeaderStyle
		}
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, style)
		f.SetColWidth(sheetName, letters[i], letters[i], 18)

		if len(c.Choices) > 0 {
			dv := excelize.NewDataValidation(true)
			dv.Sqref = fmt.Sprintf("%s2:%s1048576", letters[i], letters[i])
			if err := dv.SetDropList(c.Choices); err != nil {
				return nil, fmt.Errorf("drop list %s: %w", c.Key, err)
			}
			f.AddDataValidation(sheetName, dv)
		}
	}

	f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	addInstructionsSheet(f, kind, columns)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel template: %w", err)
	}
	return buf.Bytes(), nil
}

// addInstructionsSheet creates a hidden sheet with column descriptions.
func addInstructionsSheet(f *excelize.File, kind CatalogKind, columns []CatalogColumn) {
	instSheet := "Instructions"
	f.NewSheet(instSheet)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E5E7EB"}, Pattern: 1},
	})

	f.SetCellValue(instSheet, "A1", fmt.Sprintf("%s Import - Instructions", kind.Title()))
	f.SetCellStyle(instSheet, "A1", "A1", titleStyle)

	headers := []string{"Column", "Required?", "Description", "Example"}
	cols := columnLetters(len(headers))
	for i, h := range headers {
		cell := cols[i] + "3"
		f.SetCellValue(instSheet, cell, h)
		f.SetCellStyle(instSheet, cell, cell, headerStyle)
	}

	for i, c := range columns {
		req := "Optional"
		if c.Required {
			req = "Required"
		}
		f.SetSheetRow(instSheet, fmt.Sprintf("A%d", i+4), &[]any{c.Label, req, c.Description, c.Example})
	}

	widths := []float64{18, 12, 48, 16}
	for i, w := range widths {
		f.SetColWidth(instSheet, cols[i], cols[i], w)
	}

	f.SetSheetVisible(instSheet, false)
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}

// GenerateErrorReport creates a downloadable .xlsx file from validation errors.
func GenerateErrorReport(errors []ValidationError) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Errors"
	f.SetSheetName(f.GetSheetName(0), sheet)

	f.SetSheetRow(sheet, "A1", &[]any{"Row", "Field", "Error"})
	f.SetCellStyle(sheet, "A1", "C1", headerStyle(f, "#DC2626"))
	for col, width := range map[string]float64{"A": 8, "B": 22, "C": 55} {
		f.SetColWidth(sheet, col, col, width)
	}

	for i, e := range errors {
		f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &[]any{e.Row, e.Field, e.Message})
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write error report: %w", err)
	}
	return buf.Bytes(), nil
}

// headerStyle is a bold white-on-fill header cell style.
func headerStyle(f *excelize.File, fill string) int {
	style, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	return style
}
