package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel creates an Excel workbook from the given ExportData and
// returns the file contents.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names are limited to 31 characters.
	sheetName := data.QuoteNumber
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Quote"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E"}
	lastCol := columns[len(columns)-1]

	widths := []float64{30, 42, 10, 16, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	optionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	if err != nil {
		return nil, fmt.Errorf("create option style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	// Money cells keep numeric values so the sheet can be re-totalled.
	moneyStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Size: 10},
		Border:       thinBorders(),
		CustomNumFmt: strPtr(`"$"#,##0.00`),
	})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	cellStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create cell style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 11},
		CustomNumFmt: strPtr(`"$"#,##0.00`),
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header rows ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.Title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	f.SetCellValue(sheetName, "A2", "Quote: "+data.QuoteNumber)
	f.SetCellValue(sheetName, "A3", "Customer: "+sanitizeExcelCell(data.CustomerName))
	f.SetCellValue(sheetName, "A4", "Jobsite: "+sanitizeExcelCell(data.JobsiteAddress))
	f.SetCellValue(sheetName, "A5", "Date: "+data.CreatedDate)

	// ── Options ─────────────────────────────────────────────────────────

	row := 7
	headers := []string{"Item", "Description", "Qty", "Unit Price", "Total"}
	for _, opt := range data.Options {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "A"+r, sanitizeExcelCell(opt.Label))
		f.SetCellStyle(sheetName, "A"+r, "A"+r, optionStyle)
		row++

		r = fmt.Sprintf("%d", row)
		for i, h := range headers {
			f.SetCellValue(sheetName, columns[i]+r, h)
		}
		f.SetCellStyle(sheetName, "A"+r, lastCol+r, headerStyle)
		row++

		for _, item := range opt.Rows {
			r = fmt.Sprintf("%d", row)
			f.SetCellValue(sheetName, "A"+r, sanitizeExcelCell(item.Label))
			f.SetCellValue(sheetName, "B"+r, sanitizeExcelCell(item.Description))
			f.SetCellValue(sheetName, "C"+r, item.Quantity)
			f.SetCellValue(sheetName, "D"+r, item.UnitPrice)
			f.SetCellValue(sheetName, "E"+r, item.Total)
			f.SetCellStyle(sheetName, "A"+r, "C"+r, cellStyle)
			f.SetCellStyle(sheetName, "D"+r, "E"+r, moneyStyle)
			row++
		}

		r = fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "D"+r, "Option subtotal:")
		f.SetCellStyle(sheetName, "D"+r, "D"+r, summaryLabelStyle)
		f.SetCellValue(sheetName, "E"+r, opt.Subtotal)
		f.SetCellStyle(sheetName, "E"+r, "E"+r, summaryValueStyle)
		row += 2
	}

	// ── Summary rows ────────────────────────────────────────────────────

	summary := []struct {
		label  string
		amount float64
	}{
		{"Subtotal:", data.Totals.Subtotal},
		{fmt.Sprintf("Markup (%s):", FormatPercent(data.MarkupPercentage)), data.Totals.Markup},
		{fmt.Sprintf("GST (%s):", FormatPercent(GSTRate*100)), data.Totals.GST},
		{"Total (incl. GST):", data.Totals.GrandTotal},
	}
	for _, s := range summary {
		r := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "D"+r, s.label)
		f.SetCellStyle(sheetName, "D"+r, "D"+r, summaryLabelStyle)
		f.SetCellValue(sheetName, "E"+r, s.amount)
		f.SetCellStyle(sheetName, "E"+r, "E"+r, summaryValueStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

func strPtr(s string) *string { return &s }

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1,
		}
	}
	return borders
}
