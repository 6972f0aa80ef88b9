package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// CatalogKind selects which catalog an import or template targets.
type CatalogKind string

const (
	CatalogMaterials CatalogKind = "materials"
	CatalogEquipment CatalogKind = "equipment"
)

// ParseCatalogKind accepts the URL slug of a catalog.
func ParseCatalogKind(s string) (CatalogKind, bool) {
	switch CatalogKind(strings.ToLower(strings.TrimSpace(s))) {
	case CatalogMaterials:
		return CatalogMaterials, true
	case CatalogEquipment:
		return CatalogEquipment, true
	}
	return "", false
}

// Collection is the PocketBase collection holding this catalog.
func (k CatalogKind) Collection() string {
	if k == CatalogEquipment {
		return "equipment_items"
	}
	return "materials"
}

// Title is the human name of the catalog.
func (k CatalogKind) Title() string {
	if k == CatalogEquipment {
		return "Equipment"
	}
	return "Materials"
}

// nameKey is the column that identifies a catalog entry.
func (k CatalogKind) nameKey() string {
	if k == CatalogEquipment {
		return "name"
	}
	return "item"
}

// CatalogColumn describes one column of a catalog import file.
type CatalogColumn struct {
	Key         string
	Label       string
	Required    bool
	Numeric     bool
	Choices     []string
	Description string
	Example     string
}

// MaterialTypes lists the material types with a quantity formula.
var MaterialTypes = []string{string(MaterialBitumen), string(MaterialAsphalt), string(MaterialRoadbase), string(MaterialStone)}

// EquipmentCategories lists the categories equipment is grouped by.
var EquipmentCategories = []string{string(CategoryPrep), string(CategoryBitumen), string(CategoryAsphalt)}

// CatalogColumns returns the import columns of a catalog in file order.
func CatalogColumns(kind CatalogKind) []CatalogColumn {
	if kind == CatalogEquipment {
		return []CatalogColumn{
			{Key: "name", Label: "Name", Required: true, Description: "Equipment name as used on estimates", Example: "Bobcat"},
			{Key: "category", Label: "Category", Choices: EquipmentCategories, Description: "Group shown on quotes; blank means Other", Example: "Prep"},
			{Key: "unit_price", Label: "Unit Price", Numeric: true, Description: "Hourly rate excl. GST", Example: "135"},
			{Key: "price", Label: "Price", Numeric: true, Description: "Legacy rate, used when Unit Price is blank", Example: "120"},
		}
	}
	return []CatalogColumn{
		{Key: "item", Label: "Item", Required: true, Description: "Material name as used on estimates", Example: "AC10"},
		{Key: "type", Label: "Type", Required: true, Choices: MaterialTypes, Description: "Selects the quantity formula", Example: "Asphalt"},
		{Key: "unit_price", Label: "Unit Price", Required: true, Numeric: true, Description: "Price per measurement unit excl. GST", Example: "195"},
		{Key: "formula", Label: "Formula", Numeric: true, Description: "Conversion factor; blank means 1", Example: "2.4"},
		{Key: "measurement", Label: "Measurement", Description: "Unit the quantity is ordered in", Example: "tonne"},
	}
}

// ValidationError represents a single field-level error on one row.
type ValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is returned after parsing and validating an uploaded file.
type ValidationResult struct {
	TotalRows  int                 `json:"total_rows"`
	ValidRows  int                 `json:"valid_rows"`
	ErrorRows  int                 `json:"error_rows"`
	Errors     []ValidationError   `json:"errors"`
	ParsedRows []map[string]string `json:"-"`
	FileName   string              `json:"-"`
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToColumns maps uploaded column headers to column keys, one per
// header. Unrecognised headers map to "".
func mapHeadersToColumns(headers []string, columns []CatalogColumn) []string {
	labelToKey := make(map[string]string, len(columns)*2)
	for _, c := range columns {
		labelToKey[strings.ToLower(c.Label)] = c.Key
		labelToKey[c.Key] = c.Key
	}

	mapped := make([]string, len(headers))
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		mapped[i] = labelToKey[norm]
	}
	return mapped
}

// ValidateCatalogFile parses a .csv or .xlsx catalog upload and validates
// every row. Rows are returned even when they have errors.
func ValidateCatalogFile(kind CatalogKind, file io.Reader, fileName string) (*ValidationResult, error) {
	var (
		headers  []string
		dataRows [][]string
		err      error
	)
	lowerName := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lowerName, ".csv"):
		headers, dataRows, err = parseCSV(file)
	case strings.HasSuffix(lowerName, ".xlsx"):
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file format: must be .csv or .xlsx")
	}
	if err != nil {
		return nil, err
	}

	columns := CatalogColumns(kind)
	columnKeys := mapHeadersToColumns(headers, columns)

	found := make(map[string]bool)
	for _, k := range columnKeys {
		found[k] = true
	}
	for _, c := range columns {
		if c.Required && !found[c.Key] {
			return nil, fmt.Errorf("missing required column %q", c.Label)
		}
	}

	rows := make([]map[string]string, 0, len(dataRows))
	for _, row := range dataRows {
		rowData := make(map[string]string, len(columns))
		for colIdx, key := range columnKeys {
			if key == "" || colIdx >= len(row) {
				continue
			}
			rowData[key] = strings.TrimSpace(row[colIdx])
		}
		rows = append(rows, rowData)
	}

	result := &ValidationResult{
		TotalRows:  len(rows),
		FileName:   fileName,
		ParsedRows: rows,
		Errors:     validateCatalogRows(kind, rows),
	}
	errorRowSet := make(map[int]bool)
	for _, e := range result.Errors {
		errorRowSet[e.Row] = true
	}
	result.ErrorRows = len(errorRowSet)
	result.ValidRows = result.TotalRows - result.ErrorRows
	return result, nil
}

// validateCatalogRows checks required, numeric and choice columns, and that
// no name appears twice in the file. Row numbers count the header as row 1.
func validateCatalogRows(kind CatalogKind, rows []map[string]string) []ValidationError {
	columns := CatalogColumns(kind)
	seen := make(map[string]int)
	var errs []ValidationError

	for i, rowData := range rows {
		rowNum := i + 2
		for _, c := range columns {
			v := rowData[c.Key]
			if v == "" {
				if c.Required {
					errs = append(errs, ValidationError{Row: rowNum, Field: c.Label, Message: fmt.Sprintf("%s is required", c.Label)})
				}
				continue
			}
			if c.Numeric {
				n, err := cast.ToFloat64E(v)
				if err != nil {
					errs = append(errs, ValidationError{Row: rowNum, Field: c.Label, Message: fmt.Sprintf("%s must be a number", c.Label)})
				} else if n < 0 {
					errs = append(errs, ValidationError{Row: rowNum, Field: c.Label, Message: fmt.Sprintf("%s cannot be negative", c.Label)})
				}
			}
			if len(c.Choices) > 0 && canonicalChoice(c.Choices, v) == "" {
				errs = append(errs, ValidationError{Row: rowNum, Field: c.Label, Message: fmt.Sprintf("%s must be one of %s", c.Label, strings.Join(c.Choices, ", "))})
			}
		}

		key := CatalogKey(rowData[kind.nameKey()])
		if key == "" {
			continue
		}
		if first, dup := seen[key]; dup {
			errs = append(errs, ValidationError{Row: rowNum, Field: "Name", Message: fmt.Sprintf("Duplicate of row %d", first)})
			continue
		}
		seen[key] = rowNum
	}
	return errs
}

// canonicalChoice returns the choice matching v case-insensitively, or "".
func canonicalChoice(choices []string, v string) string {
	for _, c := range choices {
		if strings.EqualFold(c, strings.TrimSpace(v)) {
			return c
		}
	}
	return ""
}
