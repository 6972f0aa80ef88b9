package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
)

const importBatchSize = 100

// ImportResult holds the outcome of a batch import operation.
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Imported   int              `json:"imported"`
	Updated    int              `json:"updated"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
	RolledBack bool             `json:"rolled_back"`
}

// ImportRowError represents a failure to write a specific row.
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CommitCatalogImport re-validates parsed catalog rows and writes them in
// chunks of importBatchSize, one transaction per chunk. A row whose name
// matches an existing entry (by CatalogKey) updates that entry.
func CommitCatalogImport(app *pocketbase.PocketBase, kind CatalogKind, parsedRows []map[string]string) (*ImportResult, error) {
	if errs := validateCatalogRows(kind, parsedRows); len(errs) > 0 {
		errorRowSet := make(map[int]bool)
		for _, e := range errs {
			errorRowSet[e.Row] = true
		}
		return &ImportResult{
			TotalRows:  len(parsedRows),
			Failed:     len(errorRowSet),
			Errors:     toImportRowErrors(errs),
			RolledBack: true,
		}, nil
	}

	col, err := app.FindCollectionByNameOrId(kind.Collection())
	if err != nil {
		return nil, fmt.Errorf("%s collection not found: %w", kind.Collection(), err)
	}

	existing, err := app.FindAllRecords(col)
	if err != nil {
		return nil, fmt.Errorf("load existing %s: %w", kind.Collection(), err)
	}
	existingIDs := make(map[string]string, len(existing))
	for _, r := range existing {
		existingIDs[CatalogKey(r.GetString(kind.nameKey()))] = r.Id
	}

	result := &ImportResult{TotalRows: len(parsedRows)}

	for chunkStart := 0; chunkStart < len(parsedRows); chunkStart += importBatchSize {
		chunkEnd := min(chunkStart+importBatchSize, len(parsedRows))
		chunk := parsedRows[chunkStart:chunkEnd]

		updated, chunkErrors := writeChunk(app, col, kind, chunk, chunkStart, existingIDs)
		if len(chunkErrors) > 0 {
			result.Errors = append(result.Errors, chunkErrors...)
			result.Failed += len(chunk)
			result.RolledBack = true
			continue
		}
		result.Imported += len(chunk) - updated
		result.Updated += updated
	}

	return result, nil
}

// writeChunk saves a batch of rows within RunInTransaction. If any row fails
// the whole chunk is rolled back and its errors returned.
func writeChunk(
	app *pocketbase.PocketBase,
	col *core.Collection,
	kind CatalogKind,
	rows []map[string]string,
	startOffset int,
	existingIDs map[string]string,
) (int, []ImportRowError) {
	var (
		chunkErrors []ImportRowError
		updated     int
	)

	err := app.RunInTransaction(func(txApp core.App) error {
		for i, rowData := range rows {
			rowNum := startOffset + i + 2

			var record *core.Record
			if id, ok := existingIDs[CatalogKey(rowData[kind.nameKey()])]; ok {
				found, err := txApp.FindRecordById(col, id)
				if err != nil {
					chunkErrors = append(chunkErrors, ImportRowError{Row: rowNum, Message: fmt.Sprintf("Failed to load existing entry: %s", err.Error())})
					return fmt.Errorf("load failed at row %d: %w", rowNum, err)
				}
				record = found
				updated++
			} else {
				record = core.NewRecord(col)
			}

			applyCatalogRow(record, kind, rowData)

			if err := txApp.Save(record); err != nil {
				chunkErrors = append(chunkErrors, ImportRowError{Row: rowNum, Message: fmt.Sprintf("Failed to save: %s", err.Error())})
				return fmt.Errorf("save failed at row %d: %w", rowNum, err)
			}
		}
		return nil
	})

	if err != nil {
		log.Printf("catalog_import: chunk write rolled back: %v", err)
		if len(chunkErrors) == 0 {
			chunkErrors = append(chunkErrors, ImportRowError{
				Row:     startOffset + 2,
				Message: fmt.Sprintf("Transaction failed: %s", err.Error()),
			})
		}
		return 0, chunkErrors
	}
	return updated, nil
}

// applyCatalogRow copies validated row values onto a catalog record. Blank
// optional numbers are written as 0. An equipment unit price is marked as set
// only when the row carries one, so an explicit 0 is kept apart from a blank.
func applyCatalogRow(record *core.Record, kind CatalogKind, rowData map[string]string) {
	for _, c := range CatalogColumns(kind) {
		v := rowData[c.Key]
		switch {
		case c.Numeric:
			record.Set(c.Key, cast.ToFloat64(v))
		case len(c.Choices) > 0:
			record.Set(c.Key, canonicalChoice(c.Choices, v))
		default:
			record.Set(c.Key, v)
		}
	}
	if kind == CatalogEquipment {
		record.Set("unit_price_set", strings.TrimSpace(rowData["unit_price"]) != "")
	}
}

func toImportRowErrors(errs []ValidationError) []ImportRowError {
	out := make([]ImportRowError, len(errs))
	for i, e := range errs {
		out[i] = ImportRowError{Row: e.Row, Field: e.Field, Message: e.Message}
	}
	return out
}
