package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"pavingquotes/services"
	"pavingquotes/templates"
)

// catalogKind reads the {kind} path value.
func catalogKind(e *core.RequestEvent) (services.CatalogKind, bool) {
	return services.ParseCatalogKind(e.Request.PathValue("kind"))
}

// HandleCatalogList renders a catalog as a table in import column order.
// Route: GET /catalog/{kind}
func HandleCatalogList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := catalogKind(e)
		if !ok {
			return e.String(http.StatusNotFound, "Unknown catalog")
		}

		columns := services.CatalogColumns(kind)
		records, err := app.FindRecordsByFilter(kind.Collection(), "id != ''", columns[0].Key, 0, 0)
		if err != nil {
			log.Printf("catalog_list: HandleCatalogList: %s: %v", kind, err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		data := templates.CatalogListData{Kind: kind, Columns: columns}
		for _, r := range records {
			row := make([]string, len(columns))
			for i, c := range columns {
				if c.Numeric {
					row[i] = services.FormatQty(r.GetFloat(c.Key))
				} else {
					row[i] = r.GetString(c.Key)
				}
			}
			data.Rows = append(data.Rows, row)
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.CatalogListContent(data).Render(e.Request.Context(), e.Response)
		}
		return templates.CatalogListPage(data, GetSidebarData(e.Request)).Render(e.Request.Context(), e.Response)
	}
}

// HandleCatalogTemplateDownload downloads the .xlsx import template.
// Route: GET /catalog/{kind}/template
func HandleCatalogTemplateDownload() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := catalogKind(e)
		if !ok {
			return e.String(http.StatusNotFound, "Unknown catalog")
		}

		xlsxBytes, err := services.GenerateCatalogTemplate(kind)
		if err != nil {
			log.Printf("catalog_template: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}

		filename := fmt.Sprintf("%s_Import_Template.xlsx", kind.Title())
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleCatalogImportPage renders the upload form.
// Route: GET /catalog/{kind}/import
func HandleCatalogImportPage() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := catalogKind(e)
		if !ok {
			return ErrorToast(e, http.StatusNotFound, "Unknown catalog")
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.CatalogImportContent(kind).Render(e.Request.Context(), e.Response)
		}
		return templates.CatalogImportPage(kind, GetSidebarData(e.Request)).Render(e.Request.Context(), e.Response)
	}
}

// HandleCatalogValidate receives a file upload, validates it, and returns
// the validation results as an HTMX partial.
// Route: POST /catalog/{kind}/import
func HandleCatalogValidate() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := catalogKind(e)
		if !ok {
			return ErrorToast(e, http.StatusNotFound, "Unknown catalog")
		}

		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ValidateCatalogFile(kind, file, header.Filename)
		if err != nil {
			log.Printf("catalog_validate: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		var parsedRowsJSON string
		if result.ErrorRows == 0 {
			b, err := json.Marshal(result.ParsedRows)
			if err != nil {
				log.Printf("catalog_validate: marshal parsed rows: %v", err)
			} else {
				parsedRowsJSON = string(b)
			}
		}

		return templates.CatalogValidationResults(kind, result, parsedRowsJSON).Render(e.Request.Context(), e.Response)
	}
}

// HandleCatalogErrorReport downloads the posted validation errors as an Excel file.
// Route: POST /catalog/{kind}/import/errors
func HandleCatalogErrorReport() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := catalogKind(e)
		if !ok {
			return ErrorToast(e, http.StatusNotFound, "Unknown catalog")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		var errs []services.ValidationError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors_json")), &errs); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(errs)
		if err != nil {
			log.Printf("error_report: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		filename := fmt.Sprintf("%s_Errors_%s.xlsx", kind.Title(), time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleCatalogImportCommit re-validates and writes the uploaded catalog rows.
// Route: POST /catalog/{kind}/import/commit
func HandleCatalogImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		kind, ok := catalogKind(e)
		if !ok {
			return ErrorToast(e, http.StatusNotFound, "Unknown catalog")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		parsedJSON := e.Request.FormValue("parsed_rows_json")
		if parsedJSON == "" {
			return ErrorToast(e, http.StatusBadRequest,
				"File data missing. Please re-upload and try again.")
		}

		var parsedRows []map[string]string
		if err := json.Unmarshal([]byte(parsedJSON), &parsedRows); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid parsed data")
		}

		importResult, err := services.CommitCatalogImport(app, kind, parsedRows)
		if err != nil {
			log.Printf("catalog_import_commit: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if importResult.Failed > 0 {
			return templates.CatalogImportFailure(kind, importResult).Render(e.Request.Context(), e.Response)
		}

		SetToast(e, ToastSuccess, fmt.Sprintf("%s catalog updated: %d added, %d updated",
			kind.Title(), importResult.Imported, importResult.Updated))
		return templates.CatalogImportSuccess(kind, importResult).Render(e.Request.Context(), e.Response)
	}
}
