package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"pavingquotes/services"
	"pavingquotes/testhelpers"
)

// newUploadRequest builds a multipart upload of content as fileName.
func newUploadRequest(t *testing.T, kind, fileName, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("CreateFormFile error: %v", err)
	}
	part.Write([]byte(content))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/catalog/"+kind+"/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.SetPathValue("kind", kind)
	return req
}

func newCatalogForm(kind, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetPathValue("kind", kind)
	return req
}

func TestHandleCatalogList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMaterial(t, app, "Crusher Dust", "Roadbase", 45, 1.8)
	testhelpers.CreateTestMaterial(t, app, "AC10", "Asphalt", 195, 2.4)

	req := httptest.NewRequest(http.MethodGet, "/catalog/materials", nil)
	req.SetPathValue("kind", "materials")
	rec := httptest.NewRecorder()

	if err := HandleCatalogList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Materials", "AC10", "Crusher Dust", "2.40")
	if strings.Index(body, "AC10") > strings.Index(body, "Crusher Dust") {
		t.Error("expected rows sorted by item name")
	}
}

func TestHandleCatalogList_UnknownKind(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/catalog/vendors", nil)
	req.SetPathValue("kind", "vendors")
	rec := httptest.NewRecorder()

	if err := HandleCatalogList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleCatalogTemplateDownload(t *testing.T) {
	for _, kind := range []string{"materials", "equipment"} {
		t.Run(kind, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/catalog/"+kind+"/template", nil)
			req.SetPathValue("kind", kind)
			rec := httptest.NewRecorder()

			if err := HandleCatalogTemplateDownload()(newTestRequestEvent(nil, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if !strings.Contains(rec.Header().Get("Content-Disposition"), "_Import_Template.xlsx") {
				t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
			}
			if rec.Body.Len() == 0 {
				t.Error("expected a non-empty template")
			}
		})
	}
}

func TestHandleCatalogImportPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/catalog/equipment/import", nil)
	req.SetPathValue("kind", "equipment")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	if err := HandleCatalogImportPage()(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `hx-post="/catalog/equipment/import"`, "import-results")
}

func TestHandleCatalogValidate_Valid(t *testing.T) {
	csv := "Item,Type,Unit Price,Formula,Measurement\nAC10,Asphalt,195,2.4,tonne\nC170,Bitumen,1.85,0.906,litre\n"
	req := newUploadRequest(t, "materials", "materials.csv", csv)
	rec := httptest.NewRecorder()

	if err := HandleCatalogValidate()(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"2 rows, 2 valid, 0 with errors",
		`name="parsed_rows_json"`,
		"Import 2 rows",
	)
	testhelpers.AssertHTMLNotContains(t, rec.Body.String(), `name="errors_json"`)
}

func TestHandleCatalogValidate_Errors(t *testing.T) {
	csv := "Item,Type,Unit Price\nAC10,Gravel,abc\n"
	req := newUploadRequest(t, "materials", "materials.csv", csv)
	rec := httptest.NewRecorder()

	if err := HandleCatalogValidate()(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "1 with errors", `name="errors_json"`)
	testhelpers.AssertHTMLNotContains(t, body, `name="parsed_rows_json"`)
}

func TestHandleCatalogValidate_NoFile(t *testing.T) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	w.Close()
	req := httptest.NewRequest(http.MethodPost, "/catalog/materials/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.SetPathValue("kind", "materials")
	rec := httptest.NewRecorder()

	if err := HandleCatalogValidate()(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleCatalogErrorReport(t *testing.T) {
	form := url.Values{"errors_json": {`[{"row":2,"field":"type","message":"must be one of Bitumen, Asphalt, Roadbase, Stone"}]`}}
	req := newCatalogForm("materials", "/catalog/materials/import/errors", form)
	rec := httptest.NewRecorder()

	if err := HandleCatalogErrorReport()(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "Materials_Errors_") {
		t.Errorf("Content-Disposition = %q", rec.Header().Get("Content-Disposition"))
	}

	req = newCatalogForm("materials", "/catalog/materials/import/errors", url.Values{"errors_json": {"nope"}})
	rec = httptest.NewRecorder()
	if err := HandleCatalogErrorReport()(newTestRequestEvent(nil, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid error data, got %d", rec.Code)
	}
}

func TestHandleCatalogImportCommit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestEquipment(t, app, "Bobcat", "Prep", 120, 0)

	form := url.Values{"parsed_rows_json": {`[{"name":"Bobcat","category":"Prep","unit_price":"140"},{"name":"Paver","category":"Asphalt","unit_price":"260"}]`}}
	req := newCatalogForm("equipment", "/catalog/equipment/import/commit", form)
	rec := httptest.NewRecorder()

	if err := HandleCatalogImportCommit(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "1 added, 1 updated")
	if toast := parseToast(t, rec.Header().Get("HX-Trigger")); toast["type"] != ToastSuccess {
		t.Errorf("toast type = %q, want success", toast["type"])
	}

	catalog, err := services.LoadCatalog(app)
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}
	if eq, ok := catalog.Equipment("Bobcat"); !ok || eq.EffectivePrice() != 140 {
		t.Errorf("expected Bobcat repriced to 140, got %+v", eq)
	}
}

func TestHandleCatalogImportCommit_MissingData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing", url.Values{}},
		{"invalid", url.Values{"parsed_rows_json": {"not json"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newCatalogForm("materials", "/catalog/materials/import/commit", tt.form)
			rec := httptest.NewRecorder()

			if err := HandleCatalogImportCommit(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}
