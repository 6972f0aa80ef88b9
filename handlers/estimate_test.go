package handlers

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pavingquotes/services"
	"pavingquotes/testhelpers"
)

const drivewayEstimateJSON = `{
	"firstName": "Sam",
	"lastName": "Lee",
	"customerEmail": "sam@example.com",
	"jobsiteAddress": {"street": "4 Hill Rd", "suburb": "Highfields", "postcode": "4352", "state": "QLD"},
	"options": [{
		"key": "option-1",
		"label": "Driveway",
		"totalSqm": 999,
		"shapeEntries": [
			{"id": "s1", "shape": "rectangle", "label": "Main", "values": ["10", "5"], "areaTypes": ["Asphalt"]},
			{"id": "s2", "shape": "triangle", "label": "Corner", "values": ["4", "3"], "areaTypes": ["Asphalt"]}
		]
	}]
}`

func TestHandleEstimateSave_Create(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/estimates", strings.NewReader(drivewayEstimateJSON))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	if err := HandleEstimateSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var saved services.Estimate
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("response is not an estimate: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected the saved estimate to carry an ID")
	}
	if len(saved.Options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(saved.Options))
	}
	if got := saved.Options[0].TotalSqm; math.Abs(got-56) > 0.001 {
		t.Errorf("option TotalSqm = %v, want 56", got)
	}

	stored, err := services.LoadEstimate(app, saved.ID)
	if err != nil {
		t.Fatalf("LoadEstimate() error: %v", err)
	}
	if stored.CustomerName() != "Sam Lee" {
		t.Errorf("CustomerName() = %q, want Sam Lee", stored.CustomerName())
	}
}

func TestHandleEstimateSave_Errors(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{"firstName":`, http.StatusBadRequest},
		{"no customer", `{"options": []}`, http.StatusBadRequest},
		{"unknown id", `{"id": "nonexistent", "firstName": "Sam"}`, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/estimates", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			if err := HandleEstimateSave(app)(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandleEstimateList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestEstimate(t, app, "Jane", "Citizen", testhelpers.DrivewayOptions())

	req := httptest.NewRequest(http.MethodGet, "/estimates", nil)
	w := httptest.NewRecorder()

	if err := HandleEstimateList(app)(newTestRequestEvent(app, req, w)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	testhelpers.AssertHTMLContains(t, w.Body.String(),
		"<!DOCTYPE html>",
		"Jane Citizen",
		"Toowoomba",
		"/quotes/new-from-estimate/"+rec.Id,
	)
}
