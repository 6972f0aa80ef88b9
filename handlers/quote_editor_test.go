package handlers

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"pavingquotes/services"
	"pavingquotes/testhelpers"
)

// seedDriveway stores the catalog entries and estimate behind
// testhelpers.DrivewayOptions and returns the estimate ID.
func seedDriveway(t *testing.T, app *pocketbase.PocketBase) string {
	t.Helper()
	testhelpers.CreateTestMaterial(t, app, "AC10", "Asphalt", 195, 2.4)
	testhelpers.CreateTestEquipment(t, app, "Bobcat", "Prep", 135, 0)
	rec := testhelpers.CreateTestEstimate(t, app, "Jane", "Citizen", testhelpers.DrivewayOptions())
	return rec.Id
}

// openDriveway opens an editing session on the driveway estimate.
func openDriveway(t *testing.T, app *pocketbase.PocketBase, sessions *QuoteSessions) *QuoteSession {
	t.Helper()
	estimateID := seedDriveway(t, app)

	est, err := services.LoadEstimate(app, estimateID)
	if err != nil {
		t.Fatalf("LoadEstimate() error: %v", err)
	}
	catalog, err := services.LoadCatalog(app)
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}
	return sessions.Open(est, services.BuildItemsFromEstimate(est, catalog), 20)
}

// itemID returns the ID of the session item with label.
func itemID(t *testing.T, s *QuoteSession, label string) string {
	t.Helper()
	for _, it := range s.State.Snapshot().Items {
		if it.Label == label {
			return it.ID
		}
	}
	t.Fatalf("no item labelled %q", label)
	return ""
}

// sessionRequest builds a form request routed to session s.
func sessionRequest(s *QuoteSession, method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("sessionId", s.ID)
	return req.WithContext(context.WithValue(req.Context(), QuoteSessionKey, s))
}

func TestHandleQuoteFromEstimate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	estimateID := seedDriveway(t, app)
	sessions := NewQuoteSessions(time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/quotes/new-from-estimate/"+estimateID, nil)
	req.SetPathValue("estimateId", estimateID)
	rec := httptest.NewRecorder()

	if err := HandleQuoteFromEstimate(app, sessions, 20)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if sessions.Len() != 1 {
		t.Errorf("expected one open session, got %d", sessions.Len())
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		"<!DOCTYPE html>",
		"Jane Citizen",
		"Driveway",
		"AC10",
		"Bobcat",
		"$6,480.00",
		`id="quote-summary"`,
		`<span class="total-sqm">50 m²</span>`,
		"Asphalt: 50 m²",
	)
}

func TestHandleQuoteFromEstimate_HTMXPartial(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	estimateID := seedDriveway(t, app)

	req := httptest.NewRequest(http.MethodGet, "/quotes/new-from-estimate/"+estimateID, nil)
	req.SetPathValue("estimateId", estimateID)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	if err := HandleQuoteFromEstimate(app, NewQuoteSessions(time.Hour), 20)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLNotContains(t, rec.Body.String(), "<!DOCTYPE html>")
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Driveway")
}

func TestHandleQuoteFromEstimate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	sessions := NewQuoteSessions(time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/quotes/new-from-estimate/nonexistent", nil)
	req.SetPathValue("estimateId", "nonexistent")
	rec := httptest.NewRecorder()

	if err := HandleQuoteFromEstimate(app, sessions, 20)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if sessions.Len() != 0 {
		t.Errorf("expected no session to be opened, got %d", sessions.Len())
	}
}

func TestHandleQuoteItemPatch_MaterialSqm(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := openDriveway(t, app, NewQuoteSessions(time.Hour))
	id := itemID(t, s, "AC10")

	req := sessionRequest(s, http.MethodPatch, "/quote-sessions/"+s.ID+"/items/"+id, url.Values{"sqm": {"50"}})
	req.SetPathValue("itemId", id)
	rec := httptest.NewRecorder()

	if err := HandleQuoteItemPatch()(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		`id="item-`+id+`"`,
		"$46,800.00",
		`hx-swap-oob="true"`,
		"$53,280.00",
	)

	item, _ := s.State.Snapshot().LiveItem(id)
	if math.Abs(item.Quantity-240) > 0.001 {
		t.Errorf("Quantity = %v, want 240", item.Quantity)
	}
}

func TestHandleQuoteItemPatch_Errors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := openDriveway(t, app, NewQuoteSessions(time.Hour))
	bobcat := itemID(t, s, "Bobcat")

	tests := []struct {
		name   string
		itemID string
		form   url.Values
		want   int
	}{
		{"unknown item", "missing", url.Values{"unitPrice": {"10"}}, http.StatusNotFound},
		{"field not editable", bobcat, url.Values{"sqm": {"10"}}, http.StatusBadRequest},
		{"no field", bobcat, url.Values{"colour": {"red"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sessionRequest(s, http.MethodPatch, "/quote-sessions/"+s.ID+"/items/"+tt.itemID, tt.form)
			req.SetPathValue("itemId", tt.itemID)
			rec := httptest.NewRecorder()

			if err := HandleQuoteItemPatch()(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
			if rec.Header().Get("HX-Reswap") != "none" {
				t.Error("expected HX-Reswap: none")
			}
		})
	}

	item, _ := s.State.Snapshot().LiveItem(bobcat)
	if item.Total != 6480 {
		t.Errorf("failed patches changed the item: total = %v", item.Total)
	}
}

func TestHandleQuoteItemPatch_RejectsWholeRequest(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := openDriveway(t, app, NewQuoteSessions(time.Hour))
	bobcat := itemID(t, s, "Bobcat")
	before := s.State.Snapshot()

	var notified int
	s.State.Subscribe(func(services.QuoteSnapshot) { notified++ })

	req := sessionRequest(s, http.MethodPatch, "/quote-sessions/"+s.ID+"/items/"+bobcat,
		url.Values{"unit": {"5"}, "sqm": {"10"}})
	req.SetPathValue("itemId", bobcat)
	rec := httptest.NewRecorder()

	if err := HandleQuoteItemPatch()(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	after := s.State.Snapshot()
	item, _ := after.LiveItem(bobcat)
	if item.Unit != 2 {
		t.Errorf("Unit = %v, want 2", item.Unit)
	}
	if after.Totals != before.Totals {
		t.Errorf("totals changed: before %+v, after %+v", before.Totals, after.Totals)
	}
	if notified != 0 {
		t.Errorf("expected no change notification, got %d", notified)
	}
}

func TestHandleQuoteItemPatch_MultipleFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := openDriveway(t, app, NewQuoteSessions(time.Hour))
	bobcat := itemID(t, s, "Bobcat")

	req := sessionRequest(s, http.MethodPatch, "/quote-sessions/"+s.ID+"/items/"+bobcat,
		url.Values{"unit": {"1"}, "days": {"2"}})
	req.SetPathValue("itemId", bobcat)
	rec := httptest.NewRecorder()

	if err := HandleQuoteItemPatch()(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	item, _ := s.State.Snapshot().LiveItem(bobcat)
	if item.Total != 2160 {
		t.Errorf("Total = %v, want 2160", item.Total)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "$2,160.00")
}

func TestHandleQuoteOptionToggle(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := openDriveway(t, app, NewQuoteSessions(time.Hour))

	req := sessionRequest(s, http.MethodPost, "/quote-sessions/"+s.ID+"/options", url.Values{"label": {"Driveway"}})
	rec := httptest.NewRecorder()

	if err := HandleQuoteOptionToggle()(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	snap := s.State.Snapshot()
	if snap.IncludedOptions["Driveway"] {
		t.Error("expected Driveway to be excluded")
	}
	if snap.Totals.GrandTotal != 0 {
		t.Errorf("GrandTotal = %v, want 0", snap.Totals.GrandTotal)
	}

	req = sessionRequest(s, http.MethodPost, "/quote-sessions/"+s.ID+"/options",
		url.Values{"label": {"Driveway"}, "included": {"true"}})
	rec = httptest.NewRecorder()
	if err := HandleQuoteOptionToggle()(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !s.State.Snapshot().IncludedOptions["Driveway"] {
		t.Error("expected Driveway to be included again")
	}
}

func TestHandleQuoteOptionToggle_UnknownLabel(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := openDriveway(t, app, NewQuoteSessions(time.Hour))

	req := sessionRequest(s, http.MethodPost, "/quote-sessions/"+s.ID+"/options", url.Values{"label": {"Carport"}})
	rec := httptest.NewRecorder()

	if err := HandleQuoteOptionToggle()(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleQuoteMarkup(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := openDriveway(t, app, NewQuoteSessions(time.Hour))

	tests := []struct {
		name       string
		value      string
		wantCode   int
		wantMarkup float64
	}{
		{"valid", "25", http.StatusOK, 25},
		{"zero", "0", http.StatusOK, 0},
		{"above range", "150", http.StatusBadRequest, 0},
		{"negative", "-5", http.StatusBadRequest, 0},
		{"not a number", "lots", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sessionRequest(s, http.MethodPost, "/quote-sessions/"+s.ID+"/markup",
				url.Values{"markupPercentage": {tt.value}})
			rec := httptest.NewRecorder()

			if err := HandleQuoteMarkup()(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			if got := s.State.Snapshot().MarkupPercentage; got != tt.wantMarkup {
				t.Errorf("MarkupPercentage = %v, want %v", got, tt.wantMarkup)
			}
		})
	}
}

func TestHandleQuoteSave(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	sessions := NewQuoteSessions(time.Hour)
	s := openDriveway(t, app, sessions)
	if _, err := s.State.SetField(itemID(t, s, "AC10"), services.FieldSqm, 50); err != nil {
		t.Fatalf("SetField() error: %v", err)
	}

	req := sessionRequest(s, http.MethodPost, "/quote-sessions/"+s.ID+"/save", url.Values{})
	rec := httptest.NewRecorder()

	if err := HandleQuoteSave(app, sessions)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := sessions.Get(s.ID); ok {
		t.Error("expected the session to be closed after saving")
	}

	quotes, err := services.ListQuotes(app)
	if err != nil {
		t.Fatalf("ListQuotes() error: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected 1 saved quote, got %d", len(quotes))
	}
	q := quotes[0]
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/quotes/"+q.ID)

	if math.Abs(q.GrandTotal-70329.6) > 0.001 {
		t.Errorf("GrandTotal = %v, want 70329.6", q.GrandTotal)
	}
	if q.CustomerName != "Jane Citizen" {
		t.Errorf("CustomerName = %q, want Jane Citizen", q.CustomerName)
	}
	if !strings.HasPrefix(q.QuoteNumber, "Q-") {
		t.Errorf("QuoteNumber = %q, want Q- prefix", q.QuoteNumber)
	}
	if toast := parseToast(t, rec.Header().Get("HX-Trigger")); !strings.Contains(toast["message"], q.QuoteNumber) {
		t.Errorf("toast %q does not name the quote number", toast["message"])
	}
}

func TestHandleQuoteSave_NonHTMXRedirects(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	sessions := NewQuoteSessions(time.Hour)
	s := openDriveway(t, app, sessions)

	req := sessionRequest(s, http.MethodPost, "/quote-sessions/"+s.ID+"/save", url.Values{})
	req.Header.Del("HX-Request")
	rec := httptest.NewRecorder()

	if err := HandleQuoteSave(app, sessions)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Errorf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/quotes/") {
		t.Errorf("Location = %q, want /quotes/ prefix", loc)
	}
}

func TestHandleQuoteDiscard(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	sessions := NewQuoteSessions(time.Hour)
	s := openDriveway(t, app, sessions)

	req := sessionRequest(s, http.MethodPost, "/quote-sessions/"+s.ID+"/discard", url.Values{})
	rec := httptest.NewRecorder()

	if err := HandleQuoteDiscard(sessions)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/estimates")
	if sessions.Len() != 0 {
		t.Errorf("expected no open sessions, got %d", sessions.Len())
	}

	quotes, err := services.ListQuotes(app)
	if err != nil {
		t.Fatalf("ListQuotes() error: %v", err)
	}
	if len(quotes) != 0 {
		t.Errorf("expected nothing saved, got %d quotes", len(quotes))
	}
}

func TestSessionHandlers_NoSession(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	tests := []struct {
		name    string
		handler func(e *core.RequestEvent) error
	}{
		{"patch", HandleQuoteItemPatch()},
		{"toggle", HandleQuoteOptionToggle()},
		{"markup", HandleQuoteMarkup()},
		{"save", HandleQuoteSave(app, NewQuoteSessions(time.Hour))},
		{"discard", HandleQuoteDiscard(NewQuoteSessions(time.Hour))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/quote-sessions/x", nil)
			rec := httptest.NewRecorder()

			if err := tt.handler(newTestRequestEvent(app, req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusNotFound {
				t.Errorf("expected 404, got %d", rec.Code)
			}
		})
	}
}
