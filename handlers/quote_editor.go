package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"

	"pavingquotes/services"
	"pavingquotes/templates"
)

// patchableFields lists the item fields the editor may post.
var patchableFields = []string{
	services.FieldUnit,
	services.FieldHours,
	services.FieldDays,
	services.FieldQuantity,
	services.FieldSqm,
	services.FieldSprayRate,
	services.FieldUnitPrice,
}

// buildEditorData lays out the live state of a session for the editor page.
// Options appear in item order; each option's measurement summary is
// computed from the estimate's shape entries for it.
func buildEditorData(session *QuoteSession) templates.QuoteEditorData {
	snap := session.State.Snapshot()
	est := session.Estimate

	live := make([]services.QuoteItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		item, _ := snap.LiveItem(it.ID)
		live = append(live, item)
	}

	data := templates.QuoteEditorData{
		SessionID:      session.ID,
		EstimateID:     est.ID,
		CustomerName:   est.CustomerName(),
		JobsiteAddress: est.JobsiteAddress.String(),
		Summary:        summaryData(session.ID, snap),
	}

	for _, g := range services.GroupItemsByOption(live) {
		view := templates.OptionView{
			Label:     g.Label,
			Equipment: services.GroupEquipmentByCategory(g.Items),
		}
		if opt, ok := est.Option(g.Label); ok {
			view.TotalSqm = services.Round2(services.CalcTotalArea(opt.ShapeEntries))
			view.AreaTypes = services.AreaTypeTotals(services.CalcAreaByType(opt.ShapeEntries))
		}
		for _, it := range g.Items {
			switch it.Type {
			case services.ItemMaterial:
				view.Materials = append(view.Materials, it)
			case services.ItemOther:
				view.Others = append(view.Others, it)
			}
		}
		data.Options = append(data.Options, view)
	}
	return data
}

func summaryData(sessionID string, snap services.QuoteSnapshot) templates.SummaryData {
	return templates.SummaryData{
		SessionID:        sessionID,
		OptionTotals:     snap.OptionTotals,
		MarkupPercentage: snap.MarkupPercentage,
		Totals:           snap.Totals,
	}
}

// HandleQuoteFromEstimate loads an estimate and the catalogs, builds the
// quote items and opens an editing session on them.
// Route: GET /quotes/new-from-estimate/{estimateId}
func HandleQuoteFromEstimate(app *pocketbase.PocketBase, sessions *QuoteSessions, defaultMarkup float64) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimateID := e.Request.PathValue("estimateId")
		if estimateID == "" {
			return ErrorToast(e, http.StatusBadRequest, "Missing estimate ID")
		}

		est, err := services.LoadEstimate(app, estimateID)
		if errors.Is(err, services.ErrEstimateNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Estimate not found")
		}
		if err != nil {
			log.Printf("quote_editor: HandleQuoteFromEstimate: could not load estimate %s: %v", estimateID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		catalog, err := services.LoadCatalog(app)
		if err != nil {
			log.Printf("quote_editor: HandleQuoteFromEstimate: could not load catalog: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not load the price catalog. Please try again.")
		}

		items := services.BuildItemsFromEstimate(est, catalog)
		session := sessions.Open(est, items, defaultMarkup)
		data := buildEditorData(session)

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.QuoteEditorContent(data).Render(e.Request.Context(), e.Response)
		}
		return templates.QuoteEditorPage(data, GetSidebarData(e.Request)).Render(e.Request.Context(), e.Response)
	}
}

// HandleQuoteItemPatch applies posted field values to one item and returns
// the re-rendered row with the summary swapped out-of-band.
// Route: PATCH /quote-sessions/{sessionId}/items/{itemId}
func HandleQuoteItemPatch() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		session := GetQuoteSession(e.Request)
		if session == nil {
			return ErrorToast(e, http.StatusNotFound, "This quote session has expired. Reopen the estimate to start again.")
		}
		itemID := e.Request.PathValue("itemId")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		posted := make(map[string]string)
		for _, field := range patchableFields {
			if e.Request.Form.Has(field) {
				posted[field] = e.Request.Form.Get(field)
			}
		}
		if len(posted) == 0 {
			return ErrorToast(e, http.StatusBadRequest, "No field to update")
		}

		snap, err := session.State.SetFieldStrings(itemID, posted)
		switch {
		case errors.Is(err, services.ErrUnknownItem):
			return ErrorToast(e, http.StatusNotFound, "Quote item not found")
		case errors.Is(err, services.ErrFieldNotEditable):
			return ErrorToast(e, http.StatusBadRequest, "One of these fields cannot be changed on this item")
		case err != nil:
			log.Printf("quote_editor: HandleQuoteItemPatch: session %s item %s: %v", session.ID, itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		item, _ := snap.LiveItem(itemID)
		ctx := e.Request.Context()
		if err := templates.ItemRow(session.ID, item).Render(ctx, e.Response); err != nil {
			return err
		}
		return templates.QuoteSummary(summaryData(session.ID, snap), true).Render(ctx, e.Response)
	}
}

// HandleQuoteOptionToggle includes or excludes an option from the totals.
// An unchecked box posts no "included" value and counts as excluded.
// Route: POST /quote-sessions/{sessionId}/options
func HandleQuoteOptionToggle() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		session := GetQuoteSession(e.Request)
		if session == nil {
			return ErrorToast(e, http.StatusNotFound, "This quote session has expired. Reopen the estimate to start again.")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		label := e.Request.FormValue("label")
		known := false
		for _, l := range services.OptionLabels(session.State.Snapshot().Items) {
			if l == label {
				known = true
				break
			}
		}
		if !known {
			return ErrorToast(e, http.StatusBadRequest, "Unknown option")
		}

		included := cast.ToBool(strings.TrimSpace(e.Request.FormValue("included")))
		snap := session.State.SetOptionIncluded(label, included)
		return templates.QuoteSummary(summaryData(session.ID, snap), false).Render(e.Request.Context(), e.Response)
	}
}

// HandleQuoteMarkup changes the markup percentage of the session.
// Route: POST /quote-sessions/{sessionId}/markup
func HandleQuoteMarkup() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		session := GetQuoteSession(e.Request)
		if session == nil {
			return ErrorToast(e, http.StatusNotFound, "This quote session has expired. Reopen the estimate to start again.")
		}
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		p, err := cast.ToFloat64E(strings.TrimSpace(e.Request.FormValue("markupPercentage")))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Markup must be a number")
		}
		snap, err := session.State.SetMarkupPercentage(p)
		if errors.Is(err, services.ErrMarkupOutOfRange) {
			return ErrorToast(e, http.StatusBadRequest, "Markup must be between 0 and 100")
		}
		if err != nil {
			log.Printf("quote_editor: HandleQuoteMarkup: session %s: %v", session.ID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}
		return templates.QuoteSummary(summaryData(session.ID, snap), false).Render(e.Request.Context(), e.Response)
	}
}

// HandleQuoteSave finalises the session into a quote, persists it and closes
// the session. On failure the session is left untouched so the save can be
// retried.
// Route: POST /quote-sessions/{sessionId}/save
func HandleQuoteSave(app *pocketbase.PocketBase, sessions *QuoteSessions) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		session := GetQuoteSession(e.Request)
		if session == nil {
			return ErrorToast(e, http.StatusNotFound, "This quote session has expired. Reopen the estimate to start again.")
		}

		now := time.Now()
		q := session.State.Finalize(services.MetaFromEstimate(session.Estimate), now)
		if err := services.SaveQuote(app, &q, now); err != nil {
			log.Printf("quote_editor: HandleQuoteSave: session %s: %v", session.ID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not save the quote. Your changes are kept, please try again.")
		}

		sessions.Close(session.ID)
		SetToast(e, ToastSuccess, fmt.Sprintf("Quote %s saved", q.QuoteNumber))
		redirectURL := "/quotes/" + q.ID
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", redirectURL)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, redirectURL)
	}
}

// HandleQuoteDiscard closes the session without saving and returns to the
// estimate list.
// Route: POST /quote-sessions/{sessionId}/discard
func HandleQuoteDiscard(sessions *QuoteSessions) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		session := GetQuoteSession(e.Request)
		if session == nil {
			return ErrorToast(e, http.StatusNotFound, "This quote session has expired. Reopen the estimate to start again.")
		}
		sessions.Close(session.ID)

		SetToast(e, ToastInfo, "Quote discarded")
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/estimates")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/estimates")
	}
}
