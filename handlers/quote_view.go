package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"pavingquotes/services"
	"pavingquotes/templates"
)

// HandleQuoteView renders a saved quote with its included options, totals
// and cost margin.
// Route: GET /quotes/{id}
func HandleQuoteView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quoteID := e.Request.PathValue("id")
		if quoteID == "" {
			return e.String(http.StatusBadRequest, "Missing quote ID")
		}

		q, err := services.LoadQuote(app, quoteID)
		if errors.Is(err, services.ErrQuoteNotFound) {
			return e.String(http.StatusNotFound, "Quote not found")
		}
		if err != nil {
			log.Printf("quote_view: HandleQuoteView: could not load quote %s: %v", quoteID, err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		included := q.IncludedItems()
		data := templates.QuoteViewData{
			Quote:         q,
			Options:       services.GroupItemsByOption(included),
			Margin:        services.CalcCostMargin(included),
			AmountInWords: services.AmountToWords(q.GrandTotal),
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.QuoteViewContent(data).Render(e.Request.Context(), e.Response)
		}
		return templates.QuoteViewPage(data, GetSidebarData(e.Request)).Render(e.Request.Context(), e.Response)
	}
}

// HandleQuoteList renders all saved quotes, newest first.
// Route: GET /quotes
func HandleQuoteList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		quotes, err := services.ListQuotes(app)
		if err != nil {
			log.Printf("quote_list: HandleQuoteList: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		items := make([]templates.QuoteListItem, 0, len(quotes))
		for _, q := range quotes {
			created := "—"
			if !q.CreatedAt.IsZero() {
				created = q.CreatedAt.Format("02 Jan 2006")
			}
			items = append(items, templates.QuoteListItem{
				ID:           q.ID,
				QuoteNumber:  q.QuoteNumber,
				CustomerName: q.CustomerName,
				Status:       string(q.Status),
				GrandTotal:   services.FormatAUD(q.GrandTotal),
				CreatedDate:  created,
			})
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.QuoteListContent(items).Render(e.Request.Context(), e.Response)
		}
		return templates.QuoteListPage(items, GetSidebarData(e.Request)).Render(e.Request.Context(), e.Response)
	}
}
