package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ErrQuoteNotFound is returned when no quote has the requested id.
var ErrQuoteNotFound = errors.New("quote not found")

// SaveQuote validates q and writes it as a new quote record with the next
// quote number. Nothing is written when validation fails, so a failed save
// can be retried with the same snapshot. q.ID and q.QuoteNumber are set on success.
func SaveQuote(app *pocketbase.PocketBase, q *Quote, now time.Time) error {
	if err := q.Validate(); err != nil {
		return fmt.Errorf("invalid quote: %w", err)
	}

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("quotes collection: %w", err)
	}

	record := core.NewRecord(col)
	err = app.RunInTransaction(func(txApp core.App) error {
		number, err := GenerateQuoteNumber(txApp, now)
		if err != nil {
			return fmt.Errorf("quote number: %w", err)
		}
		setQuoteRecord(record, q, number)
		if err := txApp.Save(record); err != nil {
			return fmt.Errorf("save quote: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	q.ID = record.Id
	q.QuoteNumber = record.GetString("quote_number")
	return nil
}

func setQuoteRecord(record *core.Record, q *Quote, number string) {
	items := q.Items
	if items == nil {
		items = []QuoteItem{}
	}
	included := q.IncludedOptions
	if included == nil {
		included = map[string]bool{}
	}

	record.Set("quote_number", number)
	record.Set("estimate", q.EstimateID)
	record.Set("customer_id", q.CustomerID)
	record.Set("customer_name", q.CustomerName)
	record.Set("jobsite_address", q.JobsiteAddress)
	record.Set("items", items)
	record.Set("included_options", included)
	record.Set("markup_percentage", q.MarkupPercentage)
	record.Set("subtotal", q.Subtotal)
	record.Set("markup", q.Markup)
	record.Set("profit", q.Profit)
	record.Set("gst", q.GST)
	record.Set("grand_total", q.GrandTotal)
	record.Set("status", string(q.Status))
	record.Set("notes", q.Notes)
}

// LoadQuote reads a saved quote.
func LoadQuote(app *pocketbase.PocketBase, id string) (Quote, error) {
	record, err := app.FindRecordById("quotes", id)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %s", ErrQuoteNotFound, id)
	}
	return quoteFromRecord(record)
}

// ListQuotes returns all saved quotes, newest first.
func ListQuotes(app *pocketbase.PocketBase) ([]Quote, error) {
	records, err := app.FindRecordsByFilter("quotes", "id != ''", "-created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	quotes := make([]Quote, 0, len(records))
	for _, r := range records {
		q, err := quoteFromRecord(r)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

func quoteFromRecord(r *core.Record) (Quote, error) {
	q := Quote{
		ID:               r.Id,
		QuoteNumber:      r.GetString("quote_number"),
		EstimateID:       r.GetString("estimate"),
		CustomerID:       r.GetString("customer_id"),
		CustomerName:     r.GetString("customer_name"),
		MarkupPercentage: r.GetFloat("markup_percentage"),
		QuoteTotals: QuoteTotals{
			Subtotal:   r.GetFloat("subtotal"),
			Markup:     r.GetFloat("markup"),
			Profit:     r.GetFloat("profit"),
			GST:        r.GetFloat("gst"),
			GrandTotal: r.GetFloat("grand_total"),
		},
		Status:    QuoteStatus(r.GetString("status")),
		Notes:     r.GetString("notes"),
		CreatedAt: r.GetDateTime("created").Time(),
		UpdatedAt: r.GetDateTime("updated").Time(),
	}
	if err := unmarshalIfSet(r, "jobsite_address", &q.JobsiteAddress); err != nil {
		return Quote{}, err
	}
	if err := unmarshalIfSet(r, "items", &q.Items); err != nil {
		return Quote{}, err
	}
	if err := unmarshalIfSet(r, "included_options", &q.IncludedOptions); err != nil {
		return Quote{}, err
	}
	return q, nil
}
