package services

import (
	"errors"
	"math"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// QuoteStatus is where a quote is in its life with the customer.
type QuoteStatus string

const (
	StatusDraft    QuoteStatus = "draft"
	StatusSent     QuoteStatus = "sent"
	StatusAccepted QuoteStatus = "accepted"
	StatusRejected QuoteStatus = "rejected"
)

// QuoteStatuses lists every valid status.
var QuoteStatuses = []QuoteStatus{StatusDraft, StatusSent, StatusAccepted, StatusRejected}

// Quote is a saved, priced proposal. Each save stores a complete snapshot.
type Quote struct {
	ID               string          `json:"id"`
	QuoteNumber      string          `json:"quoteNumber"`
	EstimateID       string          `json:"estimateId"`
	CustomerID       string          `json:"customerId"`
	CustomerName     string          `json:"customerName"`
	JobsiteAddress   JobsiteAddress  `json:"jobsiteAddress"`
	Items            []QuoteItem     `json:"items"`
	IncludedOptions  map[string]bool `json:"includedOptions"`
	MarkupPercentage float64         `json:"markupPercentage"`
	QuoteTotals
	Status    QuoteStatus `json:"status"`
	Notes     string      `json:"notes"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// ErrTotalsMismatch is returned when a quote's totals do not follow from its items.
var ErrTotalsMismatch = errors.New("quote totals do not match its items")

// totalsTolerance absorbs float noise from summing in a different order.
const totalsTolerance = 0.005

// Validate checks the quote is fit to persist, including that its totals were
// computed from the items it carries.
func (q Quote) Validate() error {
	statuses := make([]interface{}, len(QuoteStatuses))
	for i, s := range QuoteStatuses {
		statuses[i] = s
	}
	if err := validation.ValidateStruct(&q,
		validation.Field(&q.EstimateID, validation.Required),
		validation.Field(&q.MarkupPercentage, validation.Min(0.0), validation.Max(100.0)),
		validation.Field(&q.Status, validation.Required, validation.In(statuses...)),
	); err != nil {
		return err
	}

	want := CalcQuoteTotals(TotalsInput{
		Items:            q.Items,
		IncludedOptions:  q.IncludedOptions,
		MarkupPercentage: q.MarkupPercentage,
	})
	if !sameTotals(want, q.QuoteTotals) {
		return ErrTotalsMismatch
	}
	return nil
}

func sameTotals(a, b QuoteTotals) bool {
	near := func(x, y float64) bool { return math.Abs(x-y) <= totalsTolerance }
	return near(a.Subtotal, b.Subtotal) &&
		near(a.Markup, b.Markup) &&
		near(a.Profit, b.Profit) &&
		near(a.GST, b.GST) &&
		near(a.GrandTotal, b.GrandTotal)
}

// IncludedItems returns the items of included options, in order.
func (q Quote) IncludedItems() []QuoteItem {
	var out []QuoteItem
	for _, it := range q.Items {
		if IsOptionIncluded(q.IncludedOptions, it.OptionLabel) {
			out = append(out, it)
		}
	}
	return out
}

// IncludedOptionLabels returns the included option labels in item order.
func (q Quote) IncludedOptionLabels() []string {
	var out []string
	for _, label := range OptionLabels(q.Items) {
		if IsOptionIncluded(q.IncludedOptions, label) {
			out = append(out, label)
		}
	}
	return out
}
