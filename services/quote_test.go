package services

import (
	"errors"
	"reflect"
	"testing"
)

func validQuote() Quote {
	items := []QuoteItem{
		{ID: "1", OptionLabel: "A", Type: ItemOther, Quantity: 2, UnitPrice: 100, Total: 200},
		{ID: "2", OptionLabel: "B", Type: ItemEquipment, Unit: 1, Hours: 2, Days: 1, Quantity: 2, UnitPrice: 50, Total: 100},
	}
	included := map[string]bool{"A": true, "B": false}
	return Quote{
		EstimateID:       "est1",
		Items:            items,
		IncludedOptions:  included,
		MarkupPercentage: 10,
		QuoteTotals:      ApplyMarkupAndGST(200, 10),
		Status:           StatusDraft,
	}
}

func TestQuote_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *Quote)
		wantErr bool
	}{
		{"valid", func(q *Quote) {}, false},
		{"missing estimate", func(q *Quote) { q.EstimateID = "" }, true},
		{"negative markup", func(q *Quote) { q.MarkupPercentage = -5 }, true},
		{"markup over 100", func(q *Quote) { q.MarkupPercentage = 101 }, true},
		{"bad status", func(q *Quote) { q.Status = "archived" }, true},
		{"missing status", func(q *Quote) { q.Status = "" }, true},
		{"sent status", func(q *Quote) { q.Status = StatusSent }, false},
		{"tiny float noise", func(q *Quote) { q.GrandTotal += 0.001 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuote()
			tt.mutate(&q)
			err := q.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuote_ValidateTotalsMismatch(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *Quote)
	}{
		{"stale subtotal", func(q *Quote) { q.Subtotal = 300 }},
		{"excluded option counted", func(q *Quote) { q.QuoteTotals = ApplyMarkupAndGST(300, 10) }},
		{"changed item", func(q *Quote) { q.Items[0].Quantity = 3 }},
		{"wrong markup", func(q *Quote) { q.MarkupPercentage = 20 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuote()
			tt.mutate(&q)
			if err := q.Validate(); !errors.Is(err, ErrTotalsMismatch) {
				t.Errorf("Validate() = %v, want ErrTotalsMismatch", err)
			}
		})
	}
}

func TestQuote_IncludedItems(t *testing.T) {
	q := validQuote()

	items := q.IncludedItems()
	if len(items) != 1 || items[0].ID != "1" {
		t.Errorf("IncludedItems = %+v", items)
	}
	if got := q.IncludedOptionLabels(); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("IncludedOptionLabels = %v", got)
	}
}
