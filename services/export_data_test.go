package services

import (
	"testing"
	"time"
)

func exportQuote() Quote {
	items := []QuoteItem{
		{ID: "1", OptionLabel: "Driveway", Label: "AC10", Type: ItemMaterial, Description: "Asphalt | tonne", Quantity: 240, UnitPrice: 195, Total: 46800},
		{ID: "2", OptionLabel: "Driveway", Label: "Bobcat", Type: ItemEquipment, Description: "2 units × 8 hrs × 3 days", Unit: 2, Hours: 8, Days: 3, Quantity: 48, UnitPrice: 135, Total: 6480},
		{ID: "3", OptionLabel: "Carpark", Label: "Traffic control", Type: ItemOther, Description: "Additional", Quantity: 2, UnitPrice: 450, Total: 900},
	}
	included := map[string]bool{"Driveway": true, "Carpark": false}
	return Quote{
		QuoteNumber:      "Q-2026-0001",
		EstimateID:       "est1",
		CustomerName:     "Jane Citizen",
		JobsiteAddress:   JobsiteAddress{Street: "1 Main St", Suburb: "Toowoomba", Postcode: "4350", State: "QLD"},
		Items:            items,
		IncludedOptions:  included,
		MarkupPercentage: 20,
		QuoteTotals:      ApplyMarkupAndGST(53280, 20),
		Status:           StatusDraft,
		CreatedAt:        time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewExportData(t *testing.T) {
	data := NewExportData(exportQuote(), "SCSD")

	if data.Title != "SCSD Quotation" {
		t.Errorf("Title = %q", data.Title)
	}
	if data.CreatedDate != "01 Mar 2026" {
		t.Errorf("CreatedDate = %q", data.CreatedDate)
	}
	if data.JobsiteAddress != "1 Main St, Toowoomba, QLD 4350" {
		t.Errorf("JobsiteAddress = %q", data.JobsiteAddress)
	}
	if len(data.Options) != 1 || data.Options[0].Label != "Driveway" {
		t.Fatalf("Options = %+v, want only Driveway", data.Options)
	}
	if len(data.Options[0].Rows) != 2 {
		t.Errorf("Driveway rows = %d, want 2", len(data.Options[0].Rows))
	}
	if data.Options[0].Subtotal != 53280 {
		t.Errorf("Driveway subtotal = %v, want 53280", data.Options[0].Subtotal)
	}
	if !approx(data.Totals.GrandTotal, 70329.6) {
		t.Errorf("GrandTotal = %v", data.Totals.GrandTotal)
	}
	if want := "Seventy Thousand Three Hundred and Twenty Nine Dollars and Sixty Cents Only"; data.AmountInWords != want {
		t.Errorf("AmountInWords = %q, want %q", data.AmountInWords, want)
	}
}

func TestNewExportData_NoDate(t *testing.T) {
	q := exportQuote()
	q.CreatedAt = time.Time{}
	if got := NewExportData(q, "SCSD").CreatedDate; got != "—" {
		t.Errorf("CreatedDate = %q, want placeholder", got)
	}
}
