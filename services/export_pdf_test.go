package services

import (
	"testing"
)

func TestGeneratePDF_Quote(t *testing.T) {
	data := NewExportData(exportQuote(), "SCSD")

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
	// PDF files start with %PDF
	if len(result) > 4 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGeneratePDF_EmptyQuote(t *testing.T) {
	data := ExportData{
		Title:       "SCSD Quotation",
		QuoteNumber: "Q-2026-0002",
		CreatedDate: "—",
	}

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}

func TestGeneratePDF_ManyOptions(t *testing.T) {
	data := ExportData{Title: "SCSD Quotation", QuoteNumber: "Q-2026-0003"}
	for i := 0; i < 30; i++ {
		opt := ExportOption{Label: "Option"}
		for j := 0; j < 10; j++ {
			opt.Rows = append(opt.Rows, ExportRow{Label: "Item", Description: "Line", Quantity: 1, UnitPrice: 10, Total: 10})
			opt.Subtotal += 10
		}
		data.Options = append(data.Options, opt)
	}
	data.Totals = ApplyMarkupAndGST(3000, 20)

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) < 5 || string(result[:5]) != "%PDF-" {
		t.Error("expected a PDF document")
	}
}
