package services

import (
	"math"
	"testing"
)

func TestCalcCostMargin(t *testing.T) {
	tests := []struct {
		name          string
		items         []QuoteItem
		expectPrice   float64
		expectCost    float64
		expectMargin  float64
		expectPercent float64
	}{
		{
			name:        "catalog prices",
			items:       []QuoteItem{{Quantity: 240, UnitPrice: 195, UnitCost: 195, Total: 46800}},
			expectPrice: 46800, expectCost: 46800,
		},
		{
			name: "price raised above cost",
			items: []QuoteItem{
				{Quantity: 10, UnitPrice: 150, UnitCost: 120, Total: 1500},
				{Quantity: 1, UnitPrice: 500, Total: 500},
			},
			expectPrice: 2000, expectCost: 1200, expectMargin: 800, expectPercent: 40,
		},
		{
			name:        "discounted below cost",
			items:       []QuoteItem{{Quantity: 4, UnitPrice: 90, UnitCost: 100, Total: 360}},
			expectPrice: 360, expectCost: 400, expectMargin: -40, expectPercent: -11.111,
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalcCostMargin(tt.items)
			if math.Abs(got.TotalPrice-tt.expectPrice) > 0.001 {
				t.Errorf("TotalPrice = %v, want %v", got.TotalPrice, tt.expectPrice)
			}
			if math.Abs(got.TotalCost-tt.expectCost) > 0.001 {
				t.Errorf("TotalCost = %v, want %v", got.TotalCost, tt.expectCost)
			}
			if math.Abs(got.Margin-tt.expectMargin) > 0.001 {
				t.Errorf("Margin = %v, want %v", got.Margin, tt.expectMargin)
			}
			if math.Abs(got.MarginPercent-tt.expectPercent) > 0.001 {
				t.Errorf("MarginPercent = %v, want %v", got.MarginPercent, tt.expectPercent)
			}
		})
	}
}
