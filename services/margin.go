package services

// CostMargin compares what a quote charges with what its lines cost at
// catalog prices.
type CostMargin struct {
	TotalPrice    float64
	TotalCost     float64
	Margin        float64
	MarginPercent float64
}

// CalcCostMargin totals price and cost over items. Cost is quantity × unit
// cost; ad-hoc lines carry no cost.
func CalcCostMargin(items []QuoteItem) CostMargin {
	var m CostMargin
	for _, it := range items {
		m.TotalPrice += it.Total
		m.TotalCost += it.Quantity * it.UnitCost
	}
	m.Margin = m.TotalPrice - m.TotalCost
	if m.TotalPrice != 0 {
		m.MarginPercent = (m.Margin / m.TotalPrice) * 100
	}
	return m
}
