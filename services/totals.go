package services

// GSTRate is the goods and services tax applied to subtotal plus markup.
const GSTRate = 0.10

// ItemFields are the live, editable values of a quote item during an editing
// session. Which fields matter depends on the item type.
type ItemFields struct {
	Unit      float64 `json:"unit"`
	Hours     float64 `json:"hours"`
	Days      float64 `json:"days"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  float64 `json:"quantity"`
	Sqm       float64 `json:"sqm"`
	SprayRate float64 `json:"sprayRate"`
	Total     float64 `json:"total"`
}

// DefaultFields seeds the editable fields from a freshly built item.
func DefaultFields(it QuoteItem) ItemFields {
	f := ItemFields{
		Unit:      it.Unit,
		Hours:     it.Hours,
		Days:      it.Days,
		UnitPrice: it.UnitPrice,
		Quantity:  it.Quantity,
		Sqm:       it.Sqm,
		SprayRate: it.SprayRate,
	}
	if it.Type == ItemMaterial && falsy(f.SprayRate) {
		f.SprayRate = 1
	}
	f.Total = LineTotal(it.Type, f)
	return f
}

// EffectiveQuantity is the quantity an item contributes with: unit × hours ×
// days for equipment, the stored quantity otherwise.
func EffectiveQuantity(t ItemType, f ItemFields) float64 {
	if t == ItemEquipment {
		return f.Unit * f.Hours * f.Days
	}
	return f.Quantity
}

// LineTotal is the pre-markup price of one item from its live fields.
func LineTotal(t ItemType, f ItemFields) float64 {
	return EffectiveQuantity(t, f) * f.UnitPrice
}

// IsOptionIncluded reports whether items of label count towards the totals.
// Labels never toggled are included.
func IsOptionIncluded(included map[string]bool, label string) bool {
	v, ok := included[label]
	return !ok || v
}

// TotalsInput is everything CalcQuoteTotals reads.
type TotalsInput struct {
	Items            []QuoteItem
	Fields           map[string]ItemFields
	IncludedOptions  map[string]bool
	MarkupPercentage float64
}

// QuoteTotals is the priced summary of a quote. Values are unrounded.
type QuoteTotals struct {
	Subtotal   float64 `json:"subtotal"`
	Markup     float64 `json:"markup"`
	Profit     float64 `json:"profit"`
	GST        float64 `json:"gst"`
	GrandTotal float64 `json:"grandTotal"`
}

// CalcQuoteTotals sums the included items and applies markup and GST.
// Items without live fields are priced from their built defaults.
func CalcQuoteTotals(in TotalsInput) QuoteTotals {
	var subtotal float64
	for _, it := range in.Items {
		if !IsOptionIncluded(in.IncludedOptions, it.OptionLabel) {
			continue
		}
		subtotal += LineTotal(it.Type, fieldsFor(in.Fields, it))
	}
	return ApplyMarkupAndGST(subtotal, in.MarkupPercentage)
}

// ApplyMarkupAndGST derives the totals block from a subtotal.
// Profit equals markup.
func ApplyMarkupAndGST(subtotal, markupPercentage float64) QuoteTotals {
	markup := subtotal * (markupPercentage / 100)
	gst := (subtotal + markup) * GSTRate
	return QuoteTotals{
		Subtotal:   subtotal,
		Markup:     markup,
		Profit:     markup,
		GST:        gst,
		GrandTotal: subtotal + markup + gst,
	}
}

// OptionTotal is the pre-markup total of one option.
type OptionTotal struct {
	Label    string
	Total    float64
	Included bool
}

// CalcOptionTotals totals each option's items, in first-seen order.
func CalcOptionTotals(items []QuoteItem, fields map[string]ItemFields, included map[string]bool) []OptionTotal {
	var out []OptionTotal
	for _, g := range GroupItemsByOption(items) {
		var total float64
		for _, it := range g.Items {
			total += LineTotal(it.Type, fieldsFor(fields, it))
		}
		out = append(out, OptionTotal{
			Label:    g.Label,
			Total:    total,
			Included: IsOptionIncluded(included, g.Label),
		})
	}
	return out
}

func fieldsFor(fields map[string]ItemFields, it QuoteItem) ItemFields {
	if f, ok := fields[it.ID]; ok {
		return f
	}
	return DefaultFields(it)
}
