package services

// ExportRow is a single priced line in a quote export.
type ExportRow struct {
	Label       string
	Description string
	Quantity    float64
	UnitPrice   float64
	Total       float64
}

// ExportOption groups the rows of one included option.
type ExportOption struct {
	Label    string
	Rows     []ExportRow
	Subtotal float64
}

// ExportData holds all data needed to export a quote.
type ExportData struct {
	Title            string
	QuoteNumber      string
	CustomerName     string
	JobsiteAddress   string
	CreatedDate      string
	Options          []ExportOption
	MarkupPercentage float64
	Totals           QuoteTotals
	AmountInWords    string
}

// NewExportData lays out a saved quote for export. Only included options are
// listed; the totals are the quote's own.
func NewExportData(q Quote, businessName string) ExportData {
	createdDate := "—"
	if !q.CreatedAt.IsZero() {
		createdDate = q.CreatedAt.Format("02 Jan 2006")
	}

	data := ExportData{
		Title:            businessName + " Quotation",
		QuoteNumber:      q.QuoteNumber,
		CustomerName:     q.CustomerName,
		JobsiteAddress:   q.JobsiteAddress.String(),
		CreatedDate:      createdDate,
		MarkupPercentage: q.MarkupPercentage,
		Totals:           q.QuoteTotals,
		AmountInWords:    AmountToWords(q.GrandTotal),
	}

	for _, g := range GroupItemsByOption(q.IncludedItems()) {
		opt := ExportOption{Label: g.Label}
		for _, it := range g.Items {
			opt.Rows = append(opt.Rows, ExportRow{
				Label:       it.Label,
				Description: it.Description,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Total:       it.Total,
			})
			opt.Subtotal += it.Total
		}
		data.Options = append(data.Options, opt)
	}
	return data
}
