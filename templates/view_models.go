// Package templates renders the HTML pages and HTMX fragments of the quoting app.
package templates

//go:generate templ generate

import "pavingquotes/services"

// SidebarData holds the navigation state and record counts shown in the sidebar.
type SidebarData struct {
	ActivePath     string
	QuoteCount     int
	EstimateCount  int
	MaterialCount  int
	EquipmentCount int
}

// OptionView is one estimate option laid out for the quote editor.
type OptionView struct {
	Label     string
	TotalSqm  float64
	AreaTypes []services.AreaTypeTotal
	Materials []services.QuoteItem
	Equipment []services.CategoryItems
	Others    []services.QuoteItem
}

// SummaryData is the live totals panel of an editing session.
type SummaryData struct {
	SessionID        string
	OptionTotals     []services.OptionTotal
	MarkupPercentage float64
	Totals           services.QuoteTotals
}

// QuoteEditorData is everything the quote editor page shows.
type QuoteEditorData struct {
	SessionID      string
	EstimateID     string
	CustomerName   string
	JobsiteAddress string
	Options        []OptionView
	Summary        SummaryData
}

// QuoteViewData is a saved quote with its derived display values.
type QuoteViewData struct {
	Quote         services.Quote
	Options       []services.OptionItems
	Margin        services.CostMargin
	AmountInWords string
}

// QuoteListItem is one row of the quote list.
type QuoteListItem struct {
	ID           string
	QuoteNumber  string
	CustomerName string
	Status       string
	GrandTotal   string
	CreatedDate  string
}

// EstimateListItem is one row of the estimate list.
type EstimateListItem struct {
	ID           string
	CustomerName string
	Address      string
	OptionCount  int
	TotalSqm     float64
}

// CatalogListData is a catalog shown as a table, one row per entry in column order.
type CatalogListData struct {
	Kind    services.CatalogKind
	Columns []services.CatalogColumn
	Rows    [][]string
}
