package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a quote PDF using maroto/v2 and returns its bytes.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	for _, opt := range data.Options {
		addOption(m, opt)
	}
	addSummary(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the title, quote number, customer and jobsite.
func addHeader(m core.Maroto, data ExportData) {
	grey := &props.Color{Red: 80, Green: 80, Blue: 80}

	m.AddRows(
		row.New(12).Add(
			col.New(8).Add(
				text.New(data.Title, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(4).Add(
				text.New(data.QuoteNumber, props.Text{
					Size:  10,
					Style: fontstyle.Bold,
					Align: align.Right,
				}),
			),
		),
	)

	m.AddRows(
		row.New(6).Add(
			col.New(8).Add(
				text.New("Customer: "+data.CustomerName, props.Text{Size: 9, Color: grey}),
			),
			col.New(4).Add(
				text.New("Date: "+data.CreatedDate, props.Text{Size: 9, Align: align.Right, Color: grey}),
			),
		),
		row.New(6).Add(
			col.New(12).Add(
				text.New("Jobsite: "+data.JobsiteAddress, props.Text{Size: 9, Color: grey}),
			),
		),
		row.New(6),
	)
}

// addOption adds an option heading, its column headers and item rows.
func addOption(m core.Maroto, opt ExportOption) {
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(
				text.New(opt.Label, props.Text{Size: 11, Style: fontstyle.Bold}),
			),
		),
	)

	headerCell := &props.Cell{BackgroundColor: &props.Color{Red: 33, Green: 37, Blue: 41}}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerRight := headerText
	headerRight.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(3).Add(text.New("Item", headerText)).WithStyle(headerCell),
			col.New(4).Add(text.New("Description", headerText)).WithStyle(headerCell),
			col.New(1).Add(text.New("Qty", headerRight)).WithStyle(headerCell),
			col.New(2).Add(text.New("Unit Price", headerRight)).WithStyle(headerCell),
			col.New(2).Add(text.New("Total", headerRight)).WithStyle(headerCell),
		),
	)

	cellText := props.Text{Size: 8, Align: align.Left}
	cellRight := cellText
	cellRight.Align = align.Right

	for _, r := range opt.Rows {
		m.AddRows(
			row.New(6).Add(
				col.New(3).Add(text.New(r.Label, cellText)),
				col.New(4).Add(text.New(r.Description, cellText)),
				col.New(1).Add(text.New(FormatQty(r.Quantity), cellRight)),
				col.New(2).Add(text.New(FormatAUD(r.UnitPrice), cellRight)),
				col.New(2).Add(text.New(FormatAUD(r.Total), cellRight)),
			),
		)
	}

	m.AddRows(
		row.New(7).Add(
			col.New(10).Add(text.New(opt.Label+" subtotal", props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
			col.New(2).Add(text.New(FormatAUD(opt.Subtotal), props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right})),
		),
		row.New(4),
	)
}

// addSummary adds subtotal, markup, GST and the grand total.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(4))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	label := props.Text{Size: 9, Align: align.Right}
	value := props.Text{Size: 9, Align: align.Right}

	lines := []struct {
		name   string
		amount float64
	}{
		{"Subtotal", data.Totals.Subtotal},
		{fmt.Sprintf("Markup (%s)", FormatPercent(data.MarkupPercentage)), data.Totals.Markup},
		{fmt.Sprintf("GST (%s)", FormatPercent(GSTRate*100)), data.Totals.GST},
	}
	for _, l := range lines {
		m.AddRows(
			row.New(7).Add(
				col.New(9).Add(text.New(l.name, label)).WithStyle(summaryCell),
				col.New(3).Add(text.New(FormatAUD(l.amount), value)).WithStyle(summaryCell),
			),
		)
	}

	bold := props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}
	m.AddRows(
		row.New(9).Add(
			col.New(9).Add(text.New("Total (incl. GST)", bold)).WithStyle(summaryCell),
			col.New(3).Add(text.New(FormatAUD(data.Totals.GrandTotal), bold)).WithStyle(summaryCell),
		),
	)

	if data.AmountInWords != "" {
		m.AddRows(
			row.New(4),
			row.New(8).Add(
				col.New(12).Add(
					text.New("Amount in Words: "+data.AmountInWords, props.Text{
						Size:  8,
						Style: fontstyle.BoldItalic,
						Align: align.Left,
					}),
				),
			),
		)
	}
}
