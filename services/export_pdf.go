package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a printable estimate using maroto/v2.
// It returns the raw PDF bytes or an error.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.Letter).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addClientBlock(m, data)
	addTableHeader(m)
	for i, r := range data.Rows {
		addTableRow(m, r, i%2 == 1)
	}
	addSummary(m, data)
	addFooter(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the company block on the left and the estimate title on the right.
func addHeader(m core.Maroto, data ExportData) {
	muted := &props.Color{Red: 90, Green: 90, Blue: 90}

	m.AddRows(
		row.New(10).Add(
			col.New(7).Add(
				text.New(data.Company.Name, props.Text{
					Size:  15,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
			col.New(5).Add(
				text.New("ESTIMATE", props.Text{
					Size:  15,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: &props.Color{Red: 33, Green: 37, Blue: 41},
				}),
			),
		),
	)

	companyLine := strings.Join(nonEmpty(data.Company.Address, data.Company.Phone, licenseLabel(data.Company.LicenseNumber)), " | ")
	m.AddRows(
		row.New(6).Add(
			col.New(7).Add(
				text.New(companyLine, props.Text{Size: 8, Align: align.Left, Color: muted}),
			),
			col.New(5).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{Size: 9, Align: align.Right, Color: muted}),
			),
		),
	)
	if data.EstimateNumber != "" {
		m.AddRows(
			row.New(5).Add(
				col.New(12).Add(
					text.New(fmt.Sprintf("No. %s", data.EstimateNumber), props.Text{Size: 9, Align: align.Right, Color: muted}),
				),
			),
		)
	}

	m.AddRows(row.New(4))
}

// addClientBlock adds the project and client details.
func addClientBlock(m core.Maroto, data ExportData) {
	label := props.Text{
		Size:  7,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 100, Green: 100, Blue: 100},
	}
	value := props.Text{Size: 9, Align: align.Left}

	m.AddRows(
		row.New(5).Add(
			col.New(6).Add(text.New("PROJECT", label)),
			col.New(6).Add(text.New("PREPARED FOR", label)),
		),
		row.New(6).Add(
			col.New(6).Add(text.New(data.Title, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left})),
			col.New(6).Add(text.New(data.ClientName, props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Left})),
		),
		row.New(6).Add(
			col.New(6).Add(text.New(fmt.Sprintf("Labor rate: %s/hr", FormatCurrency(data.LaborRate)), value)),
			col.New(6).Add(text.New(data.ClientAddress, value)),
		),
	)

	m.AddRows(row.New(4))
}

// addTableHeader adds the column header row for the line item table.
func addTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	cols := []struct {
		size  int
		label string
		style props.Text
	}{
		{1, "#", headerText},
		{3, "Description", headerTextLeft},
		{2, "Category", headerTextLeft},
		{1, "Qty", headerText},
		{1, "Unit Price", headerText},
		{1, "Labor Hrs", headerText},
		{1, "Material", headerText},
		{1, "Labor", headerText},
		{1, "Total", headerText},
	}

	r := row.New(8)
	for _, c := range cols {
		r.Add(col.New(c.size).Add(text.New(c.label, c.style)).WithStyle(&headerCell))
	}
	m.AddRows(r)
}

// addTableRow adds a single line item row. Demolition rows are tinted so the
// separate bucket is visible in the printout.
func addTableRow(m core.Maroto, r ExportRow, striped bool) {
	var cellStyle *props.Cell
	switch {
	case r.Category.IsDemolition():
		cellStyle = &props.Cell{BackgroundColor: &props.Color{Red: 252, Green: 240, Blue: 228}}
	case striped:
		cellStyle = &props.Cell{BackgroundColor: &props.Color{Red: 245, Green: 245, Blue: 245}}
	}

	baseText := props.Text{Size: 7, Align: align.Center}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	qty := formatQty(r.Qty)
	if r.Unit != "" {
		qty += " " + r.Unit
	}

	cols := []core.Col{
		col.New(1).Add(text.New(r.Index, baseText)),
		col.New(3).Add(text.New(r.Description, leftText)),
		col.New(2).Add(text.New(string(r.Category), leftText)),
		col.New(1).Add(text.New(qty, rightText)),
		col.New(1).Add(text.New(FormatCurrency(r.UnitPrice), rightText)),
		col.New(1).Add(text.New(formatQty(r.LaborHours), rightText)),
		col.New(1).Add(text.New(FormatCurrency(r.MaterialCost), rightText)),
		col.New(1).Add(text.New(FormatCurrency(r.LaborCost), rightText)),
		col.New(1).Add(text.New(FormatCurrency(r.LineTotal), rightText)),
	}
	if cellStyle != nil {
		for i := range cols {
			cols[i] = cols[i].WithStyle(cellStyle)
		}
	}

	m.AddRows(row.New(7).Add(cols...))
}

// summaryLines returns the label/amount pairs of the totals block in order.
func summaryLines(data ExportData) []struct {
	Label  string
	Amount float64
} {
	t := data.Totals
	return []struct {
		Label  string
		Amount float64
	}{
		{"Material", t.MaterialSubtotal},
		{"Labor", t.LaborSubtotal},
		{"Demolition", t.DemolitionSubtotal},
		{"Direct Cost", t.DirectCost},
		{fmt.Sprintf("Overhead (%s)", FormatPercent(data.OverheadPct)), t.Overhead},
		{"Subtotal with Overhead", t.SubtotalWithOverhead},
		{fmt.Sprintf("Profit (%s)", FormatPercent(data.ProfitPct)), t.Profit},
		{"Grand Total", t.GrandTotal},
	}
}

// addSummary adds the totals block at the bottom of the estimate.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryCell := &props.Cell{BackgroundColor: &props.Color{Red: 240, Green: 240, Blue: 240}}
	labelStyle := props.Text{Size: 9, Align: align.Right}
	valueStyle := props.Text{Size: 9, Align: align.Right}

	lines := summaryLines(data)
	for i, l := range lines {
		ls, vs := labelStyle, valueStyle
		if i == len(lines)-1 || l.Label == "Direct Cost" {
			ls.Style = fontstyle.Bold
			vs.Style = fontstyle.Bold
		}
		m.AddRows(
			row.New(7).Add(
				col.New(6),
				col.New(4).Add(text.New(l.Label, ls)).WithStyle(summaryCell),
				col.New(2).Add(text.New(FormatCurrency(l.Amount), vs)).WithStyle(summaryCell),
			),
		)
	}
}

// addFooter adds the validity note and generated-date line at the bottom.
func addFooter(m core.Maroto, data ExportData) {
	muted := &props.Color{Red: 140, Green: 140, Blue: 140}
	m.AddRows(row.New(6))
	m.AddRows(
		row.New(5).Add(
			col.New(12).Add(
				text.New("Prices are based on current material costs and may be revised if the scope changes.",
					props.Text{Size: 7, Align: align.Left, Color: muted}),
			),
		),
		row.New(5).Add(
			col.New(12).Add(
				text.New(fmt.Sprintf("Generated on %s", data.CreatedDate),
					props.Text{Size: 7, Align: align.Left, Color: muted}),
			),
		),
	)
}

// formatQty returns a string representation of the quantity value.
// Whole numbers are formatted without decimals; fractional values get 2 decimal places.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
