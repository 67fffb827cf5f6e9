package services

import "fmt"

// ExportRow represents a single line item row in an estimate export.
type ExportRow struct {
	Index       string
	Description string
	Category    Category
	Qty         float64
	Unit        string
	UnitPrice   float64
	LaborHours  float64
	LaborRate   float64 // resolved rate
	LineItemCost
}

// ExportData holds all data needed for the spreadsheet and PDF exports.
type ExportData struct {
	Title          string
	EstimateNumber string
	CreatedDate    string
	Company        CompanyInfo
	ClientName     string
	ClientAddress  string
	LaborRate      float64
	OverheadPct    float64
	ProfitPct      float64
	Rows           []ExportRow
	Totals         EstimateTotals
}

// BuildExportData flattens a project snapshot into export rows and computes
// totals through CalcEstimateTotals.
func BuildExportData(p ProjectEstimate, company CompanyInfo) ExportData {
	items := p.SortedItems()
	rows := make([]ExportRow, 0, len(items))
	for i, it := range items {
		resolved := ResolveLaborRate(it.LaborRate, p.LaborRate)
		rows = append(rows, ExportRow{
			Index:        fmt.Sprintf("%d", i+1),
			Description:  it.Description,
			Category:     it.Category,
			Qty:          it.Quantity,
			Unit:         it.Unit,
			UnitPrice:    it.UnitPrice,
			LaborHours:   it.LaborHours,
			LaborRate:    resolved,
			LineItemCost: CalcLineItem(it.Quantity, it.UnitPrice, it.LaborHours, resolved),
		})
	}

	return ExportData{
		Title:          p.Name,
		EstimateNumber: p.EstimateNumber,
		CreatedDate:    p.CreatedDate,
		Company:        company,
		ClientName:     p.ClientName,
		ClientAddress:  p.ClientAddress,
		LaborRate:      p.LaborRate,
		OverheadPct:    p.OverheadPct,
		ProfitPct:      p.ProfitPct,
		Rows:           rows,
		Totals:         p.Totals(),
	}
}

// estimateLabel is the title line shown on exports.
func estimateLabel(data ExportData) string {
	if data.EstimateNumber == "" {
		return "Estimate: " + data.Title
	}
	return fmt.Sprintf("Estimate %s: %s", data.EstimateNumber, data.Title)
}
