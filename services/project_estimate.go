package services

import (
	"cmp"
	"slices"
)

// LineItem is a stored line item as read from the data layer.
type LineItem struct {
	ID          string
	MaterialID  string
	Description string
	Unit        string
	EstimateLine
}

// ProjectEstimate is a snapshot of a project and its line items, read at a
// single point in time. Totals are derived from it on demand.
type ProjectEstimate struct {
	ID             string
	EstimateNumber string
	Name           string
	ClientName     string
	ClientAddress  string
	Status         string
	Notes          string
	CreatedDate    string
	LaborRate      float64
	OverheadPct    float64
	ProfitPct      float64
	Items          []LineItem
}

// Lines returns the rollup input for every line item.
func (p ProjectEstimate) Lines() []EstimateLine {
	lines := make([]EstimateLine, len(p.Items))
	for i, it := range p.Items {
		lines[i] = it.EstimateLine
	}
	return lines
}

// Totals computes the estimate totals with the project's current rates.
func (p ProjectEstimate) Totals() EstimateTotals {
	return CalcEstimateTotals(p.Lines(), p.LaborRate, p.OverheadPct, p.ProfitPct)
}

// SortedItems returns the line items ordered by sort order, then id.
func (p ProjectEstimate) SortedItems() []LineItem {
	items := slices.Clone(p.Items)
	slices.SortStableFunc(items, func(a, b LineItem) int {
		if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return items
}

// CompanyInfo is the cosmetic company block printed on exports.
type CompanyInfo struct {
	Name          string
	Address       string
	Phone         string
	LicenseNumber string
}
