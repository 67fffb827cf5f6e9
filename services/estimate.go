// Package services provides cost calculation, export and draft-state functions
// for electrical bid estimates.
package services

import "slices"

// Category is one label from the fixed line-item vocabulary.
type Category string

const (
	CategoryWire           Category = "Wire"
	CategoryConduit        Category = "Conduit"
	CategoryPanelsBreakers Category = "Panels & Breakers"
	CategoryDevices        Category = "Devices"
	CategoryBoxesFittings  Category = "Boxes & Fittings"
	CategoryLighting       Category = "Lighting"
	CategoryMiscellaneous  Category = "Miscellaneous"
	CategoryLaborOnly      Category = "Labor Only"
	CategoryDemolition     Category = "Demolition"
)

// Categories is the closed vocabulary in display order.
var Categories = []Category{
	CategoryWire,
	CategoryConduit,
	CategoryPanelsBreakers,
	CategoryDevices,
	CategoryBoxesFittings,
	CategoryLighting,
	CategoryMiscellaneous,
	CategoryLaborOnly,
	CategoryDemolition,
}

// ParseCategory matches s exactly (case-sensitive) against the vocabulary.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// IsDemolition reports whether the line total goes to the demolition bucket.
func (c Category) IsDemolition() bool {
	return c == CategoryDemolition
}

// LineItemCost holds the calculated costs for a single line item.
type LineItemCost struct {
	MaterialCost float64 `json:"materialCost"`
	LaborCost    float64 `json:"laborCost"`
	LineTotal    float64 `json:"lineTotal"`
}

// CalcLineItem calculates material, labor and line total for one item.
// laborRate must already be resolved; see ResolveLaborRate.
func CalcLineItem(quantity, unitPrice, laborHours, laborRate float64) LineItemCost {
	material := quantity * unitPrice
	labor := laborHours * laborRate
	return LineItemCost{
		MaterialCost: material,
		LaborCost:    labor,
		LineTotal:    material + labor,
	}
}

// ResolveLaborRate returns the item's own rate when set, otherwise the
// project default.
func ResolveLaborRate(itemRate *float64, projectRate float64) float64 {
	if itemRate != nil {
		return *itemRate
	}
	return projectRate
}

// EstimateLine is the subset of a line item the rollup needs.
type EstimateLine struct {
	Quantity   float64
	UnitPrice  float64
	LaborHours float64
	LaborRate  *float64 // nil inherits the project rate
	Category   Category
	SortOrder  int
}

// Cost resolves the labor rate against defaultLaborRate and calculates the line.
func (l EstimateLine) Cost(defaultLaborRate float64) LineItemCost {
	rate := ResolveLaborRate(l.LaborRate, defaultLaborRate)
	return CalcLineItem(l.Quantity, l.UnitPrice, l.LaborHours, rate)
}

// EstimateTotals is the layered cost breakdown of an estimate. It is always
// derived from line items and never stored.
type EstimateTotals struct {
	MaterialSubtotal     float64 `json:"materialSubtotal"`
	LaborSubtotal        float64 `json:"laborSubtotal"`
	DemolitionSubtotal   float64 `json:"demolitionSubtotal"`
	DirectCost           float64 `json:"directCost"`
	Overhead             float64 `json:"overhead"`
	SubtotalWithOverhead float64 `json:"subtotalWithOverhead"`
	Profit               float64 `json:"profit"`
	GrandTotal           float64 `json:"grandTotal"`
}

// CalcEstimateTotals rolls line items up into EstimateTotals.
//
// Demolition items contribute their full line total to DemolitionSubtotal only;
// every other category splits into MaterialSubtotal and LaborSubtotal.
// Overhead is charged on direct cost, profit on direct cost plus overhead.
// Inputs are not validated.
func CalcEstimateTotals(lines []EstimateLine, defaultLaborRate, overheadPct, profitPct float64) EstimateTotals {
	if len(lines) == 0 {
		return EstimateTotals{}
	}

	material := make([]float64, 0, len(lines))
	labor := make([]float64, 0, len(lines))
	var demolition []float64

	for _, l := range lines {
		c := l.Cost(defaultLaborRate)
		if l.Category.IsDemolition() {
			demolition = append(demolition, c.LineTotal)
			continue
		}
		material = append(material, c.MaterialCost)
		labor = append(labor, c.LaborCost)
	}

	var t EstimateTotals
	t.MaterialSubtotal = canonicalSum(material)
	t.LaborSubtotal = canonicalSum(labor)
	t.DemolitionSubtotal = canonicalSum(demolition)
	t.DirectCost = t.MaterialSubtotal + t.LaborSubtotal + t.DemolitionSubtotal
	t.Overhead = t.DirectCost * overheadPct
	t.SubtotalWithOverhead = t.DirectCost + t.Overhead
	t.Profit = t.SubtotalWithOverhead * profitPct
	t.GrandTotal = t.SubtotalWithOverhead + t.Profit
	return t
}

// canonicalSum adds values in ascending order so the result depends only on
// the multiset of values, not on input order. vals is reordered in place.
func canonicalSum(vals []float64) float64 {
	slices.Sort(vals)
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum
}
