package handlers

import (
	"log"

	"github.com/pocketbase/pocketbase/core"
	"github.com/samber/lo"

	"bidestimator/services"
	"bidestimator/templates"
)

// lineItemRows resolves every item's labor rate against the current project
// rate and computes its costs for display.
func lineItemRows(items []services.LineItem, projectRate float64) []templates.LineItemRow {
	return lo.Map(items, func(it services.LineItem, _ int) templates.LineItemRow {
		resolved := services.ResolveLaborRate(it.LaborRate, projectRate)
		return templates.LineItemRow{
			ID:           it.ID,
			Description:  it.Description,
			Category:     string(it.Category),
			Quantity:     it.Quantity,
			Unit:         it.Unit,
			UnitPrice:    it.UnitPrice,
			LaborHours:   it.LaborHours,
			LaborRate:    it.LaborRate,
			ResolvedRate: resolved,
			IsDemolition: it.Category.IsDemolition(),
			LineItemCost: services.CalcLineItem(it.Quantity, it.UnitPrice, it.LaborHours, resolved),
		}
	})
}

// materialOptions lists the catalog for the add item form.
func materialOptions(app core.App) []templates.MaterialOption {
	records, err := app.FindRecordsByFilter("materials", "", "category,name", 0, 0, nil)
	if err != nil {
		log.Printf("estimate_editor: could not load materials: %v", err)
		return nil
	}
	return lo.Map(records, func(r *core.Record, _ int) templates.MaterialOption {
		return templates.MaterialOption{
			ID:         r.Id,
			Name:       r.GetString("name"),
			Category:   r.GetString("category"),
			Unit:       r.GetString("unit"),
			UnitPrice:  r.GetFloat("unit_price"),
			LaborHours: r.GetFloat("labor_hours"),
		}
	})
}

// buildEditor assembles the line item editor for a project or draft snapshot.
func buildEditor(app core.App, basePath string, est services.ProjectEstimate, errs map[string]string) templates.EstimateEditor {
	return templates.EstimateEditor{
		BasePath:        basePath,
		LaborRate:       est.LaborRate,
		OverheadPct:     est.OverheadPct,
		ProfitPct:       est.ProfitPct,
		Items:           lineItemRows(est.SortedItems(), est.LaborRate),
		Totals:          est.Totals(),
		Materials:       materialOptions(app),
		CategoryOptions: services.CategoryOptions(),
		UnitOptions:     services.UnitOptions,
		Errors:          errs,
	}
}
