package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
)

// ErrProjectNotFound is returned when a project id does not resolve.
var ErrProjectNotFound = errors.New("project not found")

// LaborRateFromRecord reads the nullable labor_rate JSON field of a line item.
// Null, empty or non-numeric values mean the item inherits the project rate.
func LaborRateFromRecord(r *core.Record) *float64 {
	raw, ok := r.Get("labor_rate").(types.JSONRaw)
	if !ok || len(raw) == 0 {
		return nil
	}
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

// SetLaborRate writes the nullable labor_rate field.
func SetLaborRate(r *core.Record, rate *float64) {
	if rate == nil {
		r.Set("labor_rate", nil)
		return
	}
	r.Set("labor_rate", *rate)
}

// LineItemFromRecord converts a line_items record.
func LineItemFromRecord(r *core.Record) LineItem {
	return LineItem{
		ID:          r.Id,
		MaterialID:  r.GetString("material"),
		Description: r.GetString("description"),
		Unit:        r.GetString("unit"),
		EstimateLine: EstimateLine{
			Quantity:   r.GetFloat("quantity"),
			UnitPrice:  r.GetFloat("unit_price"),
			LaborHours: r.GetFloat("labor_hours"),
			LaborRate:  LaborRateFromRecord(r),
			Category:   Category(r.GetString("category")),
			SortOrder:  r.GetInt("sort_order"),
		},
	}
}

// ProjectEstimateFromRecords builds a snapshot from a project record and its
// line item records.
func ProjectEstimateFromRecords(project *core.Record, items []*core.Record) ProjectEstimate {
	createdDate := "—"
	if dt := project.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("02 Jan 2006")
	}

	p := ProjectEstimate{
		ID:             project.Id,
		EstimateNumber: project.GetString("estimate_number"),
		Name:           project.GetString("name"),
		ClientName:     project.GetString("client_name"),
		ClientAddress:  project.GetString("client_address"),
		Status:         project.GetString("status"),
		Notes:          project.GetString("notes"),
		CreatedDate:    createdDate,
		LaborRate:      project.GetFloat("labor_rate"),
		OverheadPct:    project.GetFloat("overhead_pct"),
		ProfitPct:      project.GetFloat("profit_pct"),
		Items:          make([]LineItem, 0, len(items)),
	}
	for _, r := range items {
		p.Items = append(p.Items, LineItemFromRecord(r))
	}
	p.Items = p.SortedItems()
	return p
}

// LoadProjectEstimate reads a project and all of its line items.
func LoadProjectEstimate(app core.App, projectID string) (ProjectEstimate, error) {
	project, err := app.FindRecordById("projects", projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return ProjectEstimate{}, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
	}
	if err != nil {
		return ProjectEstimate{}, fmt.Errorf("load project %s: %w", projectID, err)
	}

	items, err := app.FindRecordsByFilter(
		"line_items",
		"project = {:projectId}",
		"sort_order,id",
		0, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil {
		return ProjectEstimate{}, fmt.Errorf("load line items: %w", err)
	}

	return ProjectEstimateFromRecords(project, items), nil
}

// NextSortOrder returns max(sort_order)+1 for the project's line items.
func NextSortOrder(app core.App, projectID string) (int, error) {
	items, err := app.FindRecordsByFilter(
		"line_items",
		"project = {:projectId}",
		"-sort_order",
		1, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil {
		return 0, fmt.Errorf("load sort order: %w", err)
	}
	if len(items) == 0 {
		return 1, nil
	}
	return items[0].GetInt("sort_order") + 1, nil
}

// LoadCompanyInfo reads the company_settings singleton. A missing record
// yields an empty block.
func LoadCompanyInfo(app core.App) CompanyInfo {
	records, err := app.FindRecordsByFilter("company_settings", "", "", 1, 0, nil)
	if err != nil || len(records) == 0 {
		return CompanyInfo{}
	}
	r := records[0]
	return CompanyInfo{
		Name:          r.GetString("company_name"),
		Address:       r.GetString("address"),
		Phone:         r.GetString("phone"),
		LicenseNumber: r.GetString("license_number"),
	}
}

// EstimateDefaults holds the rates a new project or draft starts with.
type EstimateDefaults struct {
	LaborRate   float64
	OverheadPct float64
	ProfitPct   float64
}

// LoadEstimateDefaults reads the default rates from company_settings, falling
// back to fallback when no settings record exists.
func LoadEstimateDefaults(app core.App, fallback EstimateDefaults) EstimateDefaults {
	records, err := app.FindRecordsByFilter("company_settings", "", "", 1, 0, nil)
	if err != nil || len(records) == 0 {
		return fallback
	}
	r := records[0]
	return EstimateDefaults{
		LaborRate:   r.GetFloat("default_labor_rate"),
		OverheadPct: r.GetFloat("default_overhead_pct"),
		ProfitPct:   r.GetFloat("default_profit_pct"),
	}
}
