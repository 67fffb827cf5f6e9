package handlers

import (
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
	"bidestimator/templates"
)

// projectFromForm reads and validates the project form. Blank rate fields keep
// the values in current.
func projectFromForm(form url.Values, current services.RatesInput) (services.ProjectInput, map[string]string) {
	in := services.ProjectInput{
		Name:          strings.TrimSpace(form.Get("name")),
		ClientName:    strings.TrimSpace(form.Get("client_name")),
		ClientAddress: strings.TrimSpace(form.Get("client_address")),
		Status:        strings.TrimSpace(form.Get("status")),
		Notes:         strings.TrimSpace(form.Get("notes")),
	}
	if in.Status == "" {
		in.Status = services.StatusBid
	}

	rates, errs := ratesFromForm(form, projectRateKeys, current)
	in.RatesInput = rates
	addFieldErrors(errs, in.Validate())
	return in, errs
}

// projectNameTaken reports whether another project already uses name.
func projectNameTaken(app core.App, name, exceptID string) bool {
	existing, _ := app.FindRecordsByFilter(
		"projects",
		"name = {:name} && id != {:id}",
		"", 1, 0,
		map[string]any{"name": name, "id": exceptID},
	)
	return len(existing) > 0
}

// applyProject copies validated form input onto a project record.
func applyProject(record *core.Record, in services.ProjectInput) {
	record.Set("name", in.Name)
	record.Set("client_name", in.ClientName)
	record.Set("client_address", in.ClientAddress)
	record.Set("status", in.Status)
	record.Set("notes", in.Notes)
	record.Set("labor_rate", in.LaborRate)
	record.Set("overhead_pct", in.OverheadPct)
	record.Set("profit_pct", in.ProfitPct)
}

// projectFormData echoes submitted values back into the form.
func projectFormData(form url.Values, in services.ProjectInput, errs map[string]string) templates.ProjectFormData {
	echo := func(key string, v float64) string {
		if s := strings.TrimSpace(form.Get(key)); s != "" {
			return s
		}
		return formatFloat(v)
	}
	return templates.ProjectFormData{
		Name:          in.Name,
		ClientName:    in.ClientName,
		ClientAddress: in.ClientAddress,
		Status:        in.Status,
		Notes:         in.Notes,
		LaborRate:     echo("labor_rate", in.LaborRate),
		OverheadPct:   echo("overhead_pct", in.OverheadPct),
		ProfitPct:     echo("profit_pct", in.ProfitPct),
		StatusOptions: services.StatusOptions,
		Errors:        errs,
	}
}

func renderProjectForm(e *core.RequestEvent, data templates.ProjectFormData) error {
	var component templ.Component
	if isHTMX(e) {
		component = templates.ProjectFormContent(data)
	} else {
		component = templates.ProjectFormPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}
