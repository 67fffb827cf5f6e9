package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/config"
	"bidestimator/services"
	"bidestimator/templates"
)

// findSettingsRecord returns the company_settings singleton, creating it in
// memory when missing.
func findSettingsRecord(app core.App) (*core.Record, error) {
	records, err := app.FindRecordsByFilter("company_settings", "", "", 1, 0, nil)
	if err != nil {
		return nil, err
	}
	if len(records) > 0 {
		return records[0], nil
	}
	col, err := app.FindCollectionByNameOrId("company_settings")
	if err != nil {
		return nil, err
	}
	return core.NewRecord(col), nil
}

func renderSettings(e *core.RequestEvent, data templates.SettingsData) error {
	var component templ.Component
	if isHTMX(e) {
		component = templates.SettingsContent(data)
	} else {
		component = templates.SettingsPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}

// HandleSettings shows the company block and default rates.
func HandleSettings(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		company := services.LoadCompanyInfo(app)
		d := estimateDefaults(app, cfg)
		data := templates.SettingsData{
			CompanyName:        company.Name,
			Address:            company.Address,
			Phone:              company.Phone,
			LicenseNumber:      company.LicenseNumber,
			DefaultLaborRate:   formatFloat(d.LaborRate),
			DefaultOverheadPct: formatFloat(d.OverheadPct),
			DefaultProfitPct:   formatFloat(d.ProfitPct),
		}
		return renderSettings(e, data)
	}
}

// HandleSettingsSave stores the company block and default rates. Existing
// projects keep their own rates.
func HandleSettingsSave(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		form := e.Request.Form

		d := estimateDefaults(app, cfg)
		rates, errs := ratesFromForm(form, settingsRateKeys, services.RatesInput{
			LaborRate:   d.LaborRate,
			OverheadPct: d.OverheadPct,
			ProfitPct:   d.ProfitPct,
		})

		companyName := strings.TrimSpace(form.Get("company_name"))
		if companyName == "" {
			errs["company_name"] = "Company name is required"
		}

		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			e.Response.WriteHeader(http.StatusBadRequest)
			return renderSettings(e, templates.SettingsData{
				CompanyName:        companyName,
				Address:            strings.TrimSpace(form.Get("address")),
				Phone:              strings.TrimSpace(form.Get("phone")),
				LicenseNumber:      strings.TrimSpace(form.Get("license_number")),
				DefaultLaborRate:   form.Get("default_labor_rate"),
				DefaultOverheadPct: form.Get("default_overhead_pct"),
				DefaultProfitPct:   form.Get("default_profit_pct"),
				Errors:             errs,
			})
		}

		record, err := findSettingsRecord(app)
		if err != nil {
			log.Printf("settings_save: could not load company settings: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}
		record.Set("company_name", companyName)
		record.Set("address", strings.TrimSpace(form.Get("address")))
		record.Set("phone", strings.TrimSpace(form.Get("phone")))
		record.Set("license_number", strings.TrimSpace(form.Get("license_number")))
		record.Set("default_labor_rate", rates.LaborRate)
		record.Set("default_overhead_pct", rates.OverheadPct)
		record.Set("default_profit_pct", rates.ProfitPct)

		if err := app.Save(record); err != nil {
			log.Printf("settings_save: could not save company settings: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		SetToast(e, "success", "Settings saved")
		return redirect(e, "/settings")
	}
}
