package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
	"bidestimator/templates"
)

// HandleProjectEdit renders the project form filled from the stored record.
func HandleProjectEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_edit: could not find project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		data := templates.ProjectFormData{
			ID:             record.Id,
			IsEdit:         true,
			EstimateNumber: record.GetString("estimate_number"),
			Name:           record.GetString("name"),
			ClientName:     record.GetString("client_name"),
			ClientAddress:  record.GetString("client_address"),
			Status:         record.GetString("status"),
			Notes:          record.GetString("notes"),
			LaborRate:      formatFloat(record.GetFloat("labor_rate")),
			OverheadPct:    formatFloat(record.GetFloat("overhead_pct")),
			ProfitPct:      formatFloat(record.GetFloat("profit_pct")),
			StatusOptions:  services.StatusOptions,
			Errors:         make(map[string]string),
		}
		return renderProjectForm(e, data)
	}
}

// HandleProjectUpdate saves the project form. Line items that never set their
// own labor rate follow a changed project rate on the next read.
func HandleProjectUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		record, err := app.FindRecordById("projects", projectID)
		if err != nil {
			log.Printf("project_update: could not find project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		in, errs := projectFromForm(e.Request.Form, services.RatesInput{
			LaborRate:   record.GetFloat("labor_rate"),
			OverheadPct: record.GetFloat("overhead_pct"),
			ProfitPct:   record.GetFloat("profit_pct"),
		})
		if in.Name != "" && projectNameTaken(app, in.Name, projectID) {
			errs["name"] = "A project with this name already exists"
		}

		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			data := projectFormData(e.Request.Form, in, errs)
			data.ID = projectID
			data.IsEdit = true
			data.EstimateNumber = record.GetString("estimate_number")
			e.Response.WriteHeader(http.StatusBadRequest)
			return renderProjectForm(e, data)
		}

		applyProject(record, in)
		if err := app.Save(record); err != nil {
			log.Printf("project_update: could not save project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		SetToast(e, "success", "Project updated")
		return redirect(e, "/projects/"+projectID)
	}
}
