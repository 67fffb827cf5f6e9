package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/config"
	"bidestimator/services"
	"bidestimator/templates"
)

// HandleProjectCreate renders an empty project form with the default rates.
func HandleProjectCreate(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d := estimateDefaults(app, cfg)
		data := templates.ProjectFormData{
			Status:        services.StatusBid,
			LaborRate:     formatFloat(d.LaborRate),
			OverheadPct:   formatFloat(d.OverheadPct),
			ProfitPct:     formatFloat(d.ProfitPct),
			StatusOptions: services.StatusOptions,
			Errors:        make(map[string]string),
		}
		return renderProjectForm(e, data)
	}
}

// HandleProjectSave creates a project and assigns it the next estimate number.
func HandleProjectSave(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		d := estimateDefaults(app, cfg)
		in, errs := projectFromForm(e.Request.Form, services.RatesInput{
			LaborRate:   d.LaborRate,
			OverheadPct: d.OverheadPct,
			ProfitPct:   d.ProfitPct,
		})
		if in.Name != "" && projectNameTaken(app, in.Name, "") {
			errs["name"] = "A project with this name already exists"
		}

		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			e.Response.WriteHeader(http.StatusBadRequest)
			return renderProjectForm(e, projectFormData(e.Request.Form, in, errs))
		}

		projectsCol, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_create: could not find projects collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		number, err := services.GenerateEstimateNumber(app, time.Now())
		if err != nil {
			log.Printf("project_create: could not generate estimate number: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		record := core.NewRecord(projectsCol)
		record.Set("estimate_number", number)
		applyProject(record, in)

		if err := app.Save(record); err != nil {
			log.Printf("project_create: could not save project: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		SetToast(e, "success", "Project "+number+" created")
		return redirect(e, "/projects/"+record.Id)
	}
}
