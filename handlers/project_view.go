package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
	"bidestimator/templates"
)

// HandleProjectView shows a project with its line items and live totals.
func HandleProjectView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		est, err := services.LoadProjectEstimate(app, projectID)
		if errors.Is(err, services.ErrProjectNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}
		if err != nil {
			log.Printf("project_view: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		data := templates.ProjectViewData{
			ID:               est.ID,
			EstimateNumber:   est.EstimateNumber,
			Name:             est.Name,
			ClientName:       est.ClientName,
			ClientAddress:    est.ClientAddress,
			Status:           est.Status,
			StatusBadgeClass: statusBadgeClass(est.Status),
			Notes:            est.Notes,
			CreatedDate:      est.CreatedDate,
			Editor:           buildEditor(app, "/projects/"+est.ID, est, nil),
		}

		var component templ.Component
		if isHTMX(e) {
			component = templates.ProjectViewContent(data)
		} else {
			component = templates.ProjectViewPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}
