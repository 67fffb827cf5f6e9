package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
	"bidestimator/templates"
)

// BuildSidebarData constructs the navigation counters for the current request.
// The draft counter reads the draft stored for the request's draft session.
func BuildSidebarData(r *http.Request, app core.App) templates.SidebarData {
	data := templates.SidebarData{
		ActivePath: r.URL.Path,
	}

	if n, err := app.CountRecords("projects"); err == nil {
		data.ProjectCount = int(n)
	}
	if n, err := app.CountRecords("materials"); err == nil {
		data.MaterialCount = int(n)
	}

	if session := draftSession(r); session != "" {
		d, err := loadDraft(app, session, services.EstimateDefaults{})
		if err != nil {
			log.Printf("sidebar: %v", err)
		} else {
			data.DraftItemCount = len(d.Items)
		}
	}

	return data
}
