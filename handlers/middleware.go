package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
	"bidestimator/templates"
)

type contextKey string

const HeaderDataKey contextKey = "headerData"
const SidebarDataKey contextKey = "sidebarData"

// recentProjectLimit caps the header's recent projects menu.
const recentProjectLimit = 8

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

// GetSidebarData extracts the pre-built SidebarData from the request context.
func GetSidebarData(r *http.Request) templates.SidebarData {
	if val, ok := r.Context().Value(SidebarDataKey).(templates.SidebarData); ok {
		return val
	}
	return templates.SidebarData{}
}

// BuildHeaderData loads the company block and the most recently updated projects.
func BuildHeaderData(app core.App) templates.HeaderData {
	company := services.LoadCompanyInfo(app)
	data := templates.HeaderData{
		CompanyName:   company.Name,
		LicenseNumber: company.LicenseNumber,
	}

	records, err := app.FindRecordsByFilter("projects", "", "-updated", recentProjectLimit, 0, nil)
	if err != nil {
		return data
	}
	for _, rec := range records {
		data.Projects = append(data.Projects, templates.ProjectSelectorItem{
			ID:             rec.Id,
			Name:           rec.GetString("name"),
			EstimateNumber: rec.GetString("estimate_number"),
		})
	}
	return data
}

// LayoutDataMiddleware builds HeaderData and SidebarData once per request and
// stores them in the request context for handlers and templates.
func LayoutDataMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		// JSON, admin UI, static and HTMX fragment requests never render the layout
		if isHTMX(e) || skipLayoutData(e.Request.URL.Path) {
			return e.Next()
		}

		ctx := context.WithValue(e.Request.Context(), HeaderDataKey, BuildHeaderData(app))
		ctx = context.WithValue(ctx, SidebarDataKey, BuildSidebarData(e.Request, app))
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}

func skipLayoutData(path string) bool {
	for _, prefix := range []string{"/api/", "/_/", "/static/"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return strings.Contains(path, "/export/")
}
