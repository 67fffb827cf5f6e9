package handlers

import (
	"log"
	"net/http"
	"slices"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/samber/lo"

	"bidestimator/services"
	"bidestimator/templates"
)

func statusBadgeClass(status string) string {
	switch status {
	case services.StatusBid:
		return "badge-info"
	case services.StatusAwarded:
		return "badge-success"
	case services.StatusLost:
		return "badge-error"
	default:
		return "badge-ghost"
	}
}

func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		status := e.Request.URL.Query().Get("status")
		if !slices.Contains(services.StatusOptions, status) {
			status = ""
		}

		filter := ""
		params := map[string]any{}
		if status != "" {
			filter = "status = {:status}"
			params["status"] = status
		}

		records, err := app.FindRecordsByFilter("projects", filter, "-created", 0, 0, params)
		if err != nil {
			log.Printf("project_list: could not query projects: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		itemRecords, err := app.FindAllRecords("line_items")
		if err != nil {
			log.Printf("project_list: could not query line items: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}
		byProject := lo.GroupBy(itemRecords, func(r *core.Record) string { return r.GetString("project") })

		items := make([]templates.ProjectListItem, 0, len(records))
		for _, rec := range records {
			est := services.ProjectEstimateFromRecords(rec, byProject[rec.Id])
			items = append(items, templates.ProjectListItem{
				ID:               rec.Id,
				EstimateNumber:   est.EstimateNumber,
				Name:             est.Name,
				ClientName:       est.ClientName,
				Status:           est.Status,
				StatusBadgeClass: statusBadgeClass(est.Status),
				ItemCount:        len(est.Items),
				GrandTotal:       est.Totals().GrandTotal,
				CreatedDate:      est.CreatedDate,
			})
		}

		data := templates.ProjectListData{
			Items:         items,
			TotalCount:    len(records),
			Status:        status,
			StatusOptions: services.StatusOptions,
		}

		var component templ.Component
		if isHTMX(e) {
			component = templates.ProjectListContent(data)
		} else {
			component = templates.ProjectListPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}
