package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/samber/lo"

	"bidestimator/config"
	"bidestimator/services"
)

// apiLineItem is a line item with its resolved rate and computed costs.
type apiLineItem struct {
	ID                string   `json:"id,omitempty"`
	MaterialID        string   `json:"materialId,omitempty"`
	Description       string   `json:"description"`
	Category          string   `json:"category"`
	Quantity          float64  `json:"quantity"`
	Unit              string   `json:"unit"`
	UnitPrice         float64  `json:"unitPrice"`
	LaborHours        float64  `json:"laborHours"`
	LaborRate         *float64 `json:"laborRate"`
	ResolvedLaborRate float64  `json:"resolvedLaborRate"`
	SortOrder         int      `json:"sortOrder"`
	services.LineItemCost
}

type apiProject struct {
	ID             string                  `json:"id"`
	EstimateNumber string                  `json:"estimateNumber"`
	Name           string                  `json:"name"`
	ClientName     string                  `json:"clientName"`
	ClientAddress  string                  `json:"clientAddress"`
	Status         string                  `json:"status"`
	Notes          string                  `json:"notes"`
	LaborRate      float64                 `json:"laborRate"`
	OverheadPct    float64                 `json:"overheadPct"`
	ProfitPct      float64                 `json:"profitPct"`
	Items          []apiLineItem           `json:"items"`
	Totals         services.EstimateTotals `json:"totals"`
}

type apiError struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func apiLineItems(items []services.LineItem, projectRate float64) []apiLineItem {
	return lo.Map(items, func(it services.LineItem, _ int) apiLineItem {
		resolved := services.ResolveLaborRate(it.LaborRate, projectRate)
		return apiLineItem{
			ID:                it.ID,
			MaterialID:        it.MaterialID,
			Description:       it.Description,
			Category:          string(it.Category),
			Quantity:          it.Quantity,
			Unit:              it.Unit,
			UnitPrice:         it.UnitPrice,
			LaborHours:        it.LaborHours,
			LaborRate:         it.LaborRate,
			ResolvedLaborRate: resolved,
			SortOrder:         it.SortOrder,
			LineItemCost:      services.CalcLineItem(it.Quantity, it.UnitPrice, it.LaborHours, resolved),
		}
	})
}

func apiProjectFrom(est services.ProjectEstimate) apiProject {
	return apiProject{
		ID:             est.ID,
		EstimateNumber: est.EstimateNumber,
		Name:           est.Name,
		ClientName:     est.ClientName,
		ClientAddress:  est.ClientAddress,
		Status:         est.Status,
		Notes:          est.Notes,
		LaborRate:      est.LaborRate,
		OverheadPct:    est.OverheadPct,
		ProfitPct:      est.ProfitPct,
		Items:          apiLineItems(est.SortedItems(), est.LaborRate),
		Totals:         est.Totals(),
	}
}

// HandleAPIProject returns a project, its line items and freshly computed totals.
// Route: GET /api/projects/{id}
func HandleAPIProject(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		est, err := services.LoadProjectEstimate(app, e.Request.PathValue("id"))
		if errors.Is(err, services.ErrProjectNotFound) {
			return e.JSON(http.StatusNotFound, apiError{Message: "project not found"})
		}
		if err != nil {
			log.Printf("api_project: %v", err)
			return e.JSON(http.StatusInternalServerError, apiError{Message: "internal error"})
		}
		return e.JSON(http.StatusOK, apiProjectFrom(est))
	}
}

// HandleAPIEstimate runs the rollup over a posted set of line items and rates
// without storing anything.
// Route: POST /api/estimate
func HandleAPIEstimate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req services.EstimateRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return e.JSON(http.StatusBadRequest, apiError{Message: "invalid JSON body"})
		}
		if err := req.Validate(); err != nil {
			return e.JSON(http.StatusBadRequest, apiError{
				Message: "validation failed",
				Errors:  services.FieldErrors(err),
			})
		}

		items := make([]services.LineItem, len(req.Items))
		for i, in := range req.Items {
			items[i] = services.LineItem{
				MaterialID:   in.MaterialID,
				Description:  in.Description,
				Unit:         in.Unit,
				EstimateLine: in.Line(),
			}
			items[i].SortOrder = i + 1
		}

		return e.JSON(http.StatusOK, map[string]any{
			"items":  apiLineItems(items, req.LaborRate),
			"totals": req.Totals(),
		})
	}
}

// HandleAPIDraft returns the caller's draft with its totals.
// Route: GET /api/draft
func HandleAPIDraft(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, err := loadDraft(app, draftSession(e.Request), estimateDefaults(app, cfg))
		if err != nil {
			log.Printf("api_draft: %v", err)
			return e.JSON(http.StatusInternalServerError, apiError{Message: "could not read draft"})
		}
		return e.JSON(http.StatusOK, map[string]any{
			"draft":  d,
			"totals": d.Totals(),
		})
	}
}
