package handlers

import (
	"log"
	"net/http"
	"slices"
	"strings"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/samber/lo"

	"bidestimator/services"
	"bidestimator/templates"
)

func materialListData(app core.App, category string, form services.MaterialInput, errs map[string]string) (templates.MaterialListData, error) {
	filter := ""
	params := map[string]any{}
	if category != "" {
		filter = "category = {:category}"
		params["category"] = category
	}

	records, err := app.FindRecordsByFilter("materials", filter, "category,name", 0, 0, params)
	if err != nil {
		return templates.MaterialListData{}, err
	}

	if form.Category == "" {
		form.Category = string(services.CategoryWire)
	}
	if form.Unit == "" {
		form.Unit = services.UnitOptions[0]
	}

	return templates.MaterialListData{
		Items: lo.Map(records, func(r *core.Record, _ int) templates.MaterialListItem {
			return templates.MaterialListItem{
				ID:         r.Id,
				Name:       r.GetString("name"),
				Category:   r.GetString("category"),
				Unit:       r.GetString("unit"),
				UnitPrice:  r.GetFloat("unit_price"),
				LaborHours: r.GetFloat("labor_hours"),
			}
		}),
		TotalCount:      len(records),
		Category:        category,
		CategoryOptions: services.CategoryOptions(),
		UnitOptions:     services.UnitOptions,
		Form:            form,
		Errors:          errs,
	}, nil
}

func renderMaterialList(e *core.RequestEvent, data templates.MaterialListData) error {
	var component templ.Component
	if isHTMX(e) {
		component = templates.MaterialListContent(data)
	} else {
		component = templates.MaterialListPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
	}
	return component.Render(e.Request.Context(), e.Response)
}

// HandleMaterialList shows the catalog, optionally filtered by category.
func HandleMaterialList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		category := e.Request.URL.Query().Get("category")
		if !slices.Contains(services.CategoryOptions(), category) {
			category = ""
		}

		data, err := materialListData(app, category, services.MaterialInput{}, nil)
		if err != nil {
			log.Printf("material_list: could not query materials: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}
		return renderMaterialList(e, data)
	}
}

// HandleMaterialCreate adds one material to the catalog.
func HandleMaterialCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		form := e.Request.Form

		errs := make(map[string]string)
		in := services.MaterialInput{
			Name:     strings.TrimSpace(form.Get("name")),
			Category: strings.TrimSpace(form.Get("category")),
			Unit:     strings.TrimSpace(form.Get("unit")),
		}
		for _, f := range []struct {
			key string
			dst *float64
		}{
			{"unit_price", &in.UnitPrice},
			{"labor_hours", &in.LaborHours},
		} {
			v, _, err := formFloat(form, f.key)
			if err != nil {
				errs[f.key] = notANumber
				continue
			}
			*f.dst = v
		}
		addFieldErrors(errs, in.Validate())

		if in.Name != "" {
			if _, err := app.FindFirstRecordByData("materials", "name", in.Name); err == nil {
				errs["name"] = "A material with this name already exists"
			}
		}

		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			data, err := materialListData(app, "", in, errs)
			if err != nil {
				log.Printf("material_create: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
			}
			e.Response.WriteHeader(http.StatusBadRequest)
			return renderMaterialList(e, data)
		}

		col, err := app.FindCollectionByNameOrId("materials")
		if err != nil {
			log.Printf("material_create: could not find materials collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		record := core.NewRecord(col)
		record.Set("name", in.Name)
		record.Set("category", in.Category)
		record.Set("unit", in.Unit)
		record.Set("unit_price", in.UnitPrice)
		record.Set("labor_hours", in.LaborHours)
		if err := app.Save(record); err != nil {
			log.Printf("material_create: could not save material: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		SetToast(e, "success", "Material added")
		return redirect(e, "/materials")
	}
}

// HandleMaterialDelete removes a catalog material. Line items created from it
// keep their copied values.
func HandleMaterialDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		record, err := app.FindRecordById("materials", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Material not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("material_delete: could not delete %s: %v", id, err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		SetToast(e, "success", "Material deleted")
		return e.String(http.StatusOK, "")
	}
}
