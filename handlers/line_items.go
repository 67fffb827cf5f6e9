package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
	"bidestimator/templates"
)

// renderProjectEditor re-reads the project and renders its editor fragment,
// so totals always reflect the stored items and the current project rate.
func renderProjectEditor(e *core.RequestEvent, app core.App, projectID string, errs map[string]string) error {
	est, err := services.LoadProjectEstimate(app, projectID)
	if err != nil {
		log.Printf("line_items: reload %s: %v", projectID, err)
		return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
	}
	return templates.EstimateEditorBlock(buildEditor(app, "/projects/"+projectID, est, errs)).
		Render(e.Request.Context(), e.Response)
}

// findProjectItem loads a line item and checks it belongs to the project.
func findProjectItem(app core.App, projectID, itemID string) (*core.Record, error) {
	record, err := app.FindRecordById("line_items", itemID)
	if err != nil {
		return nil, err
	}
	if record.GetString("project") != projectID {
		return nil, errors.New("line item belongs to another project")
	}
	return record, nil
}

// setLineItemFields copies validated input onto a line item record.
func setLineItemFields(record *core.Record, in services.LineItemInput) {
	record.Set("material", in.MaterialID)
	record.Set("description", in.Description)
	record.Set("category", in.Category)
	record.Set("quantity", in.Quantity)
	record.Set("unit", in.Unit)
	record.Set("unit_price", in.UnitPrice)
	record.Set("labor_hours", in.LaborHours)
	services.SetLaborRate(record, in.LaborRate)
}

// HandleLineItemAdd appends a line item to a project, manually entered or
// taken from the catalog.
func HandleLineItemAdd(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		in, errs := lineItemFromForm(app, e.Request.Form)
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			e.Response.WriteHeader(http.StatusBadRequest)
			return renderProjectEditor(e, app, projectID, errs)
		}

		col, err := app.FindCollectionByNameOrId("line_items")
		if err != nil {
			log.Printf("line_item_add: could not find line_items collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		sortOrder, err := services.NextSortOrder(app, projectID)
		if err != nil {
			log.Printf("line_item_add: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		record := core.NewRecord(col)
		record.Set("project", projectID)
		record.Set("sort_order", sortOrder)
		setLineItemFields(record, in)

		if err := app.Save(record); err != nil {
			log.Printf("line_item_add: could not save line item: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		SetToast(e, "success", "Line item added")
		return renderProjectEditor(e, app, projectID, nil)
	}
}

// HandleLineItemPatch updates the fields present in the request. The patched
// item is validated as a whole before it is saved.
func HandleLineItemPatch(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		record, err := findProjectItem(app, projectID, itemID)
		if err != nil {
			log.Printf("line_item_patch: %s/%s: %v", projectID, itemID, err)
			return ErrorToast(e, http.StatusNotFound, "Line item not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		patch, errs := patchFromForm(e.Request.Form)
		in := services.InputFromLineItem(services.LineItemFromRecord(record)).Patched(patch)
		addFieldErrors(errs, in.Validate())
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			e.Response.WriteHeader(http.StatusBadRequest)
			return renderProjectEditor(e, app, projectID, errs)
		}

		setLineItemFields(record, in)
		if err := app.Save(record); err != nil {
			log.Printf("line_item_patch: error saving %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		SetToast(e, "info", "Item saved")
		return renderProjectEditor(e, app, projectID, nil)
	}
}

// HandleLineItemDelete removes a line item and re-renders the editor.
func HandleLineItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		itemID := e.Request.PathValue("itemId")

		record, err := findProjectItem(app, projectID, itemID)
		if err != nil {
			log.Printf("line_item_delete: %s/%s: %v", projectID, itemID, err)
			return ErrorToast(e, http.StatusNotFound, "Line item not found")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("line_item_delete: error deleting %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		SetToast(e, "success", "Item deleted")
		return renderProjectEditor(e, app, projectID, nil)
	}
}
