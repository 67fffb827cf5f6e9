package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/config"
	"bidestimator/services"
	"bidestimator/templates"
)

func draftViewData(app core.App, d *services.Draft, errs map[string]string) templates.DraftViewData {
	return templates.DraftViewData{
		Name:          d.Name,
		ClientName:    d.ClientName,
		ClientAddress: d.ClientAddress,
		Editor:        buildEditor(app, "/draft", d.Estimate(), errs),
	}
}

// currentDraft loads the draft of the request's session, creating the session
// cookie when needed.
func currentDraft(e *core.RequestEvent, app core.App, cfg *config.Config) (*services.Draft, string, error) {
	session := ensureDraftSession(e)
	d, err := loadDraft(app, session, estimateDefaults(app, cfg))
	return d, session, err
}

func renderDraftEditor(e *core.RequestEvent, app core.App, d *services.Draft, errs map[string]string) error {
	return templates.EstimateEditorBlock(draftViewData(app, d, errs).Editor).
		Render(e.Request.Context(), e.Response)
}

// HandleDraftView shows the draft estimate of the current browser session.
func HandleDraftView(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, _, err := currentDraft(e, app, cfg)
		if err != nil {
			log.Printf("draft_view: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		data := draftViewData(app, d, nil)
		var component templ.Component
		if isHTMX(e) {
			component = templates.DraftContent(data)
		} else {
			component = templates.DraftPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleDraftItemAdd appends an item to the draft under a new temporary id.
func HandleDraftItemAdd(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, session, err := currentDraft(e, app, cfg)
		if err != nil {
			log.Printf("draft_item_add: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		in, errs := lineItemFromForm(app, e.Request.Form)
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			e.Response.WriteHeader(http.StatusBadRequest)
			return renderDraftEditor(e, app, d, errs)
		}

		d.Add(in.DraftItem())
		if err := saveDraft(app, session, d); err != nil {
			log.Printf("draft_item_add: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		SetToast(e, "success", "Line item added")
		return renderDraftEditor(e, app, d, nil)
	}
}

// HandleDraftItemPatch merges the submitted fields into a draft item.
func HandleDraftItemPatch(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, session, err := currentDraft(e, app, cfg)
		if err != nil {
			log.Printf("draft_item_patch: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		tempID := e.Request.PathValue("itemId")
		item, err := d.Item(tempID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Line item not found")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		patch, errs := patchFromForm(e.Request.Form)
		addFieldErrors(errs, item.Input().Patched(patch).Validate())
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			e.Response.WriteHeader(http.StatusBadRequest)
			return renderDraftEditor(e, app, d, errs)
		}

		if _, err := d.Update(tempID, patch); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Line item not found")
		}
		if err := saveDraft(app, session, d); err != nil {
			log.Printf("draft_item_patch: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		SetToast(e, "info", "Item saved")
		return renderDraftEditor(e, app, d, nil)
	}
}

// HandleDraftItemRemove removes an item from the draft.
func HandleDraftItemRemove(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, session, err := currentDraft(e, app, cfg)
		if err != nil {
			log.Printf("draft_item_remove: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		if err := d.Remove(e.Request.PathValue("itemId")); errors.Is(err, services.ErrDraftItemNotFound) {
			return ErrorToast(e, http.StatusNotFound, "Line item not found")
		}
		if err := saveDraft(app, session, d); err != nil {
			log.Printf("draft_item_remove: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		SetToast(e, "success", "Item removed")
		return renderDraftEditor(e, app, d, nil)
	}
}

// HandleDraftRates changes the draft's labor rate and markups. Items without
// their own rate follow the new labor rate.
func HandleDraftRates(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, session, err := currentDraft(e, app, cfg)
		if err != nil {
			log.Printf("draft_rates: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		rates, errs := ratesFromForm(e.Request.Form, projectRateKeys, services.RatesInput{
			LaborRate:   d.LaborRate,
			OverheadPct: d.OverheadPct,
			ProfitPct:   d.ProfitPct,
		})
		if len(errs) > 0 {
			e.Response.WriteHeader(http.StatusBadRequest)
			return templates.DraftContent(draftViewData(app, d, errs)).Render(e.Request.Context(), e.Response)
		}

		d.LaborRate, d.OverheadPct, d.ProfitPct = rates.LaborRate, rates.OverheadPct, rates.ProfitPct
		if err := saveDraft(app, session, d); err != nil {
			log.Printf("draft_rates: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}
		return templates.DraftContent(draftViewData(app, d, nil)).Render(e.Request.Context(), e.Response)
	}
}

// HandleDraftDiscard deletes the stored draft and shows an empty one.
func HandleDraftDiscard(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if session := draftSession(e.Request); session != "" {
			if err := deleteDraft(app, session); err != nil {
				log.Printf("draft_discard: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
			}
		}
		d := estimateDefaults(app, cfg)
		SetToast(e, "info", "Draft discarded")
		return templates.DraftContent(draftViewData(app, services.NewDraft(d.LaborRate, d.OverheadPct, d.ProfitPct), nil)).
			Render(e.Request.Context(), e.Response)
	}
}

// HandleDraftCommit saves the draft as a new project with its line items in
// one transaction, then discards the draft.
func HandleDraftCommit(app *pocketbase.PocketBase, cfg *config.Config) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		d, session, err := currentDraft(e, app, cfg)
		if err != nil {
			log.Printf("draft_commit: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		d.Name = strings.TrimSpace(e.Request.FormValue("name"))
		d.ClientName = strings.TrimSpace(e.Request.FormValue("client_name"))
		d.ClientAddress = strings.TrimSpace(e.Request.FormValue("client_address"))

		in := services.ProjectInput{
			Name:          d.Name,
			ClientName:    d.ClientName,
			ClientAddress: d.ClientAddress,
			Status:        services.StatusBid,
			RatesInput: services.RatesInput{
				LaborRate:   d.LaborRate,
				OverheadPct: d.OverheadPct,
				ProfitPct:   d.ProfitPct,
			},
		}
		errs := services.FieldErrors(in.Validate())
		if in.Name != "" && projectNameTaken(app, in.Name, "") {
			errs["name"] = "A project with this name already exists"
		}
		if len(d.Items) == 0 {
			errs["_"] = "Add at least one line item before saving"
		}
		if len(errs) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			e.Response.WriteHeader(http.StatusBadRequest)
			data := draftViewData(app, d, errs)
			return templates.DraftPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request)).
				Render(e.Request.Context(), e.Response)
		}

		projectID, number, err := commitDraft(app, d, in, time.Now())
		if err != nil {
			log.Printf("draft_commit: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		if err := deleteDraft(app, session); err != nil {
			log.Printf("draft_commit: project %s saved but draft not removed: %v", projectID, err)
		}

		SetToast(e, "success", "Project "+number+" created from draft")
		return redirect(e, "/projects/"+projectID)
	}
}

// commitDraft writes the project and its items. Nothing is stored when any
// save fails.
func commitDraft(app core.App, d *services.Draft, in services.ProjectInput, now time.Time) (string, string, error) {
	var projectID, number string
	err := app.RunInTransaction(func(txApp core.App) error {
		projectsCol, err := txApp.FindCollectionByNameOrId("projects")
		if err != nil {
			return fmt.Errorf("projects collection not found: %w", err)
		}
		itemsCol, err := txApp.FindCollectionByNameOrId("line_items")
		if err != nil {
			return fmt.Errorf("line_items collection not found: %w", err)
		}

		number, err = services.GenerateEstimateNumber(txApp, now)
		if err != nil {
			return err
		}

		project := core.NewRecord(projectsCol)
		project.Set("estimate_number", number)
		applyProject(project, in)
		if err := txApp.Save(project); err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		projectID = project.Id

		for _, it := range d.Estimate().SortedItems() {
			rec := core.NewRecord(itemsCol)
			rec.Set("project", project.Id)
			rec.Set("sort_order", it.SortOrder)
			setLineItemFields(rec, services.InputFromLineItem(it))
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("save line item %q: %w", it.Description, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return projectID, number, nil
}
