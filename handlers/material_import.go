package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
	"bidestimator/templates"
)

const maxImportUpload = 10 << 20

// HandleMaterialImportPage renders the upload form.
// Route: GET /materials/import
func HandleMaterialImportPage(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.MaterialImportData{Fields: services.MaterialTemplateFields()}

		var component templ.Component
		if isHTMX(e) {
			component = templates.MaterialImportContent(data)
		} else {
			component = templates.MaterialImportPage(data, GetHeaderData(e.Request), GetSidebarData(e.Request))
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleMaterialValidate receives a file upload, validates every row and
// returns the results as an HTMX partial. Nothing is written yet.
// Route: POST /materials/import
func HandleMaterialValidate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxImportUpload); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}

		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		result, err := services.ValidateMaterialFile(file, header.Filename)
		if err != nil {
			log.Printf("material_validate: %v", err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		data := templates.MaterialValidationData{Result: result}
		if result.ErrorRows == 0 {
			b, err := json.Marshal(result.ParsedRows)
			if err != nil {
				log.Printf("material_validate: marshal parsed rows: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
			}
			data.ParsedRowsJSON = string(b)
		} else {
			b, err := json.Marshal(result.Errors)
			if err != nil {
				log.Printf("material_validate: marshal errors: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
			}
			data.ErrorsJSON = string(b)
		}

		return templates.MaterialValidationResults(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleMaterialErrorReport downloads the validation errors as an Excel file.
// Route: POST /materials/import/errors
func HandleMaterialErrorReport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return e.String(http.StatusBadRequest, "Invalid form data")
		}

		var errs []services.ValidationError
		if err := json.Unmarshal([]byte(e.Request.FormValue("errors_json")), &errs); err != nil {
			return e.String(http.StatusBadRequest, "Invalid error data")
		}

		xlsxBytes, err := services.GenerateErrorReport(errs)
		if err != nil {
			log.Printf("material_error_report: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate error report")
		}

		filename := fmt.Sprintf("Materials_Errors_%s.xlsx", time.Now().Format("2006-01-02"))
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleMaterialImportCommit re-validates and writes the rows serialized by
// the validation step.
// Route: POST /materials/import/commit
func HandleMaterialImportCommit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		parsedJSON := e.Request.FormValue("parsed_rows_json")
		if parsedJSON == "" {
			return ErrorToast(e, http.StatusBadRequest,
				"File data missing. Please re-upload and try again.")
		}

		var rows []services.MaterialInput
		if err := json.Unmarshal([]byte(parsedJSON), &rows); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid parsed data")
		}

		result, err := services.CommitMaterialImport(app, rows)
		if err != nil {
			log.Printf("material_import_commit: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
		}

		if result.Failed == 0 {
			SetToast(e, "success", fmt.Sprintf("%d materials imported", result.Created+result.Updated))
		} else {
			SetToast(e, "error", fmt.Sprintf("%d rows could not be imported", result.Failed))
		}
		return templates.MaterialImportOutcome(result).Render(e.Request.Context(), e.Response)
	}
}

// HandleMaterialTemplateDownload serves the Excel template for catalog import.
// Route: GET /materials/template
func HandleMaterialTemplateDownload(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		xlsxBytes, err := services.GenerateMaterialTemplate()
		if err != nil {
			log.Printf("material_template: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}

		filename := fmt.Sprintf("Materials_Template_%d.xlsx", time.Now().Year())
		e.Response.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition",
			fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
