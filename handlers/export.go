package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
)

// loadExportData reads the project snapshot and company block and runs the
// rollup once for both exporters.
func loadExportData(app core.App, projectID string) (services.ExportData, error) {
	est, err := services.LoadProjectEstimate(app, projectID)
	if err != nil {
		return services.ExportData{}, err
	}
	return services.BuildExportData(est, services.LoadCompanyInfo(app)), nil
}

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-", `"`, "", "\n", "", "\r", "").Replace(s)
	if s == "" {
		return "estimate"
	}
	return s
}

// exportFilename is "<estimate number or title>_<year>.<ext>".
func exportFilename(data services.ExportData, ext string) string {
	base := data.EstimateNumber
	if base == "" {
		base = data.Title
	}
	return fmt.Sprintf("Estimate_%s_%d.%s", sanitizeFilename(base), time.Now().Year(), ext)
}

func exportError(e *core.RequestEvent, logName string, err error) error {
	if errors.Is(err, services.ErrProjectNotFound) {
		return e.String(http.StatusNotFound, "Project not found")
	}
	log.Printf("%s: %v", logName, err)
	return e.String(http.StatusInternalServerError, "Failed to load project")
}

// HandleExportExcel downloads the estimate workbook for a project.
func HandleExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID")
		}

		data, err := loadExportData(app, projectID)
		if err != nil {
			return exportError(e, "export_excel", err)
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "xlsx")))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleExportPDF downloads the printable estimate for a project.
func HandleExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if projectID == "" {
			return e.String(http.StatusBadRequest, "Missing project ID")
		}

		data, err := loadExportData(app, projectID)
		if err != nil {
			return exportError(e, "export_pdf", err)
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: failed to generate: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF file")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(data, "pdf")))
		e.Response.Write(pdfBytes)
		return nil
	}
}
