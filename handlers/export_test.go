package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bidestimator/services"
	"bidestimator/testhelpers"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"spaces to hyphens", "My Estimate File", "My-Estimate-File"},
		{"slashes to hyphens", "path/to/file", "path-to-file"},
		{"backslashes", "path\\to\\file", "path-to-file"},
		{"colons", "file:name", "file-name"},
		{"quotes dropped", `say "hi"`, "say-hi"},
		{"mixed", "A / B \\ C : D", "A---B---C---D"},
		{"no special chars", "simple", "simple"},
		{"empty", "", "estimate"},
		{"whitespace only", "   ", "estimate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeFilename(tt.input)
			if got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExportFilename(t *testing.T) {
	year := time.Now().Year()

	withNumber := services.ExportData{Title: "Kitchen", EstimateNumber: "EST-2026-0007"}
	if got, want := exportFilename(withNumber, "xlsx"), fmt.Sprintf("Estimate_EST-2026-0007_%d.xlsx", year); got != want {
		t.Errorf("exportFilename = %q, want %q", got, want)
	}

	titleOnly := services.ExportData{Title: "Main St Retail"}
	if got, want := exportFilename(titleOnly, "pdf"), fmt.Sprintf("Estimate_Main-St-Retail_%d.pdf", year); got != want {
		t.Errorf("exportFilename = %q, want %q", got, want)
	}
}

func TestLoadExportData_WithItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCompanySettings(t, app, "Spark Electric")
	proj := testhelpers.CreateTestProject(t, app, "Export Project")
	testhelpers.CreateTestLineItem(t, app, proj.Id, string(services.CategoryWire), 4, 89.97, 16)
	testhelpers.CreateTestLineItem(t, app, proj.Id, string(services.CategoryDemolition), 1, 0, 16)

	data, err := loadExportData(app, proj.Id)
	if err != nil {
		t.Fatalf("loadExportData error: %v", err)
	}
	if data.Title != "Export Project" {
		t.Errorf("title = %q, want 'Export Project'", data.Title)
	}
	if data.Company.Name != "Spark Electric" {
		t.Errorf("company = %q, want 'Spark Electric'", data.Company.Name)
	}
	if len(data.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(data.Rows))
	}
	if data.Rows[0].Index != "1" || data.Rows[0].Category != services.CategoryWire {
		t.Errorf("first row = %+v, want the wire item first", data.Rows[0])
	}
	if data.Totals.DemolitionSubtotal != 1040 {
		t.Errorf("demolition subtotal = %v, want 1040", data.Totals.DemolitionSubtotal)
	}
	if data.Totals.DirectCost != data.Totals.MaterialSubtotal+data.Totals.LaborSubtotal+data.Totals.DemolitionSubtotal {
		t.Error("direct cost must equal the sum of the three subtotals")
	}
}

func TestLoadExportData_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, err := loadExportData(app, "nonexistent")
	if err == nil {
		t.Error("expected error for nonexistent project")
	}
}

func TestHandleExportExcel_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Excel Export Project")
	testhelpers.CreateTestLineItem(t, app, proj.Id, string(services.CategoryLighting), 6, 42.5, 3)
	handler := HandleExportExcel(app)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/projects/%s/export/excel", proj.Id), nil)
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	ct := rec.Header().Get("Content-Type")
	if !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("expected Excel content type, got %q", ct)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "attachment") || !strings.Contains(cd, "Excel-Export-Project") {
		t.Errorf("unexpected disposition %q", cd)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected non-empty body")
	}
}

func TestHandleExportPDF_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "PDF Export Project")
	testhelpers.CreateTestLineItem(t, app, proj.Id, string(services.CategoryDevices), 12, 4.79, 3.5)
	handler := HandleExportPDF(app)
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/projects/%s/export/pdf", proj.Id), nil)
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	ct := rec.Header().Get("Content-Type")
	if ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Error("expected a PDF body")
	}
}

func TestHandleExportExcel_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleExportExcel(app)
	req := httptest.NewRequest(http.MethodGet, "/projects/nonexistent/export/excel", nil)
	req.SetPathValue("id", "nonexistent")
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleExportPDF_MissingID(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleExportPDF(app)
	req := httptest.NewRequest(http.MethodGet, "/projects//export/pdf", nil)
	rec := httptest.NewRecorder()
	e := newTestRequestEvent(app, req, rec)
	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
