package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"bidestimator/services"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func sampleEditor() EstimateEditor {
	rate := 85.0
	return EstimateEditor{
		BasePath:    "/projects/p1",
		LaborRate:   65,
		OverheadPct: 0.15,
		ProfitPct:   0.10,
		Items: []LineItemRow{
			{
				ID: "i1", Description: "12 AWG <THHN>", Category: "Wire", Quantity: 4, Unit: "Roll",
				UnitPrice: 89.97, LaborHours: 16, ResolvedRate: 65,
				LineItemCost: services.CalcLineItem(4, 89.97, 16, 65),
			},
			{
				ID: "i2", Description: "Panel", Category: "Panels & Breakers", Quantity: 1, Unit: "Ea",
				UnitPrice: 412.5, LaborHours: 6, LaborRate: &rate, ResolvedRate: 85,
				LineItemCost: services.CalcLineItem(1, 412.5, 6, 85),
			},
		},
		Totals:          services.CalcEstimateTotals(nil, 65, 0.15, 0.10),
		CategoryOptions: services.CategoryOptions(),
		UnitOptions:     services.UnitOptions,
	}
}

func TestAllPagesParsed(t *testing.T) {
	for _, name := range []string{"project_list", "project_form", "project_view", "draft", "material_list", "material_import", "settings"} {
		if _, ok := pages[name]; !ok {
			t.Errorf("page %q not parsed", name)
		}
	}
	if _, ok := pages["layout"]; ok {
		t.Error("layout should not be parsed as a page")
	}
}

func TestProjectListPage_RendersLayoutAndRows(t *testing.T) {
	data := ProjectListData{
		Items: []ProjectListItem{
			{ID: "p1", EstimateNumber: "EST-2026-0001", Name: "Warehouse", Status: "bid", GrandTotal: 1770.8482},
		},
		TotalCount:    1,
		StatusOptions: services.StatusOptions,
	}
	header := HeaderData{CompanyName: "Bright Line Electric", LicenseNumber: "EC-1234"}
	sidebar := SidebarData{ActivePath: "/projects", ProjectCount: 1}

	html := render(t, ProjectListPage(data, header, sidebar))

	for _, want := range []string{"<!DOCTYPE html>", "Bright Line Electric", "Lic. EC-1234", "EST-2026-0001", "$1,770.85", `class="nav-link active" href="/projects"`} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestProjectListContent_NoLayout(t *testing.T) {
	html := render(t, ProjectListContent(ProjectListData{}))
	if strings.Contains(html, "<!DOCTYPE html>") {
		t.Error("content fragment should not include the layout")
	}
	if !strings.Contains(html, "No projects yet") {
		t.Error("expected empty state")
	}
}

func TestEstimateEditorBlock_EscapesAndShowsRates(t *testing.T) {
	html := render(t, EstimateEditorBlock(sampleEditor()))

	if strings.Contains(html, "<THHN>") {
		t.Error("description was not escaped")
	}
	if !strings.Contains(html, "$359.88") {
		t.Error("expected material cost for the wire row")
	}
	// override shown as value, inherited rate only as placeholder
	if !strings.Contains(html, `value="85"`) {
		t.Error("expected explicit labor rate value on the panel row")
	}
	if !strings.Contains(html, `hx-patch="/projects/p1/items/i1"`) {
		t.Error("expected patch url for item row")
	}
	if !strings.Contains(html, "Overhead (15%)") {
		t.Error("expected overhead percent label")
	}
}

func TestProjectFormPage_ShowsErrors(t *testing.T) {
	data := ProjectFormData{
		Name:          "",
		Status:        "bid",
		StatusOptions: services.StatusOptions,
		Errors:        map[string]string{"name": "cannot be blank", "overheadPct": "must be between 0 and 1"},
	}
	html := render(t, ProjectFormPage(data, HeaderData{}, SidebarData{}))
	if !strings.Contains(html, "cannot be blank") || !strings.Contains(html, "must be between 0 and 1") {
		t.Error("expected field errors in form")
	}
	if !strings.Contains(html, `action="/projects"`) {
		t.Error("create form should post to /projects")
	}
}

func TestDraftContent_CommitDisabledWhenEmpty(t *testing.T) {
	data := DraftViewData{Editor: EstimateEditor{BasePath: "/draft"}}
	html := render(t, DraftContent(data))
	if !strings.Contains(html, "disabled") {
		t.Error("commit button should be disabled for an empty draft")
	}
}

func TestMaterialValidationResults(t *testing.T) {
	withErrors := MaterialValidationData{
		Result: &services.ValidationResult{
			FileName:  "catalog.csv",
			TotalRows: 2, ValidRows: 1, ErrorRows: 1,
			Errors: []services.ValidationError{{Row: 3, Field: "Category", Message: "Category must be a known category"}},
		},
		ErrorsJSON: `[{"row":3}]`,
	}
	html := render(t, MaterialValidationResults(withErrors))
	if !strings.Contains(html, "Download error report") {
		t.Error("expected error report button")
	}
	if strings.Contains(html, "/materials/import/commit") {
		t.Error("commit should not be offered when rows have errors")
	}

	clean := MaterialValidationData{
		Result:         &services.ValidationResult{FileName: "catalog.csv", TotalRows: 1, ValidRows: 1},
		ParsedRowsJSON: `[{"name":"Wire"}]`,
	}
	html = render(t, MaterialValidationResults(clean))
	if !strings.Contains(html, "Import 1 materials") {
		t.Error("expected commit button")
	}
}

func TestFormatRate(t *testing.T) {
	if got := formatRate(nil); got != "" {
		t.Errorf("formatRate(nil) = %q", got)
	}
	r := 72.5
	if got := formatRate(&r); got != "72.5" {
		t.Errorf("formatRate(72.5) = %q", got)
	}
}

func TestNavClass(t *testing.T) {
	tests := []struct {
		path, prefix, want string
	}{
		{"/projects", "/projects", "nav-link active"},
		{"/projects/abc", "/projects", "nav-link active"},
		{"/projectsx", "/projects", "nav-link"},
		{"/materials", "/projects", "nav-link"},
	}
	for _, tt := range tests {
		if got := navClass(tt.path, tt.prefix); got != tt.want {
			t.Errorf("navClass(%q, %q) = %q, want %q", tt.path, tt.prefix, got, tt.want)
		}
	}
}
