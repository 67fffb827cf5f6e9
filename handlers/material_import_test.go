package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"bidestimator/services"
	"bidestimator/testhelpers"
)

func newUploadRequest(t *testing.T, fileName, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte(content))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/materials/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	return req
}

func TestHandleMaterialImportPage(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/materials/import", nil)
	rec := httptest.NewRecorder()

	if err := HandleMaterialImportPage(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Unit Price", "Labor Hours")
}

func TestHandleMaterialValidate_ValidCSV(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Name *,Category *,Unit,Unit Price,Labor Hours\n" +
		"12 AWG THHN Copper 500ft,Wire,Roll,$89.97,4\n" +
		"Single Pole Switch,Devices,Ea,3.25,0.5\n"
	req := newUploadRequest(t, "catalog.csv", csv)
	rec := httptest.NewRecorder()

	if err := HandleMaterialValidate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "2 rows, 2 valid", "parsed_rows_json", "Import 2 materials")

	if n, _ := app.CountRecords("materials"); n != 0 {
		t.Errorf("validation must not write materials, got %d", n)
	}
}

func TestHandleMaterialValidate_RowErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	csv := "Name,Category,Unit Price\n" +
		"Good Row,Wire,1.00\n" +
		",Plumbing,abc\n"
	req := newUploadRequest(t, "catalog.csv", csv)
	rec := httptest.NewRecorder()

	if err := HandleMaterialValidate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "1 with errors", "errors_json", "Download error report")
	if strings.Contains(body, "parsed_rows_json") {
		t.Error("files with errors must not offer a commit")
	}
}

func TestHandleMaterialValidate_UnsupportedFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newUploadRequest(t, "catalog.txt", "Name,Category\nA,Wire\n")
	rec := httptest.NewRecorder()

	if err := HandleMaterialValidate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleMaterialImportCommit(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMaterial(t, app, "Single Pole Switch", string(services.CategoryDevices), 2.99, 0.5)

	rows := []services.MaterialInput{
		{Name: "12 AWG THHN Copper 500ft", Category: "Wire", Unit: "Roll", UnitPrice: 89.97, LaborHours: 4},
		{Name: "Single Pole Switch", Category: "Devices", Unit: "Ea", UnitPrice: 3.25, LaborHours: 0.5},
	}
	b, _ := json.Marshal(rows)

	req := newFormRequest(http.MethodPost, "/materials/import/commit", url.Values{"parsed_rows_json": {string(b)}})
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	if err := HandleMaterialImportCommit(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "1 created, 1 updated")

	sw, err := app.FindFirstRecordByData("materials", "name", "Single Pole Switch")
	if err != nil {
		t.Fatalf("switch missing: %v", err)
	}
	if sw.GetFloat("unit_price") != 3.25 {
		t.Errorf("existing material should be updated, price = %v", sw.GetFloat("unit_price"))
	}
}

func TestHandleMaterialImportCommit_MissingData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newFormRequest(http.MethodPost, "/materials/import/commit", url.Values{})
	rec := httptest.NewRecorder()

	if err := HandleMaterialImportCommit(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleMaterialErrorReport(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	errs := []services.ValidationError{{Row: 3, Field: "Category", Message: "Category must be a known category"}}
	b, _ := json.Marshal(errs)

	req := newFormRequest(http.MethodPost, "/materials/import/errors", url.Values{"errors_json": {string(b)}})
	rec := httptest.NewRecorder()

	if err := HandleMaterialErrorReport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("expected Excel content type, got %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("expected non-empty body")
	}
}

func TestHandleMaterialErrorReport_InvalidData(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newFormRequest(http.MethodPost, "/materials/import/errors", url.Values{"errors_json": {"nope"}})
	rec := httptest.NewRecorder()

	if err := HandleMaterialErrorReport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHandleMaterialTemplateDownload(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/materials/template", nil)
	rec := httptest.NewRecorder()

	if err := HandleMaterialTemplateDownload(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "Materials_Template_") {
		t.Errorf("unexpected disposition %q", cd)
	}
}
