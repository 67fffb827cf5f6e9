package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"bidestimator/services"
	"bidestimator/testhelpers"
)

func TestHandleMaterialList(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMaterial(t, app, "3/4 EMT Conduit", string(services.CategoryConduit), 7.48, 0.1)
	testhelpers.CreateTestMaterial(t, app, "Duplex Receptacle", string(services.CategoryDevices), 2.15, 0.25)

	req := httptest.NewRequest(http.MethodGet, "/materials", nil)
	rec := httptest.NewRecorder()

	if err := HandleMaterialList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "3/4 EMT Conduit", "Duplex Receptacle", "$7.48")
}

func TestHandleMaterialList_CategoryFilter(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMaterial(t, app, "3/4 EMT Conduit", string(services.CategoryConduit), 7.48, 0.1)
	testhelpers.CreateTestMaterial(t, app, "Duplex Receptacle", string(services.CategoryDevices), 2.15, 0.25)

	req := httptest.NewRequest(http.MethodGet, "/materials?category=Devices", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	if err := HandleMaterialList(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Duplex Receptacle") {
		t.Error("expected device in filtered list")
	}
	if strings.Contains(body, "3/4 EMT Conduit") {
		t.Error("conduit should be filtered out")
	}
}

func TestHandleMaterialCreate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	form := url.Values{
		"name":        {"200A Panel"},
		"category":    {string(services.CategoryPanelsBreakers)},
		"unit":        {"Ea"},
		"unit_price":  {"212.40"},
		"labor_hours": {"6"},
	}
	req := newFormRequest(http.MethodPost, "/materials", form)
	rec := httptest.NewRecorder()

	if err := HandleMaterialCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusFound {
		t.Errorf("expected 302, got %d", rec.Code)
	}
	mat, err := app.FindFirstRecordByData("materials", "name", "200A Panel")
	if err != nil {
		t.Fatalf("material not saved: %v", err)
	}
	if mat.GetFloat("unit_price") != 212.40 || mat.GetFloat("labor_hours") != 6 {
		t.Errorf("unexpected values price=%v hours=%v", mat.GetFloat("unit_price"), mat.GetFloat("labor_hours"))
	}
}

func TestHandleMaterialCreate_Invalid(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMaterial(t, app, "Existing", string(services.CategoryWire), 1, 0)

	form := url.Values{
		"name":        {"Existing"},
		"category":    {"Plumbing"},
		"unit_price":  {"cheap"},
		"labor_hours": {"-1"},
	}
	req := newFormRequest(http.MethodPost, "/materials", form)
	rec := httptest.NewRecorder()

	if err := HandleMaterialCreate(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"already exists", "must be a known category", "must be a number", "must not be negative")
	if n, _ := app.CountRecords("materials"); n != 1 {
		t.Errorf("expected 1 material, got %d", n)
	}
}

func TestHandleMaterialDelete_KeepsLineItemValues(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Uses Catalog")
	mat := testhelpers.CreateTestMaterial(t, app, "Cover Plate", string(services.CategoryDevices), 0.89, 0.05)
	item := testhelpers.CreateTestLineItem(t, app, proj.Id, string(services.CategoryDevices), 20, 0.89, 1)
	item.Set("material", mat.Id)
	if err := app.Save(item); err != nil {
		t.Fatalf("link item: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/materials/"+mat.Id, nil)
	req.SetPathValue("id", mat.Id)
	rec := httptest.NewRecorder()

	if err := HandleMaterialDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if _, err := app.FindRecordById("materials", mat.Id); err == nil {
		t.Error("material should have been deleted")
	}
	stored, err := app.FindRecordById("line_items", item.Id)
	if err != nil {
		t.Fatalf("line item should survive material deletion: %v", err)
	}
	if stored.GetFloat("unit_price") != 0.89 {
		t.Errorf("unit price = %v, want 0.89", stored.GetFloat("unit_price"))
	}
}

func TestHandleMaterialDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodDelete, "/materials/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	if err := HandleMaterialDelete(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
