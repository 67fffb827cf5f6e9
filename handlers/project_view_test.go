package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bidestimator/services"
	"bidestimator/testhelpers"
)

func TestHandleProjectView_ShowsItemsAndTotals(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Office Fit-Out")
	testhelpers.CreateTestLineItem(t, app, proj.Id, string(services.CategoryWire), 4, 89.97, 16)
	testhelpers.CreateTestLineItem(t, app, proj.Id, string(services.CategoryDemolition), 1, 0, 16)

	handler := HandleProjectView(app)

	req := httptest.NewRequest(http.MethodGet, "/projects/"+proj.Id, nil)
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body,
		"Office Fit-Out",
		"$359.88",   // material subtotal
		"$1,040.00", // labor and demolition subtotals
		"$2,439.88", // direct cost
		"row-demolition",
		`hx-post="/projects/`+proj.Id+`/items"`,
	)
}

func TestHandleProjectView_HTMXPartial(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Partial View")

	handler := HandleProjectView(app)

	req := httptest.NewRequest(http.MethodGet, "/projects/"+proj.Id, nil)
	req.SetPathValue("id", proj.Id)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)

	if err := handler(e); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	body := rec.Body.String()
	testhelpers.AssertHTMLContains(t, body, "Partial View", "estimate-editor")
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("HTMX request should not render the layout")
	}
}

func TestHandleProjectView_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectView(app)

	req := httptest.NewRequest(http.MethodGet, "/projects/nonexistent", nil)
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
