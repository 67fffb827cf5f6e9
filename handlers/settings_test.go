package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"bidestimator/services"
	"bidestimator/testhelpers"
)

func TestHandleSettings_FallsBackToConfig(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	rec := httptest.NewRecorder()

	if err := HandleSettings(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), `name="default_labor_rate" step="0.01" min="0" value="65"`)
}

func TestHandleSettings_ShowsStoredSettings(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestCompanySettings(t, app, "Spark Electric")

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	if err := HandleSettings(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHTMLContains(t, rec.Body.String(), `value="Spark Electric"`, `value="EC-1234"`, `value="70"`)
}

func TestHandleSettingsSave_CreatesAndUpdates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleSettingsSave(app, testConfig())

	save := func(form url.Values) *httptest.ResponseRecorder {
		req := newFormRequest(http.MethodPost, "/settings", form)
		rec := httptest.NewRecorder()
		if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		return rec
	}

	rec := save(url.Values{
		"company_name":       {"Volt Bros"},
		"license_number":     {"EC-9"},
		"default_labor_rate": {"90"},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}

	d := services.LoadEstimateDefaults(app, services.EstimateDefaults{})
	if d.LaborRate != 90 || d.OverheadPct != 0.15 || d.ProfitPct != 0.10 {
		t.Errorf("defaults = %+v, want 90 with config markups", d)
	}

	save(url.Values{"company_name": {"Volt Brothers"}, "default_profit_pct": {"0.2"}})

	if n, _ := app.CountRecords("company_settings"); n != 1 {
		t.Errorf("expected a single settings record, got %d", n)
	}
	info := services.LoadCompanyInfo(app)
	if info.Name != "Volt Brothers" {
		t.Errorf("company name = %q", info.Name)
	}
	d = services.LoadEstimateDefaults(app, services.EstimateDefaults{})
	if d.LaborRate != 90 || d.ProfitPct != 0.2 {
		t.Errorf("defaults = %+v, want labor 90 and profit 0.2", d)
	}
}

func TestHandleSettingsSave_ExistingProjectsKeepRates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Old Bid")

	req := newFormRequest(http.MethodPost, "/settings", url.Values{
		"company_name":       {"Volt Bros"},
		"default_labor_rate": {"120"},
	})
	rec := httptest.NewRecorder()
	if err := HandleSettingsSave(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	stored, _ := app.FindRecordById("projects", proj.Id)
	if stored.GetFloat("labor_rate") != 65 {
		t.Errorf("project labor rate = %v, want 65", stored.GetFloat("labor_rate"))
	}
}

func TestHandleSettingsSave_Invalid(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	req := newFormRequest(http.MethodPost, "/settings", url.Values{
		"company_name":         {""},
		"default_overhead_pct": {"15"},
	})
	rec := httptest.NewRecorder()
	if err := HandleSettingsSave(app, testConfig())(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "Company name is required", "must be between 0 and 1", `value="15"`)
	if n, _ := app.CountRecords("company_settings"); n != 0 {
		t.Errorf("expected no settings saved, got %d", n)
	}
}
