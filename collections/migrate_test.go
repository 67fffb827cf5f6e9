package collections_test

import (
	"strings"
	"testing"

	"bidestimator/collections"
	"bidestimator/config"
	"bidestimator/testhelpers"
)

func testConfig() *config.Config {
	return &config.Config{
		Company:  config.CompanyConfig{Name: "Bright Line Electric", Phone: "555-0100"},
		Defaults: config.EstimateDefaults{LaborRate: 70, OverheadPct: 0.12, ProfitPct: 0.08},
	}
}

func TestMigrateDefaultCompanySettings_CreatesDefaults(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.MigrateDefaultCompanySettings(app, testConfig()); err != nil {
		t.Fatalf("MigrateDefaultCompanySettings() error: %v", err)
	}

	records, _ := app.FindAllRecords("company_settings")
	if len(records) != 1 {
		t.Fatalf("expected 1 settings record, got %d", len(records))
	}
	r := records[0]
	if r.GetString("company_name") != "Bright Line Electric" {
		t.Errorf("company_name = %q", r.GetString("company_name"))
	}
	if r.GetFloat("default_labor_rate") != 70 || r.GetFloat("default_overhead_pct") != 0.12 {
		t.Errorf("defaults = %v / %v", r.GetFloat("default_labor_rate"), r.GetFloat("default_overhead_pct"))
	}
}

func TestMigrateDefaultCompanySettings_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	cfg := testConfig()

	if err := collections.MigrateDefaultCompanySettings(app, cfg); err != nil {
		t.Fatalf("first run error: %v", err)
	}
	cfg.Company.Name = "Renamed"
	if err := collections.MigrateDefaultCompanySettings(app, cfg); err != nil {
		t.Fatalf("second run error: %v", err)
	}

	records, _ := app.FindAllRecords("company_settings")
	if len(records) != 1 {
		t.Fatalf("expected 1 settings record, got %d", len(records))
	}
	if records[0].GetString("company_name") != "Bright Line Electric" {
		t.Error("existing settings must not be overwritten")
	}
}

func TestMigrateEstimateNumbers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "First")
	testhelpers.CreateTestProject(t, app, "Second")

	if err := collections.MigrateEstimateNumbers(app); err != nil {
		t.Fatalf("MigrateEstimateNumbers() error: %v", err)
	}

	projects, _ := app.FindAllRecords("projects")
	seen := map[string]bool{}
	for _, p := range projects {
		n := p.GetString("estimate_number")
		if !strings.HasPrefix(n, "EST-") {
			t.Errorf("project %q estimate_number = %q", p.GetString("name"), n)
		}
		if seen[n] {
			t.Errorf("duplicate estimate number %q", n)
		}
		seen[n] = true
	}

	// nothing left to migrate
	if err := collections.MigrateEstimateNumbers(app); err != nil {
		t.Fatalf("second run error: %v", err)
	}
}
