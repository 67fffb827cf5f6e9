// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"bidestimator/collections"
	"bidestimator/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a bid-status project with a $65/hr labor rate,
// 15% overhead and 10% profit, and returns it.
func CreateTestProject(t *testing.T, app core.App, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("client_name", "Test Client")
	record.Set("status", services.StatusBid)
	record.Set("labor_rate", 65)
	record.Set("overhead_pct", 0.15)
	record.Set("profit_pct", 0.10)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestLineItem appends a line item to a project. The item inherits the
// project labor rate.
func CreateTestLineItem(t *testing.T, app core.App, projectID, category string, quantity, unitPrice, laborHours float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("line_items")
	if err != nil {
		t.Fatalf("failed to find line_items collection: %v", err)
	}
	next, err := services.NextSortOrder(app, projectID)
	if err != nil {
		t.Fatalf("failed to compute sort order: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("sort_order", next)
	record.Set("description", category+" item")
	record.Set("category", category)
	record.Set("quantity", quantity)
	record.Set("unit", "Ea")
	record.Set("unit_price", unitPrice)
	record.Set("labor_hours", laborHours)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test line item: %v", err)
	}

	return record
}

// CreateTestMaterial creates a catalog material and returns it.
func CreateTestMaterial(t *testing.T, app core.App, name, category string, unitPrice, laborHours float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		t.Fatalf("failed to find materials collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("category", category)
	record.Set("unit", "Ea")
	record.Set("unit_price", unitPrice)
	record.Set("labor_hours", laborHours)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}

	return record
}

// CreateTestCompanySettings creates the company_settings singleton.
func CreateTestCompanySettings(t *testing.T, app core.App, companyName string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("company_settings")
	if err != nil {
		t.Fatalf("failed to find company_settings collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("company_name", companyName)
	record.Set("phone", "555-0100")
	record.Set("license_number", "EC-1234")
	record.Set("default_labor_rate", 70)
	record.Set("default_overhead_pct", 0.12)
	record.Set("default_profit_pct", 0.08)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test company settings: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
