package services_test

import (
	"testing"

	"bidestimator/services"
	"bidestimator/testhelpers"
)

func TestCommitMaterialImport_CreatesAndUpdates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMaterial(t, app, "12 AWG THHN", "Wire", 80, 4)

	rows := []services.MaterialInput{
		{Name: "12 AWG THHN", Category: "Wire", Unit: "Roll", UnitPrice: 89.97, LaborHours: 4},
		{Name: "1/2 EMT", Category: "Conduit", Unit: "Ft", UnitPrice: 0.85, LaborHours: 0.05},
	}

	result, err := services.CommitMaterialImport(app, rows)
	if err != nil {
		t.Fatalf("CommitMaterialImport() error: %v", err)
	}
	if result.Created != 1 || result.Updated != 1 || result.Failed != 0 {
		t.Errorf("result = %+v, want 1 created, 1 updated", result)
	}

	rec, err := app.FindFirstRecordByData("materials", "name", "12 AWG THHN")
	if err != nil {
		t.Fatalf("material not found: %v", err)
	}
	if got := rec.GetFloat("unit_price"); got != 89.97 {
		t.Errorf("unit_price = %v, want updated 89.97", got)
	}

	all, err := app.FindAllRecords("materials")
	if err != nil {
		t.Fatalf("FindAllRecords() error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 materials, got %d", len(all))
	}
}

func TestCommitMaterialImport_InvalidRowsWriteNothing(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rows := []services.MaterialInput{
		{Name: "Good", Category: "Devices", UnitPrice: 1},
		{Name: "Bad", Category: "Gadgets", UnitPrice: 1},
	}

	result, err := services.CommitMaterialImport(app, rows)
	if err != nil {
		t.Fatalf("CommitMaterialImport() error: %v", err)
	}
	if !result.RolledBack || result.Failed != 2 {
		t.Errorf("result = %+v, want rolled back", result)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 3 || result.Errors[0].Field != "Category" {
		t.Errorf("errors = %+v", result.Errors)
	}

	all, _ := app.FindAllRecords("materials")
	if len(all) != 0 {
		t.Errorf("expected no materials saved, got %d", len(all))
	}
}
