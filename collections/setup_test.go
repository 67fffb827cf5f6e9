package collections_test

import (
	"testing"

	"bidestimator/collections"
	"bidestimator/testhelpers"

	"github.com/pocketbase/pocketbase/core"
)

// expectedCollections is the full list of collections that Setup() must create.
var expectedCollections = []string{
	"company_settings",
	"projects",
	"materials",
	"line_items",
	"estimate_drafts",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q not found after Setup(): %v", name, err)
			continue
		}
		if col.Name != name {
			t.Errorf("expected collection name %q, got %q", name, col.Name)
		}
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t) // Setup() already called once via NewTestApp

	ids := make(map[string]string)
	for _, name := range expectedCollections {
		col, _ := app.FindCollectionByNameOrId(name)
		ids[name] = col.Id
	}

	collections.Setup(app)

	for _, name := range expectedCollections {
		col, err := app.FindCollectionByNameOrId(name)
		if err != nil {
			t.Errorf("collection %q missing after second Setup(): %v", name, err)
			continue
		}
		if col.Id != ids[name] {
			t.Errorf("collection %q id changed after second Setup(): %s -> %s", name, ids[name], col.Id)
		}
	}
}

func TestSetup_ProjectsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("projects")

	fields := []string{"estimate_number", "name", "client_name", "client_address", "status",
		"labor_rate", "overhead_pct", "profit_pct", "notes", "created", "updated"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("projects: missing field %q", f)
		}
	}

	statusField := col.Fields.GetByName("status")
	sf, ok := statusField.(*core.SelectField)
	if !ok {
		t.Fatal("status field is not a SelectField")
	}
	expected := map[string]bool{"bid": true, "awarded": true, "lost": true, "complete": true}
	for _, v := range sf.Values {
		if !expected[v] {
			t.Errorf("unexpected status value: %q", v)
		}
		delete(expected, v)
	}
	for v := range expected {
		t.Errorf("missing status value: %q", v)
	}
}

func TestSetup_LineItemsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("line_items")

	fields := []string{"project", "material", "sort_order", "description", "category",
		"quantity", "unit", "unit_price", "labor_hours", "labor_rate"}
	for _, f := range fields {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("line_items: missing field %q", f)
		}
	}

	if rf, ok := col.Fields.GetByName("project").(*core.RelationField); !ok || !rf.CascadeDelete {
		t.Error("line_items.project: expected relation with CascadeDelete=true")
	}
	if rf, ok := col.Fields.GetByName("material").(*core.RelationField); !ok || rf.CascadeDelete || rf.Required {
		t.Error("line_items.material: expected optional relation without cascade")
	}
	if _, ok := col.Fields.GetByName("labor_rate").(*core.JSONField); !ok {
		t.Error("line_items.labor_rate: expected JSONField so null can mean inherit")
	}
	if sf, ok := col.Fields.GetByName("category").(*core.SelectField); !ok || len(sf.Values) != 9 {
		t.Error("line_items.category: expected select with 9 categories")
	}
}

func TestSetup_MaterialsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("materials")

	for _, f := range []string{"name", "category", "unit", "unit_price", "labor_hours"} {
		if col.Fields.GetByName(f) == nil {
			t.Errorf("materials: missing field %q", f)
		}
	}
}

func TestSetup_CascadeDeleteLineItems(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Cascade")
	testhelpers.CreateTestLineItem(t, app, proj.Id, "Wire", 1, 10, 1)
	testhelpers.CreateTestLineItem(t, app, proj.Id, "Demolition", 0, 0, 2)

	if err := app.Delete(proj); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	items, _ := app.FindAllRecords("line_items")
	if len(items) != 0 {
		t.Errorf("expected line items deleted with project, got %d", len(items))
	}
}

func TestSetup_DraftSessionUnique(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, _ := app.FindCollectionByNameOrId("estimate_drafts")

	first := core.NewRecord(col)
	first.Set("session", "abc")
	if err := app.Save(first); err != nil {
		t.Fatalf("save first draft: %v", err)
	}
	second := core.NewRecord(col)
	second.Set("session", "abc")
	if err := app.Save(second); err == nil {
		t.Error("expected unique session constraint to reject a second draft")
	}
}
