package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
)

// Setup programmatically creates/ensures the company_settings, projects,
// materials, line_items and estimate_drafts collections exist.
func Setup(app core.App) {
	ensureCollection(app, "company_settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "company_name"})
		c.Fields.Add(&core.TextField{Name: "address"})
		c.Fields.Add(&core.TextField{Name: "phone"})
		c.Fields.Add(&core.TextField{Name: "license_number"})
		c.Fields.Add(&core.NumberField{Name: "default_labor_rate", Min: floatPtr(0)})
		c.Fields.Add(&core.NumberField{Name: "default_overhead_pct", Min: floatPtr(0), Max: floatPtr(1)})
		c.Fields.Add(&core.NumberField{Name: "default_profit_pct", Min: floatPtr(0), Max: floatPtr(1)})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "estimate_number"})
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
		c.Fields.Add(&core.TextField{Name: "client_name"})
		c.Fields.Add(&core.TextField{Name: "client_address"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    services.StatusOptions,
			MaxSelect: 1,
		})
		// numbers are not Required: PocketBase treats 0 as blank
		c.Fields.Add(&core.NumberField{Name: "labor_rate", Min: floatPtr(0)})
		c.Fields.Add(&core.NumberField{Name: "overhead_pct", Min: floatPtr(0), Max: floatPtr(1)})
		c.Fields.Add(&core.NumberField{Name: "profit_pct", Min: floatPtr(0), Max: floatPtr(1)})
		c.Fields.Add(&core.TextField{Name: "notes"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	materials := ensureCollection(app, "materials", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true, Max: 200})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    services.CategoryOptions(),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "unit"})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Min: floatPtr(0)})
		c.Fields.Add(&core.NumberField{Name: "labor_hours", Min: floatPtr(0)})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "line_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.RelationField{
			Name:         "material",
			CollectionId: materials.Id,
			MaxSelect:    1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "description", Required: true})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Required:  true,
			Values:    services.CategoryOptions(),
			MaxSelect: 1,
		})
		c.Fields.Add(&core.NumberField{Name: "quantity", Min: floatPtr(0)})
		c.Fields.Add(&core.TextField{Name: "unit"})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Min: floatPtr(0)})
		c.Fields.Add(&core.NumberField{Name: "labor_hours", Min: floatPtr(0)})
		// null inherits the project rate
		c.Fields.Add(&core.JSONField{Name: "labor_rate"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "estimate_drafts", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "session", Required: true})
		c.Fields.Add(&core.JSONField{Name: "payload"})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
		c.AddIndex("idx_estimate_drafts_session", true, "session", "")
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}

func floatPtr(v float64) *float64 {
	return &v
}
