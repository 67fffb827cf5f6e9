package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type materialDef struct {
	name       string
	category   services.Category
	unit       string
	unitPrice  float64
	laborHours float64
}

type lineItemDef struct {
	material    string // catalog name, empty for manual items
	description string
	category    services.Category
	quantity    float64
	unit        string
	unitPrice   float64
	laborHours  float64
	laborRate   *float64
}

type projectDef struct {
	name          string
	clientName    string
	clientAddress string
	status        string
	laborRate     float64
	overheadPct   float64
	profitPct     float64
	notes         string
	items         []lineItemDef
}

var seedMaterials = []materialDef{
	{"12 AWG THHN Copper, 500ft", services.CategoryWire, "Roll", 89.97, 4},
	{"10 AWG THHN Copper, 500ft", services.CategoryWire, "Roll", 139.50, 4.5},
	{"12/2 NM-B Romex, 250ft", services.CategoryWire, "Roll", 118.00, 5},
	{"1/2\" EMT Conduit, 10ft", services.CategoryConduit, "Ea", 8.45, 0.5},
	{"3/4\" EMT Conduit, 10ft", services.CategoryConduit, "Ea", 14.20, 0.6},
	{"1/2\" EMT Set-Screw Coupling", services.CategoryConduit, "Ea", 0.68, 0.05},
	{"200A Main Breaker Panel, 40 Space", services.CategoryPanelsBreakers, "Ea", 412.50, 6},
	{"20A Single Pole Breaker", services.CategoryPanelsBreakers, "Ea", 9.80, 0.25},
	{"20A AFCI/GFCI Dual Function Breaker", services.CategoryPanelsBreakers, "Ea", 58.00, 0.3},
	{"20A Duplex Receptacle, Commercial", services.CategoryDevices, "Ea", 3.50, 0.5},
	{"20A GFCI Receptacle", services.CategoryDevices, "Ea", 21.75, 0.6},
	{"Single Pole Switch, 20A", services.CategoryDevices, "Ea", 2.95, 0.4},
	{"4\" Square Box, 2-1/8\" Deep", services.CategoryBoxesFittings, "Ea", 2.60, 0.25},
	{"Single Gang Mud Ring", services.CategoryBoxesFittings, "Ea", 1.10, 0.1},
	{"2x4 LED Troffer, 40W", services.CategoryLighting, "Ea", 74.00, 1},
	{"6\" LED Recessed Wafer", services.CategoryLighting, "Ea", 18.50, 0.5},
	{"LED Exit Sign w/ Battery", services.CategoryLighting, "Ea", 39.00, 0.75},
	{"Wire Connectors, Box of 100", services.CategoryMiscellaneous, "Box", 12.40, 0},
	{"Permit and Inspection", services.CategoryMiscellaneous, "Lot", 250.00, 2},
	{"Troubleshooting / Service Call", services.CategoryLaborOnly, "Hr", 0, 1},
	{"Remove Existing Fixture", services.CategoryDemolition, "Ea", 0, 0.5},
	{"Remove Existing Panel", services.CategoryDemolition, "Ea", 0, 4},
}

func rate(v float64) *float64 { return &v }

var seedProject = projectDef{
	name:          "Warehouse Lighting Retrofit",
	clientName:    "Acme Storage LLC",
	clientAddress: "1200 Dock Rd, Springfield",
	status:        services.StatusBid,
	laborRate:     65,
	overheadPct:   0.15,
	profitPct:     0.10,
	notes:         "Replace 1990s fluorescent fixtures and upgrade the main service panel.",
	items: []lineItemDef{
		{material: "Remove Existing Fixture", description: "Remove existing 2x4 fluorescent troffers", category: services.CategoryDemolition, quantity: 24, unit: "Ea", laborHours: 12},
		{material: "Remove Existing Panel", description: "Remove existing 100A panel", category: services.CategoryDemolition, quantity: 1, unit: "Ea", laborHours: 4},
		{material: "2x4 LED Troffer, 40W", description: "2x4 LED Troffer, 40W", category: services.CategoryLighting, quantity: 24, unit: "Ea", unitPrice: 74.00, laborHours: 24},
		{material: "200A Main Breaker Panel, 40 Space", description: "200A main breaker panel", category: services.CategoryPanelsBreakers, quantity: 1, unit: "Ea", unitPrice: 412.50, laborHours: 6, laborRate: rate(85)},
		{material: "12 AWG THHN Copper, 500ft", description: "12 AWG THHN branch circuits", category: services.CategoryWire, quantity: 4, unit: "Roll", unitPrice: 89.97, laborHours: 16},
		{material: "1/2\" EMT Conduit, 10ft", description: "1/2\" EMT runs to new fixtures", category: services.CategoryConduit, quantity: 30, unit: "Ea", unitPrice: 8.45, laborHours: 15},
		{description: "Lift rental, 1 week", category: services.CategoryMiscellaneous, quantity: 1, unit: "Lot", unitPrice: 640},
	},
}

// Seed inserts a starter materials catalog and one demo project. Each part is
// skipped when its collection already has records, so it is safe to call on
// every startup.
func Seed(app core.App) error {
	materialsCol, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return fmt.Errorf("seed: could not find materials collection: %w", err)
	}
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	lineItemsCol, err := app.FindCollectionByNameOrId("line_items")
	if err != nil {
		return fmt.Errorf("seed: could not find line_items collection: %w", err)
	}

	materialIDs, err := seedCatalog(app, materialsCol)
	if err != nil {
		return err
	}

	existing, err := app.FindRecordsByFilter(projectsCol, "", "", 1, 0, nil)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty – inserting demo project …")

	return app.RunInTransaction(func(txApp core.App) error {
		p := core.NewRecord(projectsCol)
		p.Set("name", seedProject.name)
		p.Set("client_name", seedProject.clientName)
		p.Set("client_address", seedProject.clientAddress)
		p.Set("status", seedProject.status)
		p.Set("labor_rate", seedProject.laborRate)
		p.Set("overhead_pct", seedProject.overheadPct)
		p.Set("profit_pct", seedProject.profitPct)
		p.Set("notes", seedProject.notes)
		if err := txApp.Save(p); err != nil {
			return fmt.Errorf("seed: save project: %w", err)
		}

		for i, d := range seedProject.items {
			r := core.NewRecord(lineItemsCol)
			r.Set("project", p.Id)
			if id, ok := materialIDs[d.material]; ok {
				r.Set("material", id)
			}
			r.Set("sort_order", i+1)
			r.Set("description", d.description)
			r.Set("category", string(d.category))
			r.Set("quantity", d.quantity)
			r.Set("unit", d.unit)
			r.Set("unit_price", d.unitPrice)
			r.Set("labor_hours", d.laborHours)
			if d.laborRate != nil {
				r.Set("labor_rate", *d.laborRate)
			}
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save line item %q: %w", d.description, err)
			}
		}

		log.Printf("seed: created project %q with %d line items\n", seedProject.name, len(seedProject.items))
		return nil
	})
}

// seedCatalog inserts the starter materials when the catalog is empty and
// returns name -> id for every catalog record.
func seedCatalog(app core.App, col *core.Collection) (map[string]string, error) {
	records, err := app.FindAllRecords(col)
	if err != nil {
		return nil, fmt.Errorf("seed: could not query materials: %w", err)
	}

	if len(records) == 0 {
		log.Println("seed: materials catalog is empty – inserting starter catalog …")
		for _, d := range seedMaterials {
			r := core.NewRecord(col)
			r.Set("name", d.name)
			r.Set("category", string(d.category))
			r.Set("unit", d.unit)
			r.Set("unit_price", d.unitPrice)
			r.Set("labor_hours", d.laborHours)
			if err := app.Save(r); err != nil {
				return nil, fmt.Errorf("seed: save material %q: %w", d.name, err)
			}
			records = append(records, r)
		}
	}

	ids := make(map[string]string, len(records))
	for _, r := range records {
		ids[r.GetString("name")] = r.Id
	}
	return ids, nil
}
