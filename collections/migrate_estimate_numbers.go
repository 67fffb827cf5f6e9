package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"bidestimator/services"
)

// MigrateEstimateNumbers assigns an estimate number to every project that has
// none, in creation order, using the year the project was created.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateEstimateNumbers(app core.App) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("migrate: could not find projects collection: %w", err)
	}

	missing, err := app.FindRecordsByFilter(projectsCol, "estimate_number = ''", "created,id", 0, 0, nil)
	if err != nil {
		return fmt.Errorf("migrate: could not query projects without estimate numbers: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}

	log.Printf("migrate: found %d project(s) without an estimate number -- assigning...\n", len(missing))

	for _, p := range missing {
		number, err := services.GenerateEstimateNumber(app, p.GetDateTime("created").Time())
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		p.Set("estimate_number", number)
		if err := app.Save(p); err != nil {
			log.Printf("migrate: failed to set estimate number on project %s: %v\n", p.Id, err)
			continue
		}
		log.Printf("migrate: project %q -> %s\n", p.GetString("name"), number)
	}
	return nil
}
