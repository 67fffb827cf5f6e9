package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"

	"bidestimator/config"
)

// MigrateDefaultCompanySettings creates the company_settings record from the
// environment configuration when none exists. Safe to call on every startup.
func MigrateDefaultCompanySettings(app core.App, cfg *config.Config) error {
	settingsCol, err := app.FindCollectionByNameOrId("company_settings")
	if err != nil {
		return fmt.Errorf("migrate_settings: could not find company_settings collection: %w", err)
	}

	existing, err := app.FindRecordsByFilter(settingsCol, "", "", 1, 0, nil)
	if err != nil {
		return fmt.Errorf("migrate_settings: could not query company_settings: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	record := core.NewRecord(settingsCol)
	record.Set("company_name", cfg.Company.Name)
	record.Set("address", cfg.Company.Address)
	record.Set("phone", cfg.Company.Phone)
	record.Set("license_number", cfg.Company.LicenseNumber)
	record.Set("default_labor_rate", cfg.Defaults.LaborRate)
	record.Set("default_overhead_pct", cfg.Defaults.OverheadPct)
	record.Set("default_profit_pct", cfg.Defaults.ProfitPct)

	if err := app.Save(record); err != nil {
		return fmt.Errorf("migrate_settings: could not save company_settings: %w", err)
	}
	log.Printf("migrate_settings: created company settings for %q\n", cfg.Company.Name)
	return nil
}
