// Package config provides application configuration loaded from environment variables.
package config

import (
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Company  CompanyConfig
	Defaults EstimateDefaults
	App      AppConfig
}

// CompanyConfig holds the company block used until settings are saved in the UI.
type CompanyConfig struct {
	Name          string
	Address       string
	Phone         string
	LicenseNumber string
}

// EstimateDefaults holds the rates new projects start with.
type EstimateDefaults struct {
	LaborRate   float64 // per hour
	OverheadPct float64 // fraction, 0.15 = 15%
	ProfitPct   float64 // fraction
}

// AppConfig holds application-level settings.
type AppConfig struct {
	SeedData bool
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Company: CompanyConfig{
			Name:          getEnv("COMPANY_NAME", "Your Electric Co."),
			Address:       getEnv("COMPANY_ADDRESS", ""),
			Phone:         getEnv("COMPANY_PHONE", ""),
			LicenseNumber: getEnv("COMPANY_LICENSE", ""),
		},
		Defaults: EstimateDefaults{
			LaborRate:   getEnvFloat("DEFAULT_LABOR_RATE", 65),
			OverheadPct: getEnvFloat("DEFAULT_OVERHEAD_PCT", 0.15),
			ProfitPct:   getEnvFloat("DEFAULT_PROFIT_PCT", 0.10),
		},
		App: AppConfig{
			SeedData: getEnvBool("SEED_DATA", true),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat returns the float value of an environment variable or a default.
// Negative values are ignored.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && f >= 0 {
			return f
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
