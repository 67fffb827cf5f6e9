package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
)

// formatEstimateNumber constructs the estimate number from its components.
func formatEstimateNumber(year, sequence int) string {
	return fmt.Sprintf("EST-%d-%04d", year, sequence)
}

// estimateSequence extracts the trailing sequence of an estimate number
// with the given prefix. It returns 0 when the number does not match.
func estimateSequence(number, prefix string) int {
	rest, ok := strings.CutPrefix(number, prefix)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// GenerateEstimateNumber returns the next estimate number for the year of now.
// Format: EST-{year}-{sequence}, sequence 4-digit zero-padded and restarting
// every calendar year. The next sequence follows the highest one in use, so
// deleting a project never causes a number to be reissued while a later one exists.
func GenerateEstimateNumber(app core.App, now time.Time) (string, error) {
	prefix := fmt.Sprintf("EST-%d-", now.Year())

	existing, err := app.FindRecordsByFilter(
		"projects",
		"estimate_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("find estimate numbers: %w", err)
	}

	highest := 0
	for _, r := range existing {
		highest = max(highest, estimateSequence(r.GetString("estimate_number"), prefix))
	}

	return formatEstimateNumber(now.Year(), highest+1), nil
}
