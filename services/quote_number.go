package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
)

// formatQuoteNumber constructs the quote number string from components.
func formatQuoteNumber(year, sequence int) string {
	return fmt.Sprintf("Q-%d-%04d", year, sequence)
}

// GenerateQuoteNumber creates the next quote number for the calendar year of now.
// Format: Q-{year}-{sequence}, where sequence is 4-digit zero-padded and
// restarts every year. The sequence continues from the highest number issued
// that year, so deleted quotes never free a number for reuse.
func GenerateQuoteNumber(app core.App, now time.Time) (string, error) {
	prefix := fmt.Sprintf("Q-%d-", now.Year())

	existing, err := app.FindRecordsByFilter(
		"quotes",
		"quote_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{
			"prefix": prefix + "%",
		},
	)
	if err != nil {
		return "", fmt.Errorf("find quotes for %d: %w", now.Year(), err)
	}

	last := 0
	for _, r := range existing {
		number := r.GetString("quote_number")
		if !strings.HasPrefix(number, prefix) {
			continue
		}
		if seq := cast.ToInt(strings.TrimLeft(strings.TrimPrefix(number, prefix), "0")); seq > last {
			last = seq
		}
	}
	return formatQuoteNumber(now.Year(), last+1), nil
}
