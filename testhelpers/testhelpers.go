// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"pavingquotes/collections"
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

// CreateTestMaterial creates a material catalog record and returns it.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, item, matType string, unitPrice, formula float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		t.Fatalf("failed to find materials collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("item", item)
	record.Set("type", matType)
	record.Set("unit_price", unitPrice)
	record.Set("formula", formula)
	record.Set("measurement", "tonne")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}

	return record
}

// CreateTestEquipment creates an equipment catalog record and returns it.
// A zero unitPrice leaves the entry priced by the legacy price only.
func CreateTestEquipment(t *testing.T, app *pocketbase.PocketBase, name, category string, unitPrice, price float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("equipment_items")
	if err != nil {
		t.Fatalf("failed to find equipment_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("category", category)
	record.Set("unit_price", unitPrice)
	record.Set("unit_price_set", unitPrice != 0)
	record.Set("price", price)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test equipment: %v", err)
	}

	return record
}

// CreateTestEstimate creates an estimate record for a customer. options is
// stored as the estimate's options JSON and may be any JSON-encodable value.
func CreateTestEstimate(t *testing.T, app *pocketbase.PocketBase, firstName, lastName string, options any) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("estimates")
	if err != nil {
		t.Fatalf("failed to find estimates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("first_name", firstName)
	record.Set("last_name", lastName)
	record.Set("email", strings.ToLower(firstName)+"@example.com")
	record.Set("jobsite_address", map[string]string{
		"street":   "1 Main St",
		"suburb":   "Toowoomba",
		"postcode": "4350",
		"state":    "QLD",
	})
	record.Set("options", options)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test estimate: %v", err)
	}

	return record
}

// DrivewayOptions is a one-option estimate: a 10 × 5 rectangle surfaced
// with AC10 at spray rate 2, and a Bobcat for 2 units × 8 hrs × 3 days.
func DrivewayOptions() []map[string]any {
	return []map[string]any{{
		"key":   "option-1",
		"label": "Driveway",
		"shapeEntries": []map[string]any{
			{"id": "s1", "shape": "rectangle", "label": "Main", "values": []string{"10", "5"}, "areaTypes": []string{"Asphalt"}},
		},
		"materials": []map[string]any{
			{"item": "AC10", "type": "Asphalt", "sprayRate": 2},
		},
		"equipment": []map[string]any{
			{"item": "Bobcat", "category": "Prep", "units": 2, "hours": 8, "days": 3},
		},
	}}
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

// AssertHTMLNotContains checks that body contains none of the fragments.
func AssertHTMLNotContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if strings.Contains(body, frag) {
			t.Errorf("expected HTML not to contain %q\nbody (first 500 chars): %s",
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
