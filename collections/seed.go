package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type materialDef struct {
	item        string
	matType     string
	unitPrice   float64
	formula     float64
	measurement string
}

type equipmentDef struct {
	name      string
	category  string
	unitPrice float64
}

var starterMaterials = []materialDef{
	{"C170 Bitumen", "Bitumen", 1.85, 0.906, "litre"},
	{"Prime Coat AMC0", "Bitumen", 1.60, 0.95, "litre"},
	{"AC10", "Asphalt", 195, 2.4, "tonne"},
	{"AC14", "Asphalt", 185, 2.4, "tonne"},
	{"Class 2 Road Base", "Roadbase", 42, 2.2, "tonne"},
	{"10mm Aggregate", "Stone", 68, 1.2, "tonne"},
	{"14mm Aggregate", "Stone", 64, 1.2, "tonne"},
}

var starterEquipment = []equipmentDef{
	{"Bobcat", "Prep", 135},
	{"Grader", "Prep", 190},
	{"Smooth Drum Roller", "Prep", 120},
	{"Bitumen Sprayer", "Bitumen", 220},
	{"Aggregate Spreader", "Bitumen", 160},
	{"Asphalt Paver", "Asphalt", 260},
	{"Multi-tyre Roller", "Asphalt", 130},
	{"Tipper Truck", "", 110},
}

// Seed populates the material and equipment catalogs and a sample customer
// with one estimate. Each part returns early when its collection already has
// records, so it is safe to call on every startup.
func Seed(app *pocketbase.PocketBase) error {
	if err := seedCatalog(app); err != nil {
		return err
	}
	return seedSampleEstimate(app)
}

func seedCatalog(app *pocketbase.PocketBase) error {
	materialsCol, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return fmt.Errorf("seed: could not find materials collection: %w", err)
	}
	equipmentCol, err := app.FindCollectionByNameOrId("equipment_items")
	if err != nil {
		return fmt.Errorf("seed: could not find equipment_items collection: %w", err)
	}

	existing, err := app.FindAllRecords(materialsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query materials: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Println("seed: materials collection is empty – inserting starter catalog …")

	return app.RunInTransaction(func(txApp core.App) error {
		for _, d := range starterMaterials {
			r := core.NewRecord(materialsCol)
			r.Set("item", d.item)
			r.Set("type", d.matType)
			r.Set("unit_price", d.unitPrice)
			r.Set("formula", d.formula)
			r.Set("measurement", d.measurement)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save material %q: %w", d.item, err)
			}
		}
		for _, d := range starterEquipment {
			r := core.NewRecord(equipmentCol)
			r.Set("name", d.name)
			r.Set("category", d.category)
			r.Set("unit_price", d.unitPrice)
			r.Set("unit_price_set", true)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save equipment %q: %w", d.name, err)
			}
		}
		return nil
	})
}

func seedSampleEstimate(app *pocketbase.PocketBase) error {
	estimatesCol, err := app.FindCollectionByNameOrId("estimates")
	if err != nil {
		return fmt.Errorf("seed: could not find estimates collection: %w", err)
	}
	customersCol, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return fmt.Errorf("seed: could not find customers collection: %w", err)
	}

	existing, err := app.FindAllRecords(estimatesCol)
	if err != nil {
		return fmt.Errorf("seed: could not query estimates: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Println("seed: estimates collection is empty – inserting sample estimate …")

	customer := core.NewRecord(customersCol)
	customer.Set("first_name", "Jane")
	customer.Set("last_name", "Citizen")
	customer.Set("email", "jane.citizen@example.com")
	customer.Set("phone", "0400 000 000")
	if err := app.Save(customer); err != nil {
		return fmt.Errorf("seed: save customer: %w", err)
	}

	// Areas are stored already rounded: 12 × 4.5 = 54 and ½ × 6 × 3 = 9.
	options := []map[string]any{
		{
			"key":      "option-1",
			"label":    "Driveway",
			"totalSqm": 63,
			"shapeEntries": []map[string]any{
				{"id": "s1", "shape": "rectangle", "label": "Main run", "values": []string{"12", "4.5"}, "areaTypes": []string{"Asphalt", "Prime"}, "area": 54},
				{"id": "s2", "shape": "triangle", "label": "Turn-in", "values": []string{"6", "3"}, "areaTypes": []string{"Asphalt"}, "area": 9},
			},
			"materials": []map[string]any{
				{"item": "Prime Coat AMC0", "type": "Bitumen", "sprayRate": 0.8},
				{"item": "AC10", "type": "Asphalt", "sprayRate": 0.05},
			},
			"equipment": []map[string]any{
				{"item": "Bobcat", "category": "Prep", "units": 1, "hours": 8, "days": 1},
				{"item": "Asphalt Paver", "category": "Asphalt", "units": 1, "hours": 6, "days": 1},
				{"item": "Multi-tyre Roller", "category": "Asphalt", "units": 1, "hours": 6, "days": 1},
			},
		},
		{
			"key":      "option-2",
			"label":    "Two-coat seal",
			"totalSqm": 54,
			"shapeEntries": []map[string]any{
				{"id": "s3", "shape": "rectangle", "label": "Main run", "values": []string{"12", "4.5"}, "areaTypes": []string{"Bitumen"}, "area": 54},
			},
			"materials": []map[string]any{
				{"item": "C170 Bitumen", "type": "Bitumen", "sprayRate": 1.2},
				{"item": "10mm Aggregate", "type": "Stone", "sprayRate": 120},
			},
			"equipment": []map[string]any{
				{"item": "Bitumen Sprayer", "category": "Bitumen", "units": 1, "hours": 3, "days": 1},
				{"item": "Aggregate Spreader", "category": "Bitumen", "units": 1, "hours": 3, "days": 1},
			},
		},
	}

	estimate := core.NewRecord(estimatesCol)
	estimate.Set("customer_id", customer.Id)
	estimate.Set("first_name", "Jane")
	estimate.Set("last_name", "Citizen")
	estimate.Set("email", "jane.citizen@example.com")
	estimate.Set("phone", "0400 000 000")
	estimate.Set("details", "Residential driveway resurface")
	estimate.Set("jobsite_address", map[string]any{
		"street":   "14 Ridge Rd",
		"suburb":   "Toowoomba",
		"postcode": "4350",
		"state":    "QLD",
	})
	estimate.Set("additional_items", []map[string]any{
		{"description": "Traffic control", "quantity": 1, "unitPrice": 450},
	})
	estimate.Set("options", options)
	estimate.Set("total_sqm", 117)
	if err := app.Save(estimate); err != nil {
		return fmt.Errorf("seed: save estimate: %w", err)
	}

	log.Printf("seed: created sample estimate %s for customer %s", estimate.Id, customer.Id)
	return nil
}
