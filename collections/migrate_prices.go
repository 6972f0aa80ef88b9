package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// MigrateLegacyEquipmentPrices copies the legacy price of equipment items
// into unit_price where unit_price was never set. An explicit unit_price of 0
// is left alone. Safe to call on every startup -- returns early if nothing
// to migrate.
func MigrateLegacyEquipmentPrices(app *pocketbase.PocketBase) error {
	equipmentCol, err := app.FindCollectionByNameOrId("equipment_items")
	if err != nil {
		return fmt.Errorf("migrate: could not find equipment_items collection: %w", err)
	}

	legacy, err := app.FindRecordsByFilter(
		equipmentCol,
		"unit_price_set = false && unit_price = 0 && price > 0",
		"",
		0,
		0,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query legacy equipment prices: %w", err)
	}

	if len(legacy) == 0 {
		return nil
	}

	log.Printf("migrate: found %d equipment item(s) priced only by legacy price -- backfilling unit_price...\n", len(legacy))

	for _, item := range legacy {
		item.Set("unit_price", item.GetFloat("price"))
		item.Set("unit_price_set", true)
		if err := app.Save(item); err != nil {
			log.Printf("migrate: failed to backfill unit_price for %q (%s): %v\n", item.GetString("name"), item.Id, err)
			continue
		}
		log.Printf("migrate: %q unit_price = %v\n", item.GetString("name"), item.GetFloat("unit_price"))
	}

	log.Println("migrate: equipment price migration complete.")
	return nil
}
