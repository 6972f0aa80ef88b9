package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase"
	"golang.org/x/sync/errgroup"
)

// LoadCatalog reads the material and equipment catalogs. Both collections are
// fetched together and the catalog is returned only once both have loaded.
func LoadCatalog(app *pocketbase.PocketBase) (*Catalog, error) {
	var (
		materials []MaterialCatalogEntry
		equipment []EquipmentCatalogEntry
		g         errgroup.Group
	)

	g.Go(func() error {
		records, err := app.FindAllRecords("materials")
		if err != nil {
			return fmt.Errorf("load materials: %w", err)
		}
		for _, r := range records {
			materials = append(materials, MaterialCatalogEntry{
				Item:        r.GetString("item"),
				Type:        MaterialType(r.GetString("type")),
				UnitPrice:   r.GetFloat("unit_price"),
				Formula:     r.GetFloat("formula"),
				Measurement: r.GetString("measurement"),
			})
		}
		return nil
	})

	g.Go(func() error {
		records, err := app.FindAllRecords("equipment_items")
		if err != nil {
			return fmt.Errorf("load equipment: %w", err)
		}
		for _, r := range records {
			entry := EquipmentCatalogEntry{
				Name:     r.GetString("name"),
				Category: EquipmentCategory(r.GetString("category")),
			}
			// Number fields are never null; unit_price_set tells an explicit
			// 0 apart from a record that only carries the legacy price.
			if v := r.GetFloat("unit_price"); v != 0 || r.GetBool("unit_price_set") {
				entry.UnitPrice = &v
			}
			if v := r.GetFloat("price"); v != 0 {
				entry.Price = &v
			}
			equipment = append(equipment, entry)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewCatalog(materials, equipment), nil
}
