package services

import "strings"

// MaterialCatalogEntry is a priced material with its quantity formula.
type MaterialCatalogEntry struct {
	Item        string
	Type        MaterialType
	UnitPrice   float64
	Formula     float64
	Measurement string
}

// EquipmentCatalogEntry is a priced piece of equipment. Older entries carry
// Price instead of UnitPrice.
type EquipmentCatalogEntry struct {
	Name      string
	Category  EquipmentCategory
	UnitPrice *float64
	Price     *float64
}

// EffectivePrice is UnitPrice when set, otherwise Price, otherwise 0.
func (e EquipmentCatalogEntry) EffectivePrice() float64 {
	if e.UnitPrice != nil {
		return *e.UnitPrice
	}
	if e.Price != nil {
		return *e.Price
	}
	return 0
}

// CatalogKey normalises an item name for catalog lookups.
func CatalogKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Catalog is a read-only snapshot of the material and equipment catalogs.
type Catalog struct {
	materials map[string]MaterialCatalogEntry
	equipment map[string]EquipmentCatalogEntry
}

// NewCatalog indexes the entries by CatalogKey. Entries with a blank name are
// ignored; on duplicate keys the last entry wins.
func NewCatalog(materials []MaterialCatalogEntry, equipment []EquipmentCatalogEntry) *Catalog {
	c := &Catalog{
		materials: make(map[string]MaterialCatalogEntry, len(materials)),
		equipment: make(map[string]EquipmentCatalogEntry, len(equipment)),
	}
	for _, m := range materials {
		if k := CatalogKey(m.Item); k != "" {
			c.materials[k] = m
		}
	}
	for _, e := range equipment {
		if k := CatalogKey(e.Name); k != "" {
			c.equipment[k] = e
		}
	}
	return c
}

func (c *Catalog) Material(name string) (MaterialCatalogEntry, bool) {
	if c == nil {
		return MaterialCatalogEntry{}, false
	}
	m, ok := c.materials[CatalogKey(name)]
	return m, ok
}

func (c *Catalog) Equipment(name string) (EquipmentCatalogEntry, bool) {
	if c == nil {
		return EquipmentCatalogEntry{}, false
	}
	e, ok := c.equipment[CatalogKey(name)]
	return e, ok
}
