package services

import "testing"

func ptr(v float64) *float64 { return &v }

func TestEquipmentCatalogEntry_EffectivePrice(t *testing.T) {
	tests := []struct {
		name   string
		entry  EquipmentCatalogEntry
		expect float64
	}{
		{"unit price wins", EquipmentCatalogEntry{UnitPrice: ptr(135), Price: ptr(120)}, 135},
		{"falls back to price", EquipmentCatalogEntry{Price: ptr(120)}, 120},
		{"explicit zero unit price", EquipmentCatalogEntry{UnitPrice: ptr(0), Price: ptr(120)}, 0},
		{"unpriced", EquipmentCatalogEntry{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.EffectivePrice(); got != tt.expect {
				t.Errorf("EffectivePrice() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestCatalog_Lookup(t *testing.T) {
	c := NewCatalog(
		[]MaterialCatalogEntry{
			{Item: "AC10", Type: MaterialAsphalt, UnitPrice: 195, Formula: 2.4},
			{Item: "  ", Type: MaterialStone},
		},
		[]EquipmentCatalogEntry{{Name: "Bobcat", Category: CategoryPrep, UnitPrice: ptr(135)}},
	)

	if m, ok := c.Material(" ac10 "); !ok || m.UnitPrice != 195 {
		t.Errorf("Material(ac10) = %+v, %v", m, ok)
	}
	if _, ok := c.Material(""); ok {
		t.Error("blank material name should not match")
	}
	if e, ok := c.Equipment("BOBCAT"); !ok || e.EffectivePrice() != 135 {
		t.Errorf("Equipment(BOBCAT) = %+v, %v", e, ok)
	}
	if _, ok := c.Equipment("Roller"); ok {
		t.Error("Roller should not be in catalog")
	}

	var nilCatalog *Catalog
	if _, ok := nilCatalog.Material("AC10"); ok {
		t.Error("nil catalog should have no materials")
	}
}
