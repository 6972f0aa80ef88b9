package services

import (
	"testing"

	"pavingquotes/testhelpers"
)

func TestCommitCatalogImport_Materials(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rows := []map[string]string{
		{"item": "AC10", "type": "asphalt", "unit_price": "195", "formula": "2.4", "measurement": "tonne"},
		{"item": "C170 Bitumen", "type": "Bitumen", "unit_price": "1.85", "formula": "0.906", "measurement": "litre"},
	}

	result, err := CommitCatalogImport(app, CatalogMaterials, rows)
	if err != nil {
		t.Fatalf("CommitCatalogImport() error: %v", err)
	}
	if result.TotalRows != 2 || result.Imported != 2 || result.Updated != 0 || result.Failed != 0 {
		t.Errorf("unexpected result: %+v", result)
	}

	catalog, err := LoadCatalog(app)
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}
	mat, ok := catalog.Material("AC10")
	if !ok {
		t.Fatal("expected AC10 in catalog")
	}
	if mat.Type != MaterialAsphalt {
		t.Errorf("Type = %q, want Asphalt", mat.Type)
	}
	if mat.UnitPrice != 195 {
		t.Errorf("UnitPrice = %v, want 195", mat.UnitPrice)
	}
}

func TestCommitCatalogImport_UpdatesExisting(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	existing := testhelpers.CreateTestEquipment(t, app, "Bobcat", "Prep", 120, 0)

	rows := []map[string]string{
		{"name": "bobcat", "category": "Prep", "unit_price": "140"},
		{"name": "Paver", "category": "Asphalt", "unit_price": "260"},
	}

	result, err := CommitCatalogImport(app, CatalogEquipment, rows)
	if err != nil {
		t.Fatalf("CommitCatalogImport() error: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}
	if result.Updated != 1 {
		t.Errorf("Updated = %d, want 1", result.Updated)
	}

	rec, err := app.FindRecordById("equipment_items", existing.Id)
	if err != nil {
		t.Fatalf("find updated equipment: %v", err)
	}
	if got := rec.GetFloat("unit_price"); got != 140 {
		t.Errorf("unit_price = %v, want 140", got)
	}

	all, _ := app.FindAllRecords("equipment_items")
	if len(all) != 2 {
		t.Errorf("expected 2 equipment records, got %d", len(all))
	}
}

func TestCommitCatalogImport_EquipmentUnitPriceSet(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rows := []map[string]string{
		{"name": "Tip fee", "category": "", "unit_price": "0"},
		{"name": "Grader", "category": "Prep", "unit_price": ""},
	}
	if _, err := CommitCatalogImport(app, CatalogEquipment, rows); err != nil {
		t.Fatalf("CommitCatalogImport() error: %v", err)
	}

	tests := []struct {
		name string
		want bool
	}{
		{"Tip fee", true},
		{"Grader", false},
	}
	for _, tt := range tests {
		rec, err := app.FindFirstRecordByData("equipment_items", "name", tt.name)
		if err != nil {
			t.Fatalf("find %s: %v", tt.name, err)
		}
		if got := rec.GetBool("unit_price_set"); got != tt.want {
			t.Errorf("%s unit_price_set = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCommitCatalogImport_ValidationErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	rows := []map[string]string{
		{"item": "AC10", "type": "Asphalt", "unit_price": "195"},
		{"item": "Mystery", "type": "Gravel", "unit_price": "abc"},
	}

	result, err := CommitCatalogImport(app, CatalogMaterials, rows)
	if err != nil {
		t.Fatalf("CommitCatalogImport() error: %v", err)
	}
	if !result.RolledBack {
		t.Error("expected RolledBack")
	}
	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if len(result.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d: %+v", len(result.Errors), result.Errors)
	}
	for _, e := range result.Errors {
		if e.Row != 3 {
			t.Errorf("error on row %d, want 3", e.Row)
		}
	}

	all, _ := app.FindAllRecords("materials")
	if len(all) != 0 {
		t.Errorf("expected nothing written, got %d materials", len(all))
	}
}

func TestCommitCatalogImport_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	result, err := CommitCatalogImport(app, CatalogEquipment, []map[string]string{})
	if err != nil {
		t.Fatalf("CommitCatalogImport() error: %v", err)
	}
	if result.TotalRows != 0 || result.Imported != 0 {
		t.Errorf("unexpected result: %+v", result)
	}
}
