package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"

	"pavingquotes/testhelpers"
)

func TestLoadCatalog(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestMaterial(t, app, "AC10", "Asphalt", 195, 2.4)
	testhelpers.CreateTestEquipment(t, app, "Bobcat", "Prep", 135, 0)
	testhelpers.CreateTestEquipment(t, app, "Grader", "Prep", 0, 180)
	testhelpers.CreateTestEquipment(t, app, "Broom", "", 0, 0)

	catalog, err := LoadCatalog(app)
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}

	mat, ok := catalog.Material(" ac10 ")
	if !ok {
		t.Fatal("expected AC10 in catalog")
	}
	if mat.Type != MaterialAsphalt || mat.UnitPrice != 195 || mat.Formula != 2.4 || mat.Measurement != "tonne" {
		t.Errorf("unexpected material entry: %+v", mat)
	}

	tests := []struct {
		name string
		want float64
	}{
		{"Bobcat", 135},
		{"Grader", 180},
		{"Broom", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eq, ok := catalog.Equipment(tt.name)
			if !ok {
				t.Fatalf("expected %s in catalog", tt.name)
			}
			if got := eq.EffectivePrice(); got != tt.want {
				t.Errorf("EffectivePrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadEstimate(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestEstimate(t, app, "Jane", "Citizen", testhelpers.DrivewayOptions())

	est, err := LoadEstimate(app, rec.Id)
	if err != nil {
		t.Fatalf("LoadEstimate() error: %v", err)
	}
	if est.CustomerName() != "Jane Citizen" {
		t.Errorf("CustomerName() = %q", est.CustomerName())
	}
	if est.JobsiteAddress.Suburb != "Toowoomba" {
		t.Errorf("Suburb = %q, want Toowoomba", est.JobsiteAddress.Suburb)
	}
	if len(est.Options) != 1 {
		t.Fatalf("expected 1 option, got %d", len(est.Options))
	}
	opt := est.Options[0]
	if opt.Label != "Driveway" || len(opt.ShapeEntries) != 1 || len(opt.Materials) != 1 || len(opt.Equipment) != 1 {
		t.Errorf("unexpected option: %+v", opt)
	}
	if got := CalcArea(opt.ShapeEntries[0]); got != 50 {
		t.Errorf("CalcArea() = %v, want 50", got)
	}
}

func TestLoadEstimate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	_, err := LoadEstimate(app, "missing")
	if !errors.Is(err, ErrEstimateNotFound) {
		t.Errorf("expected ErrEstimateNotFound, got %v", err)
	}
}

func TestSaveEstimate_RecomputesAreas(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	est := Estimate{
		FirstName: "Sam",
		Options: []EstimateOption{
			{
				Key:      "option-1",
				Label:    "Carpark",
				TotalSqm: 9999,
				ShapeEntries: []ShapeEntry{
					{ID: "a", Shape: Rectangle{Length: 10, Width: 5}, Area: 1},
					{ID: "b", Shape: Trapezoid{Top: 2, Bottom: 4, Height: 3}},
				},
			},
		},
	}
	if err := SaveEstimate(app, &est); err != nil {
		t.Fatalf("SaveEstimate() error: %v", err)
	}
	if est.ID == "" {
		t.Fatal("expected estimate ID to be set")
	}
	if est.Options[0].TotalSqm != 59 {
		t.Errorf("TotalSqm = %v, want 59", est.Options[0].TotalSqm)
	}

	rec, err := app.FindRecordById("estimates", est.ID)
	if err != nil {
		t.Fatalf("find saved estimate: %v", err)
	}
	if got := rec.GetFloat("total_sqm"); got != 59 {
		t.Errorf("total_sqm = %v, want 59", got)
	}

	loaded, err := LoadEstimate(app, est.ID)
	if err != nil {
		t.Fatalf("LoadEstimate() error: %v", err)
	}
	if got := loaded.Options[0].ShapeEntries[0].Area; got != 50 {
		t.Errorf("stored area = %v, want 50", got)
	}
}

func TestSaveEstimate_UpdatesExisting(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestEstimate(t, app, "Jane", "Citizen", testhelpers.DrivewayOptions())

	est, err := LoadEstimate(app, rec.Id)
	if err != nil {
		t.Fatalf("LoadEstimate() error: %v", err)
	}
	est.Details = "Add kerb"
	if err := SaveEstimate(app, &est); err != nil {
		t.Fatalf("SaveEstimate() error: %v", err)
	}
	if est.ID != rec.Id {
		t.Errorf("ID changed from %s to %s", rec.Id, est.ID)
	}

	all, _ := app.FindAllRecords("estimates")
	if len(all) != 1 {
		t.Errorf("expected 1 estimate record, got %d", len(all))
	}
}

func TestSaveEstimate_UnknownID(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	est := Estimate{ID: "nope"}
	if err := SaveEstimate(app, &est); !errors.Is(err, ErrEstimateNotFound) {
		t.Errorf("expected ErrEstimateNotFound, got %v", err)
	}
}

// drivewayQuote prices the driveway estimate end to end with 50 m² of AC10
// and 20% markup.
func drivewayQuote(t *testing.T, app *pocketbase.PocketBase) Quote {
	t.Helper()

	testhelpers.CreateTestMaterial(t, app, "AC10", "Asphalt", 195, 2.4)
	testhelpers.CreateTestEquipment(t, app, "Bobcat", "Prep", 135, 0)
	rec := testhelpers.CreateTestEstimate(t, app, "Jane", "Citizen", testhelpers.DrivewayOptions())

	est, err := LoadEstimate(app, rec.Id)
	if err != nil {
		t.Fatalf("LoadEstimate() error: %v", err)
	}
	catalog, err := LoadCatalog(app)
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}

	state := NewQuoteState(BuildItemsFromEstimate(est, catalog), 20)
	for _, it := range state.Snapshot().Items {
		if it.Type == ItemMaterial {
			if _, err := state.SetField(it.ID, FieldSqm, 50); err != nil {
				t.Fatalf("SetField() error: %v", err)
			}
		}
	}
	return state.Finalize(MetaFromEstimate(est), time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC))
}

func TestSaveQuote_RoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := drivewayQuote(t, app)

	if math.Abs(q.GrandTotal-70329.6) > 0.001 {
		t.Fatalf("GrandTotal = %v, want 70329.6", q.GrandTotal)
	}

	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	if err := SaveQuote(app, &q, now); err != nil {
		t.Fatalf("SaveQuote() error: %v", err)
	}
	if q.ID == "" {
		t.Fatal("expected quote ID to be set")
	}
	if q.QuoteNumber != "Q-2026-0001" {
		t.Errorf("QuoteNumber = %q, want Q-2026-0001", q.QuoteNumber)
	}

	loaded, err := LoadQuote(app, q.ID)
	if err != nil {
		t.Fatalf("LoadQuote() error: %v", err)
	}
	if loaded.CustomerName != "Jane Citizen" {
		t.Errorf("CustomerName = %q", loaded.CustomerName)
	}
	if loaded.Status != StatusDraft {
		t.Errorf("Status = %q, want draft", loaded.Status)
	}
	if len(loaded.Items) != len(q.Items) {
		t.Fatalf("expected %d items, got %d", len(q.Items), len(loaded.Items))
	}
	if err := loaded.Validate(); err != nil {
		t.Errorf("loaded quote should validate: %v", err)
	}

	checks := []struct {
		name      string
		got, want float64
	}{
		{"subtotal", loaded.Subtotal, 53280},
		{"markup", loaded.Markup, 10656},
		{"gst", loaded.GST, 6393.6},
		{"grand_total", loaded.GrandTotal, 70329.6},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 0.001 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestSaveQuote_EachSaveCreatesRecord(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := drivewayQuote(t, app)
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)

	first := q
	if err := SaveQuote(app, &first, now); err != nil {
		t.Fatalf("first SaveQuote() error: %v", err)
	}
	second := q
	if err := SaveQuote(app, &second, now); err != nil {
		t.Fatalf("second SaveQuote() error: %v", err)
	}
	if first.ID == second.ID {
		t.Error("expected two distinct quote records")
	}
	if second.QuoteNumber != "Q-2026-0002" {
		t.Errorf("second QuoteNumber = %q, want Q-2026-0002", second.QuoteNumber)
	}

	quotes, err := ListQuotes(app)
	if err != nil {
		t.Fatalf("ListQuotes() error: %v", err)
	}
	if len(quotes) != 2 {
		t.Errorf("expected 2 quotes, got %d", len(quotes))
	}
}

func TestSaveQuote_InvalidWritesNothing(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := drivewayQuote(t, app)
	q.GrandTotal += 100

	err := SaveQuote(app, &q, time.Now())
	if !errors.Is(err, ErrTotalsMismatch) {
		t.Fatalf("expected ErrTotalsMismatch, got %v", err)
	}
	if q.ID != "" {
		t.Errorf("ID should stay empty, got %q", q.ID)
	}

	all, _ := app.FindAllRecords("quotes")
	if len(all) != 0 {
		t.Errorf("expected no quote records, got %d", len(all))
	}
}

func TestLoadQuote_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	_, err := LoadQuote(app, "missing")
	if !errors.Is(err, ErrQuoteNotFound) {
		t.Errorf("expected ErrQuoteNotFound, got %v", err)
	}
}

func TestFormatQuoteNumber(t *testing.T) {
	tests := []struct {
		year, seq int
		want      string
	}{
		{2026, 1, "Q-2026-0001"},
		{2026, 42, "Q-2026-0042"},
		{2027, 12345, "Q-2027-12345"},
	}
	for _, tt := range tests {
		if got := formatQuoteNumber(tt.year, tt.seq); got != tt.want {
			t.Errorf("formatQuoteNumber(%d, %d) = %q, want %q", tt.year, tt.seq, got, tt.want)
		}
	}
}

func TestGenerateQuoteNumber_RestartsEachYear(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := drivewayQuote(t, app)

	for i := 0; i < 2; i++ {
		saved := q
		if err := SaveQuote(app, &saved, time.Date(2026, time.December, 30, 0, 0, 0, 0, time.UTC)); err != nil {
			t.Fatalf("SaveQuote() error: %v", err)
		}
	}

	got, err := GenerateQuoteNumber(app, time.Date(2027, time.January, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GenerateQuoteNumber() error: %v", err)
	}
	if got != "Q-2027-0001" {
		t.Errorf("GenerateQuoteNumber() = %q, want Q-2027-0001", got)
	}

	got, _ = GenerateQuoteNumber(app, time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC))
	if got != "Q-2026-0003" {
		t.Errorf("GenerateQuoteNumber() = %q, want Q-2026-0003", got)
	}
}

func TestGenerateQuoteNumber_ContinuesAfterDeletion(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	q := drivewayQuote(t, app)
	now := time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC)

	var saved []Quote
	for i := 0; i < 2; i++ {
		s := q
		if err := SaveQuote(app, &s, now); err != nil {
			t.Fatalf("SaveQuote() error: %v", err)
		}
		saved = append(saved, s)
	}

	first, err := app.FindRecordById("quotes", saved[0].ID)
	if err != nil {
		t.Fatalf("FindRecordById() error: %v", err)
	}
	if err := app.Delete(first); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	got, err := GenerateQuoteNumber(app, now)
	if err != nil {
		t.Fatalf("GenerateQuoteNumber() error: %v", err)
	}
	if got != "Q-2026-0003" {
		t.Errorf("GenerateQuoteNumber() = %q, want Q-2026-0003", got)
	}
}

func TestLoadCatalog_ExplicitZeroUnitPriceKept(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	rec := testhelpers.CreateTestEquipment(t, app, "Tip fee", "", 0, 120)
	rec.Set("unit_price_set", true)
	if err := app.Save(rec); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	catalog, err := LoadCatalog(app)
	if err != nil {
		t.Fatalf("LoadCatalog() error: %v", err)
	}
	eq, ok := catalog.Equipment("Tip fee")
	if !ok {
		t.Fatal("expected Tip fee in catalog")
	}
	if eq.UnitPrice == nil || *eq.UnitPrice != 0 {
		t.Errorf("UnitPrice = %v, want explicit 0", eq.UnitPrice)
	}
	if got := eq.EffectivePrice(); got != 0 {
		t.Errorf("EffectivePrice() = %v, want 0", got)
	}
}
