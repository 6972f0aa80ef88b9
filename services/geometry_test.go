package services

import (
	"encoding/json"
	"math"
	"testing"
)

func TestCalcArea(t *testing.T) {
	tests := []struct {
		name   string
		kind   ShapeKind
		values []string
		expect float64
	}{
		{"rectangle", ShapeRectangle, []string{"10", "5"}, 50},
		{"triangle", ShapeTriangle, []string{"10", "5"}, 25},
		{"trapezoid", ShapeTrapezoid, []string{"4", "6", "3"}, 15},
		{"decimal rectangle", ShapeRectangle, []string{"2.5", "4.2"}, 10.5},
		{"padded input", ShapeRectangle, []string{" 3 ", "3"}, 9},
		{"empty value is zero", ShapeRectangle, []string{"", "5"}, 0},
		{"non-numeric is zero", ShapeRectangle, []string{"abc", "5"}, 0},
		{"missing trapezoid height", ShapeTrapezoid, []string{"4", "6"}, 0},
		{"no values", ShapeTriangle, nil, 0},
		{"unknown shape", ShapeKind("circle"), []string{"1", "1"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := ShapeEntry{Shape: ParseShape(tt.kind, tt.values)}
			got := CalcArea(entry)
			if math.Abs(got-tt.expect) > 0.001 {
				t.Errorf("CalcArea(%s %v) = %v, want %v", tt.kind, tt.values, got, tt.expect)
			}
		})
	}
}

func TestParseShape_NamedDimensions(t *testing.T) {
	got := ParseShape(ShapeTrapezoid, []string{"4", "6", "3"})
	want := Trapezoid{Top: 4, Bottom: 6, Height: 3}
	if got != want {
		t.Errorf("ParseShape = %#v, want %#v", got, want)
	}
}

func TestCalcArea_FullPrecision(t *testing.T) {
	entry := ShapeEntry{Shape: Rectangle{Length: 1.111, Width: 1.111}}
	got := CalcArea(entry)
	if got != 1.111*1.111 {
		t.Errorf("CalcArea = %v, want unrounded %v", got, 1.111*1.111)
	}
}

func TestCalcTotalArea(t *testing.T) {
	entries := []ShapeEntry{
		{Shape: Rectangle{Length: 10, Width: 5}},
		{Shape: Triangle{Base: 4, Height: 3}},
		{Shape: nil},
	}
	if got := CalcTotalArea(entries); math.Abs(got-56) > 0.001 {
		t.Errorf("CalcTotalArea = %v, want 56", got)
	}
	if got := CalcTotalArea(nil); got != 0 {
		t.Errorf("CalcTotalArea(nil) = %v, want 0", got)
	}
}

func TestCalcAreaByType(t *testing.T) {
	entries := []ShapeEntry{
		{Shape: Rectangle{Length: 10, Width: 5}, AreaTypes: []string{"Asphalt", "Prime"}},
		{Shape: Triangle{Base: 4, Height: 3}, AreaTypes: []string{"Asphalt"}},
		{Shape: Rectangle{Length: 0, Width: 5}, AreaTypes: []string{"Bitumen"}},
		{Shape: Rectangle{Length: 2, Width: 2}, AreaTypes: []string{"Kerb", "Kerb"}},
	}

	got := CalcAreaByType(entries)

	want := map[string]float64{"Asphalt": 56, "Prime": 50, "Bitumen": 0, "Kerb": 4}
	if len(got) != len(want) {
		t.Fatalf("CalcAreaByType returned %d tags, want %d: %v", len(got), len(want), got)
	}
	for tag, area := range want {
		v, ok := got[tag]
		if !ok {
			t.Errorf("tag %q missing from map", tag)
			continue
		}
		if math.Abs(v-area) > 0.001 {
			t.Errorf("area[%q] = %v, want %v", tag, v, area)
		}
	}
}

func TestAreaTypeTotals_HidesZeroAndOrders(t *testing.T) {
	byType := map[string]float64{"Prime": 50, "Kerb": 4, "Bitumen": 0, "Asphalt": 56, "Edge": 1}

	got := AreaTypeTotals(byType)

	wantOrder := []string{"Asphalt", "Prime", "Edge", "Kerb"}
	if len(got) != len(wantOrder) {
		t.Fatalf("AreaTypeTotals = %v, want %d rows", got, len(wantOrder))
	}
	for i, w := range wantOrder {
		if got[i].Type != w {
			t.Errorf("row %d = %q, want %q", i, got[i].Type, w)
		}
	}
}

func TestShapeEntry_JSON(t *testing.T) {
	raw := `{"id":"s1","shape":"trapezoid","label":"Apron","values":["4","6","3"],"areaTypes":["Asphalt"],"area":99}`

	var entry ShapeEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if entry.Label != "Apron" || entry.ID != "s1" {
		t.Errorf("entry = %+v", entry)
	}
	if got := CalcArea(entry); got != 15 {
		t.Errorf("CalcArea after unmarshal = %v, want 15", got)
	}

	out, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal marshalled entry: %v", err)
	}
	if back["shape"] != "trapezoid" {
		t.Errorf("shape = %v, want trapezoid", back["shape"])
	}
	values, _ := back["values"].([]any)
	if len(values) != 3 || values[0] != "4" || values[2] != "3" {
		t.Errorf("values = %v, want [4 6 3]", back["values"])
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{88.300662, 88.3},
		{1.234, 1.23},
		{240, 240},
		{0.125, 0.13},
	}
	for _, tt := range tests {
		if got := Round2(tt.in); math.Abs(got-tt.want) > 0.0001 {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
