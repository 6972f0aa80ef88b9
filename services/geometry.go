package services

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ShapeKind discriminates the measured shapes an estimate option can hold.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeTriangle  ShapeKind = "triangle"
	ShapeTrapezoid ShapeKind = "trapezoid"
)

// AreaTypeOptions is the tag vocabulary offered when classifying a shape.
var AreaTypeOptions = []string{"Profiling", "Road Base", "Asphalt", "Bitumen", "Prime"}

// Shape is a measured surface. Implementations carry named dimensions.
type Shape interface {
	Kind() ShapeKind
	Area() float64
	dimensions() []float64
}

type Rectangle struct {
	Length float64
	Width  float64
}

func (r Rectangle) Kind() ShapeKind       { return ShapeRectangle }
func (r Rectangle) Area() float64         { return r.Length * r.Width }
func (r Rectangle) dimensions() []float64 { return []float64{r.Length, r.Width} }

type Triangle struct {
	Base   float64
	Height float64
}

func (t Triangle) Kind() ShapeKind       { return ShapeTriangle }
func (t Triangle) Area() float64         { return 0.5 * t.Base * t.Height }
func (t Triangle) dimensions() []float64 { return []float64{t.Base, t.Height} }

type Trapezoid struct {
	Top    float64
	Bottom float64
	Height float64
}

func (t Trapezoid) Kind() ShapeKind       { return ShapeTrapezoid }
func (t Trapezoid) Area() float64         { return 0.5 * (t.Top + t.Bottom) * t.Height }
func (t Trapezoid) dimensions() []float64 { return []float64{t.Top, t.Bottom, t.Height} }

// ParseShape builds a Shape from the positional values captured by the
// measurement form. Missing or non-numeric values count as zero. An unknown
// kind yields nil, which has no area.
func ParseShape(kind ShapeKind, values []string) Shape {
	v := func(i int) float64 {
		if i >= len(values) {
			return 0
		}
		return parseLenient(values[i])
	}
	switch kind {
	case ShapeRectangle:
		return Rectangle{Length: v(0), Width: v(1)}
	case ShapeTriangle:
		return Triangle{Base: v(0), Height: v(1)}
	case ShapeTrapezoid:
		return Trapezoid{Top: v(0), Bottom: v(1), Height: v(2)}
	}
	return nil
}

// parseLenient converts user-entered numeric text, returning 0 for anything
// that is not a finite number.
func parseLenient(s string) float64 {
	f := cast.ToFloat64(strings.TrimSpace(s))
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ShapeEntry is one measured area inside an estimate option.
type ShapeEntry struct {
	ID        string
	Label     string
	Shape     Shape
	AreaTypes []string
	// Area is the persisted, 2dp-rounded area. Live aggregation uses CalcArea.
	Area float64
}

type shapeEntryJSON struct {
	ID        string    `json:"id"`
	Shape     ShapeKind `json:"shape"`
	Label     string    `json:"label"`
	Values    []string  `json:"values"`
	AreaTypes []string  `json:"areaTypes"`
	Area      float64   `json:"area"`
}

func (s ShapeEntry) MarshalJSON() ([]byte, error) {
	out := shapeEntryJSON{
		ID:        s.ID,
		Label:     s.Label,
		AreaTypes: s.AreaTypes,
		Area:      s.Area,
		Values:    []string{},
	}
	if out.AreaTypes == nil {
		out.AreaTypes = []string{}
	}
	if s.Shape != nil {
		out.Shape = s.Shape.Kind()
		for _, d := range s.Shape.dimensions() {
			out.Values = append(out.Values, strconv.FormatFloat(d, 'f', -1, 64))
		}
	}
	return json.Marshal(out)
}

func (s *ShapeEntry) UnmarshalJSON(data []byte) error {
	var in shapeEntryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.ID = in.ID
	s.Label = in.Label
	s.AreaTypes = in.AreaTypes
	s.Area = in.Area
	s.Shape = ParseShape(in.Shape, in.Values)
	return nil
}

// CalcArea returns the full-precision area of a shape entry.
func CalcArea(entry ShapeEntry) float64 {
	if entry.Shape == nil {
		return 0
	}
	return entry.Shape.Area()
}

// CalcTotalArea sums the areas of all entries.
func CalcTotalArea(entries []ShapeEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += CalcArea(e)
	}
	return sum
}

// CalcAreaByType sums entry areas per area-type tag. Every tag seen on any
// entry gets a key, including tags whose cumulative area is zero.
func CalcAreaByType(entries []ShapeEntry) map[string]float64 {
	byType := make(map[string]float64)
	for _, e := range entries {
		seen := make(map[string]bool, len(e.AreaTypes))
		for _, tag := range e.AreaTypes {
			if seen[tag] {
				continue
			}
			seen[tag] = true
			byType[tag] += CalcArea(e)
		}
	}
	return byType
}

// AreaTypeTotal is a display row of the area-by-type summary.
type AreaTypeTotal struct {
	Type string
	Area float64
}

// AreaTypeTotals returns the non-zero entries of byType, with the standard
// vocabulary first in its usual order and any other tags after, alphabetically.
func AreaTypeTotals(byType map[string]float64) []AreaTypeTotal {
	var out []AreaTypeTotal
	known := make(map[string]bool, len(AreaTypeOptions))
	for _, t := range AreaTypeOptions {
		known[t] = true
		if a := byType[t]; a != 0 {
			out = append(out, AreaTypeTotal{Type: t, Area: a})
		}
	}
	var extra []string
	for t, a := range byType {
		if !known[t] && a != 0 {
			extra = append(extra, t)
		}
	}
	sort.Strings(extra)
	for _, t := range extra {
		out = append(out, AreaTypeTotal{Type: t, Area: byType[t]})
	}
	return out
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
