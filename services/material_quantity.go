package services

import "math"

// MaterialType is the catalog class of a material. It selects the quantity formula.
type MaterialType string

const (
	MaterialBitumen  MaterialType = "Bitumen"
	MaterialAsphalt  MaterialType = "Asphalt"
	MaterialRoadbase MaterialType = "Roadbase"
	MaterialStone    MaterialType = "Stone"
)

// MaterialQuantityInput holds the inputs of CalcMaterialQuantity.
type MaterialQuantityInput struct {
	Sqm       float64
	SprayRate float64
	Formula   float64
	Type      MaterialType
}

// CalcMaterialQuantity converts a covered area into an ordered quantity.
//
//	Bitumen:           sqm * sprayRate / formula
//	Asphalt, Roadbase: sqm * sprayRate * formula
//	Stone:             sqm / sprayRate * formula
//
// The result is rounded to 2dp. Zero sqm, sprayRate or formula, or an
// unrecognised type, gives 0.
func CalcMaterialQuantity(in MaterialQuantityInput) float64 {
	if falsy(in.Sqm) || falsy(in.SprayRate) || falsy(in.Formula) {
		return 0
	}
	switch in.Type {
	case MaterialBitumen:
		return Round2(in.Sqm * in.SprayRate / in.Formula)
	case MaterialAsphalt, MaterialRoadbase:
		return Round2(in.Sqm * in.SprayRate * in.Formula)
	case MaterialStone:
		return Round2(in.Sqm / in.SprayRate * in.Formula)
	default:
		return 0
	}
}

func falsy(v float64) bool {
	return v == 0 || math.IsNaN(v)
}
