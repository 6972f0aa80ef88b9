package services

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// ItemType is the kind of a quote line.
type ItemType string

const (
	ItemMaterial  ItemType = "material"
	ItemEquipment ItemType = "equipment"
	ItemOther     ItemType = "other"
)

// QuoteItem is a priced line of a quote. Unit, Hours and Days apply to
// equipment; Sqm, SprayRate, Formula and MaterialType apply to materials.
type QuoteItem struct {
	ID           string            `json:"id"`
	OptionLabel  string            `json:"optionLabel"`
	Label        string            `json:"label"`
	Type         ItemType          `json:"type"`
	Category     EquipmentCategory `json:"category,omitempty"`
	Description  string            `json:"description"`
	Quantity     float64           `json:"quantity"`
	Unit         float64           `json:"unit,omitempty"`
	Hours        float64           `json:"hours,omitempty"`
	Days         float64           `json:"days,omitempty"`
	Sqm          float64           `json:"sqm,omitempty"`
	SprayRate    float64           `json:"sprayRate,omitempty"`
	Formula      float64           `json:"formula,omitempty"`
	MaterialType MaterialType      `json:"materialType,omitempty"`
	UnitPrice    float64           `json:"unitPrice"`
	UnitCost     float64           `json:"unitCost"`
	Total        float64           `json:"total"`
}

// BuildItemsFromEstimate prices every option of est against the catalog.
//
// Per option it emits one line per material with a catalog match (materials
// missing from the catalog are skipped), one line per equipment usage (unpriced
// when missing from the catalog), and one line per estimate-level additional
// item. Additional items are therefore repeated under every option.
//
// Material lines start with zero sqm; the covered area is entered while editing.
func BuildItemsFromEstimate(est Estimate, catalog *Catalog) []QuoteItem {
	return buildItems(est, catalog, uuid.NewString)
}

func buildItems(est Estimate, catalog *Catalog, newID func() string) []QuoteItem {
	var items []QuoteItem

	for _, opt := range est.Options {
		for _, m := range opt.Materials {
			mat, ok := catalog.Material(m.Item)
			if !ok {
				continue
			}
			sprayRate := m.SprayRate
			if falsy(sprayRate) {
				sprayRate = 1
			}
			formula := mat.Formula
			if falsy(formula) {
				formula = 1
			}
			items = append(items, QuoteItem{
				ID:           newID(),
				OptionLabel:  opt.Label,
				Label:        m.Item,
				Type:         ItemMaterial,
				Description:  fmt.Sprintf("%s | %s", m.Type, mat.Measurement),
				SprayRate:    sprayRate,
				Formula:      formula,
				MaterialType: mat.Type,
				UnitPrice:    mat.UnitPrice,
				UnitCost:     mat.UnitPrice,
			})
		}

		for _, e := range opt.Equipment {
			var unitPrice float64
			if eq, ok := catalog.Equipment(e.Item); ok {
				unitPrice = eq.EffectivePrice()
			}
			quantity := e.TotalHours()
			items = append(items, QuoteItem{
				ID:          newID(),
				OptionLabel: opt.Label,
				Label:       e.Item,
				Type:        ItemEquipment,
				Category:    e.Category,
				Description: fmt.Sprintf("%s units × %s hrs × %s days", formatNumber(e.Units), formatNumber(e.Hours), formatNumber(e.Days)),
				Quantity:    quantity,
				Unit:        e.Units,
				Hours:       e.Hours,
				Days:        e.Days,
				UnitPrice:   unitPrice,
				UnitCost:    unitPrice,
				Total:       quantity * unitPrice,
			})
		}

		for _, add := range est.AdditionalItems {
			label := add.Description
			if label == "" {
				label = "Other"
			}
			items = append(items, QuoteItem{
				ID:          newID(),
				OptionLabel: opt.Label,
				Label:       label,
				Type:        ItemOther,
				Description: "Additional",
				Quantity:    add.Quantity,
				UnitPrice:   add.UnitPrice,
				Total:       add.Quantity * add.UnitPrice,
			})
		}
	}

	return items
}

// formatNumber prints a number the shortest way that round-trips: 2, 0.5, 7.25.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// OptionItems is the slice of items belonging to one option label.
type OptionItems struct {
	Label string
	Items []QuoteItem
}

// GroupItemsByOption groups items by option label in first-seen order.
// Items without a label are left out.
func GroupItemsByOption(items []QuoteItem) []OptionItems {
	var groups []OptionItems
	index := make(map[string]int)
	for _, it := range items {
		if it.OptionLabel == "" {
			continue
		}
		i, ok := index[it.OptionLabel]
		if !ok {
			i = len(groups)
			index[it.OptionLabel] = i
			groups = append(groups, OptionItems{Label: it.OptionLabel})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// CategoryItems is the equipment of one category.
type CategoryItems struct {
	Category string
	Items    []QuoteItem
}

// GroupEquipmentByCategory groups equipment items by category in first-seen
// order. Items without a category are grouped under "Other"; non-equipment
// items are ignored.
func GroupEquipmentByCategory(items []QuoteItem) []CategoryItems {
	var groups []CategoryItems
	index := make(map[string]int)
	for _, it := range items {
		if it.Type != ItemEquipment {
			continue
		}
		key := string(it.Category)
		if key == "" {
			key = "Other"
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, CategoryItems{Category: key})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// OptionLabels returns the distinct non-empty option labels in first-seen order.
func OptionLabels(items []QuoteItem) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, it := range items {
		if it.OptionLabel == "" || seen[it.OptionLabel] {
			continue
		}
		seen[it.OptionLabel] = true
		labels = append(labels, it.OptionLabel)
	}
	return labels
}
