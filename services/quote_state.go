package services

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"
)

// Editable field names, as posted by the quote editor.
const (
	FieldUnit      = "unit"
	FieldHours     = "hours"
	FieldDays      = "days"
	FieldUnitPrice = "unitPrice"
	FieldQuantity  = "quantity"
	FieldSqm       = "sqm"
	FieldSprayRate = "sprayRate"
)

var (
	ErrUnknownItem      = errors.New("unknown quote item")
	ErrFieldNotEditable = errors.New("field is not editable for this item type")
	ErrMarkupOutOfRange = errors.New("markup percentage must be between 0 and 100")
)

var editableFields = map[ItemType]map[string]bool{
	ItemEquipment: {FieldUnit: true, FieldHours: true, FieldDays: true, FieldUnitPrice: true},
	ItemMaterial:  {FieldSqm: true, FieldSprayRate: true, FieldUnitPrice: true},
	ItemOther:     {FieldQuantity: true, FieldUnitPrice: true},
}

// IsEditable reports whether field may be changed on an item of type t.
func IsEditable(t ItemType, field string) bool {
	return editableFields[t][field]
}

// QuoteSnapshot is a consistent view of an editing session.
type QuoteSnapshot struct {
	Items            []QuoteItem
	Fields           map[string]ItemFields
	IncludedOptions  map[string]bool
	MarkupPercentage float64
	Totals           QuoteTotals
	OptionTotals     []OptionTotal
}

// LiveItem returns the item with id merged with its live fields.
func (s QuoteSnapshot) LiveItem(id string) (QuoteItem, bool) {
	for _, it := range s.Items {
		if it.ID == id {
			return freeze(it, s.Fields[it.ID]), true
		}
	}
	return QuoteItem{}, false
}

// QuoteState holds the editable state of one quote while it is being
// priced. Every mutation recomputes the derived fields it affects and then
// notifies subscribers with a fresh snapshot.
type QuoteState struct {
	mu        sync.Mutex
	items     []QuoteItem
	index     map[string]int
	fields    map[string]ItemFields
	included  map[string]bool
	markup    float64
	observers map[int]func(QuoteSnapshot)
	nextObs   int
}

// NewQuoteState starts an editing session over built items. Every option is
// initially included and markupPercentage is clamped to [0,100].
func NewQuoteState(items []QuoteItem, markupPercentage float64) *QuoteState {
	s := &QuoteState{
		items:     make([]QuoteItem, len(items)),
		index:     make(map[string]int, len(items)),
		fields:    make(map[string]ItemFields, len(items)),
		included:  make(map[string]bool),
		markup:    clampPercent(markupPercentage),
		observers: make(map[int]func(QuoteSnapshot)),
	}
	copy(s.items, items)
	for i, it := range s.items {
		s.index[it.ID] = i
		s.fields[it.ID] = DefaultFields(it)
	}
	for _, label := range OptionLabels(s.items) {
		s.included[label] = true
	}
	return s
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func removes the subscription.
func (s *QuoteState) Subscribe(fn func(QuoteSnapshot)) func() {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// SetField writes one editable field and recomputes the item's derived
// quantity and total. Non-finite values are stored as 0.
func (s *QuoteState) SetField(itemID, field string, value float64) (QuoteSnapshot, error) {
	return s.SetFields(itemID, map[string]float64{field: value})
}

// SetFields writes several editable fields of one item at once. Every field
// is checked before any is written, so a rejected call leaves the state and
// subscribers untouched.
func (s *QuoteState) SetFields(itemID string, values map[string]float64) (QuoteSnapshot, error) {
	s.mu.Lock()
	i, ok := s.index[itemID]
	if !ok {
		s.mu.Unlock()
		return QuoteSnapshot{}, fmt.Errorf("%w: %s", ErrUnknownItem, itemID)
	}
	it := s.items[i]
	for field := range values {
		if !IsEditable(it.Type, field) {
			s.mu.Unlock()
			return QuoteSnapshot{}, fmt.Errorf("%w: %s on %s", ErrFieldNotEditable, field, it.Type)
		}
	}

	f := s.fields[itemID]
	for field, value := range values {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			value = 0
		}
		switch field {
		case FieldUnit:
			f.Unit = value
		case FieldHours:
			f.Hours = value
		case FieldDays:
			f.Days = value
		case FieldUnitPrice:
			f.UnitPrice = value
		case FieldQuantity:
			f.Quantity = value
		case FieldSqm:
			f.Sqm = value
		case FieldSprayRate:
			f.SprayRate = value
		}
	}
	s.fields[itemID] = derive(it, f)
	return s.commit()
}

// SetFieldString is SetField for raw form input; unparsable text counts as 0.
func (s *QuoteState) SetFieldString(itemID, field, raw string) (QuoteSnapshot, error) {
	return s.SetField(itemID, field, parseLenient(raw))
}

// SetFieldStrings is SetFields for raw form input.
func (s *QuoteState) SetFieldStrings(itemID string, raw map[string]string) (QuoteSnapshot, error) {
	values := make(map[string]float64, len(raw))
	for field, v := range raw {
		values[field] = parseLenient(v)
	}
	return s.SetFields(itemID, values)
}

// derive recomputes the fields that follow from the inputs of an item.
func derive(it QuoteItem, f ItemFields) ItemFields {
	if it.Type == ItemMaterial {
		f.Quantity = CalcMaterialQuantity(MaterialQuantityInput{
			Sqm:       f.Sqm,
			SprayRate: f.SprayRate,
			Formula:   it.Formula,
			Type:      it.MaterialType,
		})
	}
	f.Total = LineTotal(it.Type, f)
	return f
}

// SetOptionIncluded toggles whether an option's items count towards the
// totals. Item data is not touched.
func (s *QuoteState) SetOptionIncluded(label string, included bool) QuoteSnapshot {
	s.mu.Lock()
	s.included[label] = included
	snap, _ := s.commit()
	return snap
}

// SetMarkupPercentage changes the markup applied to the whole quote.
func (s *QuoteState) SetMarkupPercentage(p float64) (QuoteSnapshot, error) {
	if math.IsNaN(p) || p < 0 || p > 100 {
		return QuoteSnapshot{}, fmt.Errorf("%w: %v", ErrMarkupOutOfRange, p)
	}
	s.mu.Lock()
	s.markup = p
	return s.commit()
}

// commit snapshots the state, releases the lock held by the caller and
// notifies subscribers outside of it.
func (s *QuoteState) commit() (QuoteSnapshot, error) {
	snap := s.snapshotLocked()
	observers := make([]func(QuoteSnapshot), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
	return snap, nil
}

// Snapshot returns the current state and totals.
func (s *QuoteState) Snapshot() QuoteSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *QuoteState) snapshotLocked() QuoteSnapshot {
	items := make([]QuoteItem, len(s.items))
	copy(items, s.items)
	fields := make(map[string]ItemFields, len(s.fields))
	for k, v := range s.fields {
		fields[k] = v
	}
	included := make(map[string]bool, len(s.included))
	for k, v := range s.included {
		included[k] = v
	}
	return QuoteSnapshot{
		Items:            items,
		Fields:           fields,
		IncludedOptions:  included,
		MarkupPercentage: s.markup,
		Totals: CalcQuoteTotals(TotalsInput{
			Items:            items,
			Fields:           fields,
			IncludedOptions:  included,
			MarkupPercentage: s.markup,
		}),
		OptionTotals: CalcOptionTotals(items, fields, included),
	}
}

// QuoteMeta is the customer and job context copied onto a finalised quote.
type QuoteMeta struct {
	EstimateID     string
	CustomerID     string
	CustomerName   string
	JobsiteAddress JobsiteAddress
	Notes          string
}

// MetaFromEstimate copies the quote context out of an estimate.
func MetaFromEstimate(est Estimate) QuoteMeta {
	return QuoteMeta{
		EstimateID:     est.ID,
		CustomerID:     est.CustomerID,
		CustomerName:   est.CustomerName(),
		JobsiteAddress: est.JobsiteAddress,
	}
}

// Finalize freezes the live fields into the items and returns a draft quote
// whose totals were computed from exactly those items.
func (s *QuoteState) Finalize(meta QuoteMeta, now time.Time) Quote {
	snap := s.Snapshot()

	items := make([]QuoteItem, len(snap.Items))
	for i, it := range snap.Items {
		items[i] = freeze(it, snap.Fields[it.ID])
	}
	included := make(map[string]bool)
	for _, label := range OptionLabels(items) {
		included[label] = IsOptionIncluded(snap.IncludedOptions, label)
	}

	return Quote{
		EstimateID:       meta.EstimateID,
		CustomerID:       meta.CustomerID,
		CustomerName:     meta.CustomerName,
		JobsiteAddress:   meta.JobsiteAddress,
		Items:            items,
		IncludedOptions:  included,
		MarkupPercentage: snap.MarkupPercentage,
		QuoteTotals:      snap.Totals,
		Status:           StatusDraft,
		Notes:            meta.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// freeze writes live fields back onto the item they belong to.
func freeze(it QuoteItem, f ItemFields) QuoteItem {
	it.UnitPrice = f.UnitPrice
	it.Quantity = EffectiveQuantity(it.Type, f)
	it.Total = LineTotal(it.Type, f)
	switch it.Type {
	case ItemEquipment:
		it.Unit, it.Hours, it.Days = f.Unit, f.Hours, f.Days
	case ItemMaterial:
		it.Sqm, it.SprayRate = f.Sqm, f.SprayRate
	}
	return it
}
