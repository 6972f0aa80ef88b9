package services

// EquipmentCategory groups equipment in the estimate and quote views.
type EquipmentCategory string

const (
	CategoryPrep    EquipmentCategory = "Prep"
	CategoryBitumen EquipmentCategory = "Bitumen"
	CategoryAsphalt EquipmentCategory = "Asphalt"
)

// JobsiteAddress is where the work takes place.
type JobsiteAddress struct {
	Street   string `json:"street"`
	Suburb   string `json:"suburb"`
	Postcode string `json:"postcode"`
	State    string `json:"state"`
}

// String renders the address on one line, e.g. "1 Main St, Toowoomba, QLD 4350".
func (a JobsiteAddress) String() string {
	s := a.Street
	if a.Suburb != "" {
		if s != "" {
			s += ", "
		}
		s += a.Suburb
	}
	tail := a.State
	if a.Postcode != "" {
		if tail != "" {
			tail += " "
		}
		tail += a.Postcode
	}
	if tail != "" {
		if s != "" {
			s += ", "
		}
		s += tail
	}
	return s
}

// EquipmentUsage is a piece of equipment booked against an option.
type EquipmentUsage struct {
	Item     string            `json:"item"`
	Category EquipmentCategory `json:"category"`
	Units    float64           `json:"units"`
	Hours    float64           `json:"hours"`
	Days     float64           `json:"days"`
	// Price is an optional per-estimate price; the catalog is authoritative when quoting.
	Price *float64 `json:"price,omitempty"`
}

// TotalHours is units × hours × days.
func (u EquipmentUsage) TotalHours() float64 {
	return u.Units * u.Hours * u.Days
}

// MaterialUsage is a material applied to an option.
type MaterialUsage struct {
	Item      string  `json:"item"`
	Type      string  `json:"type"`
	SprayRate float64 `json:"sprayRate"`
}

// AdditionalItem is an ad-hoc line entered on the estimate.
type AdditionalItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// EstimateOption is one alternative scope within an estimate.
type EstimateOption struct {
	Key          string           `json:"key"`
	Label        string           `json:"label"`
	TotalSqm     float64          `json:"totalSqm"`
	Equipment    []EquipmentUsage `json:"equipment"`
	Materials    []MaterialUsage  `json:"materials"`
	ShapeEntries []ShapeEntry     `json:"shapeEntries"`
	Notes        string           `json:"notes,omitempty"`
}

// Estimate is a surveyed job awaiting a quote.
type Estimate struct {
	ID              string           `json:"id"`
	CustomerID      string           `json:"customerId"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	Email           string           `json:"customerEmail"`
	Phone           string           `json:"phone"`
	JobsiteAddress  JobsiteAddress   `json:"jobsiteAddress"`
	Details         string           `json:"details"`
	JobNotes        string           `json:"jobNotes"`
	AdditionalItems []AdditionalItem `json:"additionalItems"`
	Options         []EstimateOption `json:"options"`
}

// CustomerName is "First Last", trimmed when either part is missing.
func (e Estimate) CustomerName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

// TotalSqm is the sum of the options' stored areas.
func (e Estimate) TotalSqm() float64 {
	var total float64
	for _, opt := range e.Options {
		total += opt.TotalSqm
	}
	return Round2(total)
}

// Option returns the option with the given label.
func (e Estimate) Option(label string) (EstimateOption, bool) {
	for _, o := range e.Options {
		if o.Label == label {
			return o, true
		}
	}
	return EstimateOption{}, false
}

// RecalculateAreas recomputes every shape entry's rounded area and sets each
// option's TotalSqm to the sum of those areas. Client-supplied values are discarded.
func RecalculateAreas(est *Estimate) {
	for i := range est.Options {
		opt := &est.Options[i]
		var total float64
		for j := range opt.ShapeEntries {
			opt.ShapeEntries[j].Area = Round2(CalcArea(opt.ShapeEntries[j]))
			total += opt.ShapeEntries[j].Area
		}
		opt.TotalSqm = Round2(total)
	}
}
