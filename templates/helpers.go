package templates

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"pavingquotes/services"
)

type navLink struct {
	href  string
	label string
	count int
}

func navLinks(data SidebarData) []navLink {
	return []navLink{
		{"/quotes", "Quotes", data.QuoteCount},
		{"/estimates", "Estimates", data.EstimateCount},
		{"/catalog/materials", "Materials", data.MaterialCount},
		{"/catalog/equipment", "Equipment", data.EquipmentCount},
	}
}

func navClass(l navLink, activePath string) string {
	if strings.HasPrefix(activePath, l.href) {
		return "nav-link active"
	}
	return "nav-link"
}

// seg escapes one URL path segment.
func seg(s string) string {
	return url.PathEscape(s)
}

func sessionPath(sessionID, action string) string {
	return "/quote-sessions/" + seg(sessionID) + "/" + action
}

func itemPath(sessionID, itemID string) string {
	return sessionPath(sessionID, "items/"+seg(itemID))
}

func catalogPath(kind services.CatalogKind, action string) string {
	p := "/catalog/" + seg(string(kind))
	if action != "" {
		p += "/" + action
	}
	return p
}

func formatInput(v float64) string {
	return fmt.Sprintf("%g", v)
}

func sqm(v float64) string {
	return services.FormatQty(v) + " m²"
}

func markupLabel(p float64) string {
	return "Markup (" + services.FormatPercent(p) + ")"
}

// optionVals is the hx-vals payload naming an option.
func optionVals(label string) string {
	b, _ := json.Marshal(map[string]string{"label": label})
	return string(b)
}

func errorsJSON(errs []services.ValidationError) string {
	b, _ := json.Marshal(errs)
	return string(b)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func optionSubtotal(items []services.QuoteItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Total
	}
	return total
}

var itemColumns = map[services.ItemType][]string{
	services.ItemMaterial:  {"Item", "Description", "m²", "Spray rate", "Quantity", "Unit price", "Total"},
	services.ItemEquipment: {"Item", "Units", "Hours", "Days", "Total hrs", "Rate", "Total"},
	services.ItemOther:     {"Item", "Quantity", "Unit price", "Total"},
}

func customerLine(q services.Quote) string {
	if addr := q.JobsiteAddress.String(); addr != "" {
		return q.CustomerName + " · " + addr
	}
	return q.CustomerName
}

func failureSummary(r *services.ImportResult) string {
	s := fmt.Sprintf("%d of %d rows failed", r.Failed, r.TotalRows)
	if r.RolledBack {
		s += " and their batch was rolled back"
	}
	return s + "."
}
