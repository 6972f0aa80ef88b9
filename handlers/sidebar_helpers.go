package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"

	"pavingquotes/templates"
)

// BuildSidebarData constructs the SidebarData for the current request,
// counting the records behind each navigation entry.
func BuildSidebarData(r *http.Request, app *pocketbase.PocketBase) templates.SidebarData {
	data := templates.SidebarData{
		ActivePath: r.URL.Path,
	}

	counts := map[string]*int{
		"quotes":          &data.QuoteCount,
		"estimates":       &data.EstimateCount,
		"materials":       &data.MaterialCount,
		"equipment_items": &data.EquipmentCount,
	}
	for collection, countPtr := range counts {
		n, err := app.CountRecords(collection)
		if err == nil {
			*countPtr = int(n)
		}
	}

	return data
}
