package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"pavingquotes/services"
	"pavingquotes/templates"
)

// HandleEstimateList renders the estimates that can be turned into quotes.
// Route: GET /estimates
func HandleEstimateList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		estimates, err := services.ListEstimates(app)
		if err != nil {
			log.Printf("estimate_list: HandleEstimateList: %v", err)
			return e.String(http.StatusInternalServerError, "Internal error")
		}

		items := make([]templates.EstimateListItem, 0, len(estimates))
		for _, est := range estimates {
			items = append(items, templates.EstimateListItem{
				ID:           est.ID,
				CustomerName: est.CustomerName(),
				Address:      est.JobsiteAddress.String(),
				OptionCount:  len(est.Options),
				TotalSqm:     est.TotalSqm(),
			})
		}

		if e.Request.Header.Get("HX-Request") == "true" {
			return templates.EstimateListContent(items).Render(e.Request.Context(), e.Response)
		}
		return templates.EstimateListPage(items, GetSidebarData(e.Request)).Render(e.Request.Context(), e.Response)
	}
}

// HandleEstimateSave stores an estimate posted as JSON. Shape areas and
// option totals are recomputed server-side; the saved estimate is returned.
// Route: POST /estimates
func HandleEstimateSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var est services.Estimate
		if err := json.NewDecoder(e.Request.Body).Decode(&est); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid estimate JSON"})
		}
		if est.CustomerName() == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "Customer name is required"})
		}

		err := services.SaveEstimate(app, &est)
		if errors.Is(err, services.ErrEstimateNotFound) {
			return e.JSON(http.StatusNotFound, map[string]string{"error": "Estimate not found"})
		}
		if err != nil {
			log.Printf("estimate_save: HandleEstimateSave: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not save the estimate"})
		}
		return e.JSON(http.StatusOK, est)
	}
}
