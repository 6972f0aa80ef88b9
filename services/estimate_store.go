package services

import (
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ErrEstimateNotFound is returned when no estimate has the requested id.
var ErrEstimateNotFound = errors.New("estimate not found")

// LoadEstimate reads an estimate record into an Estimate.
func LoadEstimate(app *pocketbase.PocketBase, id string) (Estimate, error) {
	record, err := app.FindRecordById("estimates", id)
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: %s", ErrEstimateNotFound, id)
	}
	return estimateFromRecord(record)
}

func estimateFromRecord(r *core.Record) (Estimate, error) {
	est := Estimate{
		ID:         r.Id,
		CustomerID: r.GetString("customer_id"),
		FirstName:  r.GetString("first_name"),
		LastName:   r.GetString("last_name"),
		Email:      r.GetString("email"),
		Phone:      r.GetString("phone"),
		Details:    r.GetString("details"),
		JobNotes:   r.GetString("job_notes"),
	}
	if err := unmarshalIfSet(r, "jobsite_address", &est.JobsiteAddress); err != nil {
		return Estimate{}, err
	}
	if err := unmarshalIfSet(r, "additional_items", &est.AdditionalItems); err != nil {
		return Estimate{}, err
	}
	if err := unmarshalIfSet(r, "options", &est.Options); err != nil {
		return Estimate{}, err
	}
	return est, nil
}

// unmarshalIfSet decodes a JSON field, leaving dst untouched when the field is empty.
func unmarshalIfSet(r *core.Record, field string, dst any) error {
	if r.GetString(field) == "" {
		return nil
	}
	if err := r.UnmarshalJSONField(field, dst); err != nil {
		return fmt.Errorf("decode %s of %s: %w", field, r.Id, err)
	}
	return nil
}

// SaveEstimate recomputes the estimate's areas and writes it. A new record is
// created when est.ID is empty; otherwise the existing record is overwritten.
// est.ID is set to the saved record id.
func SaveEstimate(app *pocketbase.PocketBase, est *Estimate) error {
	RecalculateAreas(est)

	var record *core.Record
	if est.ID != "" {
		existing, err := app.FindRecordById("estimates", est.ID)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrEstimateNotFound, est.ID)
		}
		record = existing
	} else {
		col, err := app.FindCollectionByNameOrId("estimates")
		if err != nil {
			return fmt.Errorf("estimates collection: %w", err)
		}
		record = core.NewRecord(col)
	}

	if est.AdditionalItems == nil {
		est.AdditionalItems = []AdditionalItem{}
	}
	if est.Options == nil {
		est.Options = []EstimateOption{}
	}

	record.Set("customer_id", est.CustomerID)
	record.Set("first_name", est.FirstName)
	record.Set("last_name", est.LastName)
	record.Set("email", est.Email)
	record.Set("phone", est.Phone)
	record.Set("details", est.Details)
	record.Set("job_notes", est.JobNotes)
	record.Set("jobsite_address", est.JobsiteAddress)
	record.Set("additional_items", est.AdditionalItems)
	record.Set("options", est.Options)
	record.Set("total_sqm", est.TotalSqm())

	if err := app.Save(record); err != nil {
		return fmt.Errorf("save estimate: %w", err)
	}
	est.ID = record.Id
	return nil
}

// ListEstimates returns all estimates, newest first.
func ListEstimates(app *pocketbase.PocketBase) ([]Estimate, error) {
	records, err := app.FindRecordsByFilter("estimates", "id != ''", "-created", 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list estimates: %w", err)
	}
	estimates := make([]Estimate, 0, len(records))
	for _, r := range records {
		est, err := estimateFromRecord(r)
		if err != nil {
			return nil, err
		}
		estimates = append(estimates, est)
	}
	return estimates, nil
}
