package entities

import "carrental/internal/db"

type IsVehicleAvailableRequest struct {
	VehicleID int64   `json:"vehicle_id"`
	StartDate db.Date `json:"start_date"`
	EndDate   db.Date `json:"end_date"`
	ExcludeID *int64  `json:"exclude_id,omitempty"`
}

func (r IsVehicleAvailableRequest) Validate() error {
	if r.VehicleID <= 0 {
		return validationError("vehicle_id is required")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return validationError("start_date and end_date are required")
	}
	return nil
}

type AvailabilityResponse struct {
	Available bool `json:"available"`
}
