package entities

import (
	"carrental/internal/db"
	apperrors "carrental/internal/errors"
)

type AddReservationRequest struct {
	VehicleID int64   `json:"vehicle_id"`
	UserID    int64   `json:"user_id"`
	StartDate db.Date `json:"start_date"`
	EndDate   db.Date `json:"end_date"`
}

func (r AddReservationRequest) Validate() error {
	if r.VehicleID <= 0 || r.UserID <= 0 {
		return validationError("vehicle_id and user_id are required")
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		return validationError("start_date and end_date are required")
	}
	return nil
}

// UpdateReservationRequest carries the fields to change; nil fields keep
// their current value.
type UpdateReservationRequest struct {
	ReservationID int64    `json:"reservation_id"`
	VehicleID     *int64   `json:"vehicle_id,omitempty"`
	UserID        *int64   `json:"user_id,omitempty"`
	StartDate     *db.Date `json:"start_date,omitempty"`
	EndDate       *db.Date `json:"end_date,omitempty"`
}

func (r UpdateReservationRequest) Validate() error {
	if r.ReservationID <= 0 {
		return validationError("reservation_id is required")
	}
	if r.VehicleID != nil && *r.VehicleID <= 0 {
		return validationError("vehicle_id must be positive")
	}
	if r.UserID != nil && *r.UserID <= 0 {
		return validationError("user_id must be positive")
	}
	return nil
}

type SearchReservationRequest struct {
	UserID    int64    `json:"user_id,omitempty"`
	VehicleID int64    `json:"vehicle_id,omitempty"`
	StartDate *db.Date `json:"start_date,omitempty"`
	EndDate   *db.Date `json:"end_date,omitempty"`
	Status    string   `json:"status,omitempty"`
}

func (r SearchReservationRequest) Filter() (db.ReservationFilter, error) {
	status := db.ReservationStatus(r.Status)
	if status != "" && !status.Valid() {
		return db.ReservationFilter{}, validationError("unknown status " + r.Status)
	}
	return db.ReservationFilter{
		UserID:    r.UserID,
		VehicleID: r.VehicleID,
		StartFrom: r.StartDate,
		EndUntil:  r.EndDate,
		Status:    status,
	}, nil
}

func validationError(msg string) error {
	return apperrors.New(apperrors.KindValidation, msg)
}
