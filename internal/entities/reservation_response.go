package entities

import (
	"time"

	"carrental/internal/db"
)

type ReservationResponse struct {
	ID            int64     `json:"id"`
	VehicleID     int64     `json:"vehicle_id"`
	UserID        int64     `json:"user_id"`
	StartDate     db.Date   `json:"start_date"`
	EndDate       db.Date   `json:"end_date"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewReservationResponse(r db.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:            r.ID,
		VehicleID:     r.VehicleID,
		UserID:        r.UserID,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		Status:        string(r.Status),
		PaymentStatus: r.PaymentStatus,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func NewReservationResponses(rs []db.Reservation) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, NewReservationResponse(r))
	}
	return out
}

type CheckoutResponse struct {
	ReservationID int64  `json:"reservation_id"`
	SessionID     string `json:"session_id"`
	URL           string `json:"url"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Code  int    `json:"code"`
}
