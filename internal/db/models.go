package db

import "time"

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// ActiveStatuses are the statuses that hold a vehicle for their date range.
var ActiveStatuses = []ReservationStatus{StatusPending, StatusConfirmed}

func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func (s ReservationStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentRefunded  = "refunded"
)

type Reservation struct {
	ID              int64             `db:"id"`
	VehicleID       int64             `db:"vehicle_id"`
	UserID          int64             `db:"user_id"`
	StartDate       Date              `db:"start_date"`
	EndDate         Date              `db:"end_date"`
	Status          ReservationStatus `db:"status"`
	StripeSessionID string            `db:"stripe_session_id"`
	PaymentStatus   string            `db:"payment_status"`
	CreatedAt       time.Time         `db:"created_at"`
	UpdatedAt       time.Time         `db:"updated_at"`
}

// Overlaps reports whether the reservation's range intersects [start, end].
// Both ranges are inclusive, so touching end points count.
func (r Reservation) Overlaps(start, end Date) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}

// IsActive reports whether the reservation is ongoing or in the future.
func (r Reservation) IsActive(today Date) bool {
	return !r.EndDate.Before(today)
}

// Days is the number of rental days billed for the reservation.
func (r Reservation) Days() int {
	days := r.StartDate.DaysUntil(r.EndDate)
	if days < 1 {
		return 1
	}
	return days
}

type Vehicle struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	Brand       string `db:"brand"`
	Model       string `db:"model"`
	Year        int    `db:"year"`
	PlateNumber string `db:"plate_number"`
	Color       string `db:"color"`
	DailyRate   int64  `db:"daily_rate"`
	IsAvailable bool   `db:"is_available"`
	Location    string `db:"location"`
}

type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	CreatedAt    time.Time `db:"created_at"`
}

type Admin struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
}

// ReservationFilter narrows a reservation search. Zero values are ignored.
type ReservationFilter struct {
	UserID    int64
	VehicleID int64
	StartFrom *Date // reservation start_date >= StartFrom
	EndUntil  *Date // reservation end_date <= EndUntil
	Status    ReservationStatus
}

// OverlapQuery selects reservations of one vehicle whose range intersects [Start, End].
type OverlapQuery struct {
	VehicleID int64
	Start     Date
	End       Date
	Statuses  []ReservationStatus
	ExcludeID *int64
}
