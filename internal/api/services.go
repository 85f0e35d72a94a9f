package api

import (
	"context"

	"carrental/internal/db"
	"carrental/internal/entities"
	"carrental/internal/service"

	"github.com/xuri/excelize/v2"
)

// The handlers depend on these rather than on the concrete services.

type ReservationService interface {
	GetAll(ctx context.Context) ([]db.Reservation, error)
	GetByID(ctx context.Context, id int64) (*db.Reservation, error)
	Search(ctx context.Context, req entities.SearchReservationRequest) ([]db.Reservation, error)
	IsVehicleAvailable(ctx context.Context, req entities.IsVehicleAvailableRequest) (bool, error)
	Create(ctx context.Context, req entities.AddReservationRequest) (*db.Reservation, error)
	Update(ctx context.Context, req entities.UpdateReservationRequest) (*db.Reservation, error)
	Cancel(ctx context.Context, id int64) (*db.Reservation, error)
	Confirm(ctx context.Context, id int64) (*db.Reservation, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type CheckoutService interface {
	CreateCheckout(ctx context.Context, reservationID int64) (*entities.CheckoutResponse, error)
}

type PaymentEventService interface {
	HandleCheckoutCompleted(ctx context.Context, sessionID string) error
	HandleChargeRefunded(ctx context.Context, paymentIntentID string) error
}

type VehicleService interface {
	GetAll(ctx context.Context) ([]db.Vehicle, error)
	GetByID(ctx context.Context, id int64) (*db.Vehicle, error)
	SearchAvailable(ctx context.Context, start, end db.Date, location string) ([]db.Vehicle, error)
	Create(ctx context.Context, req entities.CreateVehicleRequest) (*db.Vehicle, error)
	Update(ctx context.Context, id int64, req entities.UpdateVehicleRequest) (*db.Vehicle, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type UserService interface {
	Register(ctx context.Context, req entities.RegisterRequest) (*db.User, error)
	Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error)
	GetAll(ctx context.Context) ([]db.User, error)
	GetByID(ctx context.Context, id int64) (*db.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type ExportService interface {
	ExportReservations(ctx context.Context, start, end db.Date) (*excelize.File, error)
}

type JobRunner interface {
	RunAll(ctx context.Context) (service.JobResult, error)
}
