package api

import (
	"context"

	"carrental/internal/db"
	"carrental/internal/entities"
	"carrental/internal/service"

	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
)

type mockReservationService struct{ mock.Mock }

func (m *mockReservationService) GetAll(ctx context.Context) ([]db.Reservation, error) {
	args := m.Called(ctx)
	rs, _ := args.Get(0).([]db.Reservation)
	return rs, args.Error(1)
}

func (m *mockReservationService) GetByID(ctx context.Context, id int64) (*db.Reservation, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*db.Reservation)
	return res, args.Error(1)
}

func (m *mockReservationService) Search(ctx context.Context, req entities.SearchReservationRequest) ([]db.Reservation, error) {
	args := m.Called(ctx, req)
	rs, _ := args.Get(0).([]db.Reservation)
	return rs, args.Error(1)
}

func (m *mockReservationService) IsVehicleAvailable(ctx context.Context, req entities.IsVehicleAvailableRequest) (bool, error) {
	args := m.Called(ctx, req)
	return args.Bool(0), args.Error(1)
}

func (m *mockReservationService) Create(ctx context.Context, req entities.AddReservationRequest) (*db.Reservation, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*db.Reservation)
	return res, args.Error(1)
}

func (m *mockReservationService) Update(ctx context.Context, req entities.UpdateReservationRequest) (*db.Reservation, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*db.Reservation)
	return res, args.Error(1)
}

func (m *mockReservationService) Cancel(ctx context.Context, id int64) (*db.Reservation, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*db.Reservation)
	return res, args.Error(1)
}

func (m *mockReservationService) Confirm(ctx context.Context, id int64) (*db.Reservation, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*db.Reservation)
	return res, args.Error(1)
}

func (m *mockReservationService) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockCheckoutService struct{ mock.Mock }

func (m *mockCheckoutService) CreateCheckout(ctx context.Context, reservationID int64) (*entities.CheckoutResponse, error) {
	args := m.Called(ctx, reservationID)
	resp, _ := args.Get(0).(*entities.CheckoutResponse)
	return resp, args.Error(1)
}

type mockPaymentEvents struct{ mock.Mock }

func (m *mockPaymentEvents) HandleCheckoutCompleted(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *mockPaymentEvents) HandleChargeRefunded(ctx context.Context, paymentIntentID string) error {
	return m.Called(ctx, paymentIntentID).Error(0)
}

type mockVehicleService struct{ mock.Mock }

func (m *mockVehicleService) GetAll(ctx context.Context) ([]db.Vehicle, error) {
	args := m.Called(ctx)
	vs, _ := args.Get(0).([]db.Vehicle)
	return vs, args.Error(1)
}

func (m *mockVehicleService) GetByID(ctx context.Context, id int64) (*db.Vehicle, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*db.Vehicle)
	return v, args.Error(1)
}

func (m *mockVehicleService) SearchAvailable(ctx context.Context, start, end db.Date, location string) ([]db.Vehicle, error) {
	args := m.Called(ctx, start, end, location)
	vs, _ := args.Get(0).([]db.Vehicle)
	return vs, args.Error(1)
}

func (m *mockVehicleService) Create(ctx context.Context, req entities.CreateVehicleRequest) (*db.Vehicle, error) {
	args := m.Called(ctx, req)
	v, _ := args.Get(0).(*db.Vehicle)
	return v, args.Error(1)
}

func (m *mockVehicleService) Update(ctx context.Context, id int64, req entities.UpdateVehicleRequest) (*db.Vehicle, error) {
	args := m.Called(ctx, id, req)
	v, _ := args.Get(0).(*db.Vehicle)
	return v, args.Error(1)
}

func (m *mockVehicleService) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) Register(ctx context.Context, req entities.RegisterRequest) (*db.User, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*db.User)
	return u, args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, req entities.LoginRequest) (*entities.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*entities.LoginResponse)
	return resp, args.Error(1)
}

func (m *mockUserService) GetAll(ctx context.Context) ([]db.User, error) {
	args := m.Called(ctx)
	us, _ := args.Get(0).([]db.User)
	return us, args.Error(1)
}

func (m *mockUserService) GetByID(ctx context.Context, id int64) (*db.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*db.User)
	return u, args.Error(1)
}

func (m *mockUserService) Delete(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockAdminAuth struct{ mock.Mock }

func (m *mockAdminAuth) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *mockAdminAuth) CreateAdmin(ctx context.Context, email, password string) error {
	return m.Called(ctx, email, password).Error(0)
}

type mockExportService struct{ mock.Mock }

func (m *mockExportService) ExportReservations(ctx context.Context, start, end db.Date) (*excelize.File, error) {
	args := m.Called(ctx, start, end)
	f, _ := args.Get(0).(*excelize.File)
	return f, args.Error(1)
}

type mockJobRunner struct{ mock.Mock }

func (m *mockJobRunner) RunAll(ctx context.Context) (service.JobResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.JobResult), args.Error(1)
}
