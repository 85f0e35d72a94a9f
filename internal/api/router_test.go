package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"carrental/internal/auth"
	"carrental/internal/db"
	"carrental/internal/entities"
	apperrors "carrental/internal/errors"
	"carrental/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	testUserSecret  = "user-secret"
	testAdminSecret = "admin-secret"
)

type testServer struct {
	router       *mux.Router
	reservations *mockReservationService
	checkout     *mockCheckoutService
	vehicles     *mockVehicleService
	users        *mockUserService
	adminAuth    *mockAdminAuth
	export       *mockExportService
	jobs         *mockJobRunner
}

func newTestServer(t *testing.T, withCheckout bool, limiter *RateLimiter) *testServer {
	t.Helper()
	s := &testServer{
		reservations: new(mockReservationService),
		checkout:     new(mockCheckoutService),
		vehicles:     new(mockVehicleService),
		users:        new(mockUserService),
		adminAuth:    new(mockAdminAuth),
		export:       new(mockExportService),
		jobs:         new(mockJobRunner),
	}
	var checkout CheckoutService
	if withCheckout {
		checkout = s.checkout
	}
	s.router = NewRouter(Handlers{
		Reservations: NewReservationHandler(s.reservations, checkout),
		Vehicles:     NewVehicleHandler(s.vehicles),
		Users:        NewUserHandler(s.users),
		AdminAuth:    NewAdminAuthHandler(s.adminAuth),
		Admin:        NewAdminHandler(s.export, s.jobs),
		Stripe:       NewStripeWebhookHandler("whsec_test", nil),
		UserSecret:   testUserSecret,
		AdminSecret:  testAdminSecret,
	}, limiter)
	return s
}

func (s *testServer) do(method, path, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) entities.ErrorResponse {
	t.Helper()
	var resp entities.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func bearer(t *testing.T, secret, role string, id int64) string {
	t.Helper()
	token, err := auth.IssueToken(secret, id, role, "alice", "alice@example.com", time.Hour, time.Now())
	require.NoError(t, err)
	return "Bearer " + token
}

func mustDate(s string) db.Date {
	d, err := db.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCreateReservationStatusMapping(t *testing.T) {
	body := `{"vehicle_id": 1, "user_id": 2, "start_date": "2030-03-12", "end_date": "2030-03-15"}`
	want := entities.AddReservationRequest{VehicleID: 1, UserID: 2, StartDate: mustDate("2030-03-12"), EndDate: mustDate("2030-03-15")}

	tests := []struct {
		name     string
		res      *db.Reservation
		err      error
		status   int
		wantKind string
	}{
		{"created", &db.Reservation{ID: 9, VehicleID: 1, UserID: 2, Status: db.StatusPending}, nil, http.StatusCreated, ""},
		{"overlap", nil, apperrors.Wrap(apperrors.KindVehicleUnavailable, "vehicle 1 is booked", errors.New("23P01")), http.StatusBadRequest, "vehicle_unavailable"},
		{"inverted range", nil, apperrors.ErrInvalidRange, http.StatusBadRequest, "invalid_range"},
		{"past start", nil, apperrors.ErrPastStartDate, http.StatusBadRequest, "past_start_date"},
		{"missing vehicle", nil, apperrors.New(apperrors.KindNotFound, "vehicle 1 not found"), http.StatusNotFound, "not_found"},
		{"store failure", nil, errors.New("pq: connection refused"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, false, nil)
			s.reservations.On("Create", mock.Anything, want).Return(tt.res, tt.err).Once()

			rec := s.do(http.MethodPost, "/api/reservations", body)
			assert.Equal(t, tt.status, rec.Code)
			if tt.err == nil {
				var got entities.ReservationResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
				assert.Equal(t, int64(9), got.ID)
				assert.Equal(t, "pending", got.Status)
			} else {
				resp := decodeError(t, rec)
				assert.Equal(t, tt.wantKind, resp.Kind)
				assert.Equal(t, tt.status, resp.Code)
				assert.NotContains(t, resp.Error, "pq:")
			}
			s.reservations.AssertExpectations(t)
		})
	}
}

func TestReservationBadRequests(t *testing.T) {
	s := newTestServer(t, false, nil)

	rec := s.do(http.MethodPost, "/api/reservations", `{"vehicle_id": 1,`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/reservations", `{"vehicle_id": 1, "user_id": 2, "start_date": "12/03/2030", "end_date": "2030-03-15"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/reservations/abc", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	s.reservations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateReservationUsesPathID(t *testing.T) {
	s := newTestServer(t, false, nil)
	s.reservations.On("Update", mock.Anything, mock.MatchedBy(func(req entities.UpdateReservationRequest) bool {
		return req.ReservationID == 5 && req.EndDate != nil && req.EndDate.String() == "2030-03-20" && req.StartDate == nil
	})).Return(&db.Reservation{ID: 5, Status: db.StatusConfirmed}, nil).Once()

	rec := s.do(http.MethodPut, "/api/reservations/5", `{"reservation_id": 99, "end_date": "2030-03-20"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	s.reservations.AssertExpectations(t)
}

func TestReservationTransitionsAndDelete(t *testing.T) {
	s := newTestServer(t, false, nil)
	s.reservations.On("Cancel", mock.Anything, int64(3)).Return(nil, apperrors.ErrAlreadyCancelled).Once()
	s.reservations.On("Confirm", mock.Anything, int64(4)).Return(&db.Reservation{ID: 4, Status: db.StatusConfirmed}, nil).Once()
	s.reservations.On("Delete", mock.Anything, int64(6)).Return(false, nil).Once()
	s.reservations.On("Delete", mock.Anything, int64(7)).Return(true, nil).Once()

	rec := s.do(http.MethodPost, "/api/reservations/3/cancel", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "already_cancelled", decodeError(t, rec).Kind)

	rec = s.do(http.MethodPost, "/api/reservations/4/confirm", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)

	rec = s.do(http.MethodDelete, "/api/reservations/6", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/reservations/7", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	s.reservations.AssertExpectations(t)
}

func TestCheckAvailability(t *testing.T) {
	s := newTestServer(t, false, nil)
	s.reservations.On("IsVehicleAvailable", mock.Anything, entities.IsVehicleAvailableRequest{
		VehicleID: 1, StartDate: mustDate("2030-03-05"), EndDate: mustDate("2030-03-06"),
	}).Return(false, nil).Once()

	rec := s.do(http.MethodPost, "/api/reservations/check-availability", `{"vehicle_id": 1, "start_date": "2030-03-05", "end_date": "2030-03-06"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"available": false}`, rec.Body.String())
}

func TestCheckout(t *testing.T) {
	disabled := newTestServer(t, false, nil)
	rec := disabled.do(http.MethodPost, "/api/reservations/1/checkout", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	s := newTestServer(t, true, nil)
	s.checkout.On("CreateCheckout", mock.Anything, int64(1)).Return(&entities.CheckoutResponse{
		ReservationID: 1, SessionID: "cs_1", URL: "https://checkout.example/cs_1", Amount: 9000, Currency: "eur",
	}, nil).Once()
	rec = s.do(http.MethodPost, "/api/reservations/1/checkout", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"session_id":"cs_1"`)
}

func TestVehicleSearch(t *testing.T) {
	s := newTestServer(t, false, nil)
	s.vehicles.On("SearchAvailable", mock.Anything, mustDate("2030-03-01"), mustDate("2030-03-04"), "Madrid").
		Return([]db.Vehicle{{ID: 1, Name: "Clio", Location: "Madrid"}}, nil).Once()

	rec := s.do(http.MethodGet, "/api/vehicles/search?start_date=2030-03-01&end_date=2030-03-04&location=Madrid", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var got []entities.VehicleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Clio", got[0].Name)

	rec = s.do(http.MethodGet, "/api/vehicles/search?start_date=tomorrow&end_date=2030-03-04&location=Madrid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	s.vehicles.AssertExpectations(t)
}

func TestUsersMe(t *testing.T) {
	s := newTestServer(t, false, nil)
	s.users.On("GetByID", mock.Anything, int64(7)).Return(&db.User{ID: 7, Username: "alice"}, nil).Once()

	rec := s.do(http.MethodGet, "/api/users/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/users/me", "", "Authorization", bearer(t, testAdminSecret, auth.RoleAdmin, 7))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/users/me", "", "Authorization", bearer(t, testUserSecret, auth.RoleUser, 7))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	s.users.AssertExpectations(t)
}

func TestRegisterConflict(t *testing.T) {
	s := newTestServer(t, false, nil)
	s.users.On("Register", mock.Anything, entities.RegisterRequest{Username: "alice", Password: "hunter22"}).
		Return(nil, apperrors.New(apperrors.KindConflict, "username alice is taken")).Once()

	rec := s.do(http.MethodPost, "/api/users/register", `{"username": "alice", "password": "hunter22"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "username alice is taken", decodeError(t, rec).Error)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t, false, nil)
	admin := bearer(t, testAdminSecret, auth.RoleAdmin, 1)

	rec := s.do(http.MethodPost, "/api/admin/jobs/run", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = s.do(http.MethodPost, "/api/admin/jobs/run", "", "Authorization", bearer(t, testAdminSecret, auth.RoleUser, 1))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	s.jobs.On("RunAll", mock.Anything).Return(service.JobResult{Completed: 3, Expired: 1}, nil).Once()
	rec = s.do(http.MethodPost, "/api/admin/jobs/run", "", "Authorization", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"completed": 3, "expired": 1}`, rec.Body.String())

	s.export.On("ExportReservations", mock.Anything, mustDate("2030-03-01"), mustDate("2030-03-31")).Return(excelize.NewFile(), nil).Once()
	rec = s.do(http.MethodGet, "/api/admin/reservations/export?start_date=2030-03-01&end_date=2030-03-31", "", "Authorization", admin)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "reservations_2030-03-01_2030-03-31.xlsx")
	assert.NotZero(t, rec.Body.Len())

	s.adminAuth.On("Login", mock.Anything, "root@example.com", "pw").Return("signed-token", nil).Once()
	rec = s.do(http.MethodPost, "/api/admin/login", `{"email": "root@example.com", "password": "pw"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token": "signed-token"}`, rec.Body.String())

	s.jobs.AssertExpectations(t)
	s.export.AssertExpectations(t)
}

func TestRequestIDHeader(t *testing.T) {
	s := newTestServer(t, false, nil)

	rec := s.do(http.MethodGet, "/api/health", "", "X-Request-ID", "req-123")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/api/health", "")
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}

func TestRateLimiter(t *testing.T) {
	s := newTestServer(t, false, NewRateLimiter(60, 2))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/health", "").Code)
	}
	rec := s.do(http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.RemoteAddr = "198.51.100.7:4000"
	other := httptest.NewRecorder()
	s.router.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code)

	// /metrics sits outside the limited subrouter.
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/metrics", "").Code)
}

func TestWrapForwardedHeaders(t *testing.T) {
	send := func(h http.Handler, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("X-Forwarded-For", forwardedFor)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	t.Run("untrusted proxy headers do not change the client", func(t *testing.T) {
		s := newTestServer(t, false, NewRateLimiter(60, 1))
		h := Wrap(s.router, ServerOptions{CORSOrigins: []string{"*"}})

		assert.Equal(t, http.StatusOK, send(h, "203.0.113.1"))
		assert.Equal(t, http.StatusTooManyRequests, send(h, "203.0.113.2"))
		assert.Equal(t, http.StatusTooManyRequests, send(h, "203.0.113.3"))
	})

	t.Run("trusted proxy headers identify the client", func(t *testing.T) {
		s := newTestServer(t, false, NewRateLimiter(60, 1))
		h := Wrap(s.router, ServerOptions{CORSOrigins: []string{"*"}, TrustProxy: true})

		assert.Equal(t, http.StatusOK, send(h, "203.0.113.1"))
		assert.Equal(t, http.StatusOK, send(h, "203.0.113.2"))
		assert.Equal(t, http.StatusTooManyRequests, send(h, "203.0.113.1"))
	})
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	rl.limiter("192.0.2.1")
	rl.Cleanup(time.Hour)
	assert.Len(t, rl.visitors, 1)
	rl.visitors["192.0.2.1"].lastSeen = time.Now().Add(-2 * time.Hour)
	rl.Cleanup(time.Hour)
	assert.Empty(t, rl.visitors)
}
