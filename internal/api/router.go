package api

import (
	"io"
	"net/http"

	"carrental/internal/auth"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Reservations *ReservationHandler
	Vehicles     *VehicleHandler
	Users        *UserHandler
	AdminAuth    *AdminAuthHandler
	Admin        *AdminHandler
	Stripe       *StripeWebhookHandler

	UserSecret  string
	AdminSecret string
}

// NewRouter builds the application routes. Rate limiting applies to /api only.
func NewRouter(h Handlers, limiter *RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, Metrics)

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	a := r.PathPrefix("/api").Subrouter()
	if limiter != nil {
		a.Use(limiter.Middleware)
	}
	a.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// Users
	a.HandleFunc("/users/register", h.Users.Register).Methods("POST")
	a.HandleFunc("/users/login", h.Users.Login).Methods("POST")
	a.Handle("/users/me", auth.RequireRole(h.UserSecret, auth.RoleUser)(http.HandlerFunc(h.Users.Me))).Methods("GET")
	a.HandleFunc("/users", h.Users.List).Methods("GET")
	a.HandleFunc("/users/{id:[0-9]+}", h.Users.Get).Methods("GET")
	a.HandleFunc("/users/{id:[0-9]+}", h.Users.Delete).Methods("DELETE")

	// Vehicles
	a.HandleFunc("/vehicles", h.Vehicles.List).Methods("GET")
	a.HandleFunc("/vehicles", h.Vehicles.Create).Methods("POST")
	a.HandleFunc("/vehicles/search", h.Vehicles.SearchAvailable).Methods("GET")
	a.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Get).Methods("GET")
	a.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Update).Methods("PUT")
	a.HandleFunc("/vehicles/{id:[0-9]+}", h.Vehicles.Delete).Methods("DELETE")

	// Reservations
	a.HandleFunc("/reservations", h.Reservations.List).Methods("GET")
	a.HandleFunc("/reservations", h.Reservations.Create).Methods("POST")
	a.HandleFunc("/reservations", h.Reservations.Update).Methods("PUT")
	a.HandleFunc("/reservations/search", h.Reservations.Search).Methods("POST")
	a.HandleFunc("/reservations/check-availability", h.Reservations.CheckAvailability).Methods("POST")
	a.HandleFunc("/reservations/{id:[0-9]+}", h.Reservations.Get).Methods("GET")
	a.HandleFunc("/reservations/{id:[0-9]+}", h.Reservations.Update).Methods("PUT")
	a.HandleFunc("/reservations/{id:[0-9]+}", h.Reservations.Delete).Methods("DELETE")
	a.HandleFunc("/reservations/{id:[0-9]+}/confirm", h.Reservations.Confirm).Methods("POST")
	a.HandleFunc("/reservations/{id:[0-9]+}/cancel", h.Reservations.Cancel).Methods("POST")
	a.HandleFunc("/reservations/{id:[0-9]+}/checkout", h.Reservations.CreateCheckout).Methods("POST")

	// Payments
	a.HandleFunc("/stripe/webhook", h.Stripe.HandleWebhook).Methods("POST")

	// Admin
	a.HandleFunc("/admin/login", h.AdminAuth.Login).Methods("POST")
	admin := a.PathPrefix("/admin").Subrouter()
	admin.Use(auth.AdminAuthMiddleware(h.AdminSecret))
	admin.HandleFunc("/admins", h.AdminAuth.CreateUserAdmin).Methods("POST")
	admin.HandleFunc("/reservations/export", h.Admin.ExportReservations).Methods("GET")
	admin.HandleFunc("/jobs/run", h.Admin.RunJobs).Methods("POST")

	return r
}

type ServerOptions struct {
	CORSOrigins []string
	AccessLog   io.Writer
	// TrustProxy rewrites RemoteAddr from X-Forwarded-For and X-Real-IP.
	// Without a proxy that overwrites them, clients could pick their own
	// rate limit key.
	TrustProxy bool
}

// Wrap puts CORS, panic recovery and access logging around the router.
func Wrap(h http.Handler, opts ServerOptions) http.Handler {
	h = handlers.CORS(
		handlers.AllowedOrigins(opts.CORSOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Stripe-Signature", "X-Request-ID"}),
	)(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	if opts.AccessLog != nil {
		h = handlers.CombinedLoggingHandler(opts.AccessLog, h)
	}
	if opts.TrustProxy {
		h = handlers.ProxyHeaders(h)
	}
	return h
}
