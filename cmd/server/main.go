package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carrental/internal/api"
	"carrental/internal/clock"
	"carrental/internal/config"
	"carrental/internal/db"
	"carrental/internal/metrics"
	"carrental/internal/repository"
	"carrental/internal/service"

	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatalf("%v", err)
	}

	metrics.Register()
	clk := clock.Real{Location: cfg.Location}

	reservationRepo := repository.NewReservationRepository(conn)
	vehicleRepo := repository.NewVehicleRepository(conn)
	userRepo := repository.NewUserRepository(conn)

	var vehicleCache repository.VehicleCache = repository.NoopVehicleCache{}
	if cfg.Redis.Address != "" {
		client, err := repository.NewRedisClient(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Printf("Warning: Redis unavailable, vehicle cache disabled: %v", err)
		} else {
			defer client.Close()
			vehicleCache = repository.NewRedisVehicleCache(client, cfg.Redis.TTL)
		}
	}

	notifier := service.NewNotificationService(userRepo, vehicleRepo,
		service.NewEmailSender(cfg.Mail), service.NewSMSSender(cfg.Twilio), clk)
	reservationService := service.NewReservationService(reservationRepo, clk, notifier)
	vehicleService := service.NewVehicleService(vehicleRepo, vehicleCache)
	userService := service.NewUserService(userRepo, cfg.JWTSecret, clk)
	adminAuthService := service.NewAdminAuthService(repository.NewAdminAuthRepository(conn), cfg.AdminJWTSecret, clk)
	adminService := service.NewAdminService(repository.NewAdminRepository(conn))
	jobService := service.NewJobService(repository.NewJobRepository(conn), clk)

	var checkout api.CheckoutService
	var paymentEvents api.PaymentEventService
	if cfg.Stripe.SecretKey != "" {
		payments := service.NewPaymentService(reservationService, vehicleRepo, userRepo,
			repository.NewStripeRepository(conn), service.NewStripeService(cfg.Stripe), cfg.Stripe.Currency)
		checkout, paymentEvents = payments, payments
	} else {
		log.Println("Warning: STRIPE_SECRET_KEY not set. Checkout is disabled.")
	}

	c := cron.New(cron.WithLocation(cfg.Location))
	if err := jobService.Schedule(c, cfg.JobSchedule); err != nil {
		log.Fatalf("%v", err)
	}
	c.Start()

	limiter := api.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	go limiter.Run(ctx, 10*time.Minute)

	r := api.NewRouter(api.Handlers{
		Reservations: api.NewReservationHandler(reservationService, checkout),
		Vehicles:     api.NewVehicleHandler(vehicleService),
		Users:        api.NewUserHandler(userService),
		AdminAuth:    api.NewAdminAuthHandler(adminAuthService),
		Admin:        api.NewAdminHandler(adminService, jobService),
		Stripe:       api.NewStripeWebhookHandler(cfg.Stripe.WebhookSecret, paymentEvents),
		UserSecret:   cfg.JWTSecret,
		AdminSecret:  cfg.AdminJWTSecret,
	}, limiter)

	h := api.Wrap(r, api.ServerOptions{
		CORSOrigins: cfg.CORSOrigins,
		AccessLog:   os.Stdout,
		TrustProxy:  cfg.TrustProxy,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	<-c.Stop().Done()
	notifier.Wait()
	log.Println("Server stopped")
}
