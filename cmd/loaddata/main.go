// Command loaddata seeds the database from JSON or YAML fixture files.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"carrental/internal/clock"
	"carrental/internal/config"
	"carrental/internal/db"
	"carrental/internal/repository"
	"carrental/internal/service"
)

func main() {
	usersFile := flag.String("users", "", "users fixture file")
	vehiclesFile := flag.String("vehicles", "", "vehicles fixture file")
	reservationsFile := flag.String("reservations", "", "reservations fixture file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatalf("%v", err)
	}

	clk := clock.Real{Location: cfg.Location}
	loader := service.NewFixtureLoader(
		service.NewUserService(repository.NewUserRepository(conn), cfg.JWTSecret, clk),
		repository.NewVehicleRepository(conn),
		repository.NewReservationRepository(conn),
	)

	// Order matters: reservations reference users and vehicles.
	if *usersFile != "" {
		items := mustDecode[service.UserFixture](*usersFile)
		if _, err := loader.LoadUsers(ctx, items); err != nil {
			log.Fatalf("Loading users failed: %v", err)
		}
	}
	if *vehiclesFile != "" {
		items := mustDecode[service.VehicleFixture](*vehiclesFile)
		if _, err := loader.LoadVehicles(ctx, items); err != nil {
			log.Fatalf("Loading vehicles failed: %v", err)
		}
	}
	if *reservationsFile != "" {
		items := mustDecode[service.ReservationFixture](*reservationsFile)
		if _, err := loader.LoadReservations(ctx, items); err != nil {
			log.Fatalf("Loading reservations failed: %v", err)
		}
	}
}

func mustDecode[T any](path string) []T {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("%s not found: %v", path, err)
	}
	defer f.Close()
	items, err := service.DecodeFixtures[T](f)
	if err != nil {
		log.Fatalf("%s: %v", path, err)
	}
	return items
}
