package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"carrental/internal/db"
	"carrental/internal/entities"
	apperrors "carrental/internal/errors"
	"carrental/internal/repository"
	"carrental/internal/utils"

	"gopkg.in/yaml.v3"
)

type UserFixture struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
}

type VehicleFixture struct {
	Name        string `yaml:"name"`
	Brand       string `yaml:"brand"`
	Model       string `yaml:"model"`
	Year        int    `yaml:"year"`
	PlateNumber string `yaml:"plate_number"`
	Color       string `yaml:"color"`
	DailyRate   int64  `yaml:"daily_rate"`
	IsAvailable *bool  `yaml:"is_available"`
	Location    string `yaml:"location"`
}

type ReservationFixture struct {
	User      int64  `yaml:"user"`
	Vehicle   int64  `yaml:"vehicle"`
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`
	Status    string `yaml:"status"`
}

type FixtureSummary struct {
	Created int
	Skipped int
}

// DecodeFixtures reads a YAML or JSON array of records.
func DecodeFixtures[T any](r io.Reader) ([]T, error) {
	var out []T
	if err := yaml.NewDecoder(r).Decode(&out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("error decoding fixtures: %w", err)
	}
	return out, nil
}

// FixtureLoader seeds the database. Records that already exist or that the
// store rejects are skipped and logged.
type FixtureLoader struct {
	users        *UserService
	vehicles     repository.VehicleStore
	reservations repository.ReservationStore
}

func NewFixtureLoader(users *UserService, vehicles repository.VehicleStore, reservations repository.ReservationStore) *FixtureLoader {
	return &FixtureLoader{users: users, vehicles: vehicles, reservations: reservations}
}

func (l *FixtureLoader) LoadUsers(ctx context.Context, items []UserFixture) (FixtureSummary, error) {
	var sum FixtureSummary
	for _, item := range items {
		_, err := l.users.Register(ctx, entities.RegisterRequest{
			Username: item.Username,
			Password: item.Password,
			Email:    item.Email,
			Phone:    item.Phone,
		})
		switch {
		case err == nil:
			sum.Created++
		case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrValidation):
			log.Printf("User '%s' skipped: %s", item.Username, apperrors.Message(err))
			sum.Skipped++
		default:
			return sum, err
		}
	}
	log.Printf("Successfully created %d users (skipped: %d)", sum.Created, sum.Skipped)
	return sum, nil
}

func (l *FixtureLoader) LoadVehicles(ctx context.Context, items []VehicleFixture) (FixtureSummary, error) {
	var sum FixtureSummary
	for _, item := range items {
		available := true
		if item.IsAvailable != nil {
			available = *item.IsAvailable
		}
		v := &db.Vehicle{
			Name:        item.Name,
			Brand:       item.Brand,
			Model:       item.Model,
			Year:        item.Year,
			PlateNumber: utils.NormalizePlate(item.PlateNumber),
			Color:       item.Color,
			DailyRate:   item.DailyRate,
			IsAvailable: available,
			Location:    utils.NormalizeLocation(item.Location),
		}
		err := l.vehicles.Create(ctx, v)
		switch {
		case err == nil:
			sum.Created++
		case errors.Is(err, repository.ErrDuplicate):
			log.Printf("Vehicle with plate %s already exists, skipped", v.PlateNumber)
			sum.Skipped++
		default:
			return sum, err
		}
	}
	log.Printf("Inserted %d vehicles (skipped: %d)", sum.Created, sum.Skipped)
	return sum, nil
}

// LoadReservations inserts reservations as given, including historical
// dates and any status. The overlap rule still applies to active ones.
func (l *FixtureLoader) LoadReservations(ctx context.Context, items []ReservationFixture) (FixtureSummary, error) {
	var sum FixtureSummary
	for _, item := range items {
		res, err := item.toReservation()
		if err != nil {
			log.Printf("Reservation fixture skipped: %v", err)
			sum.Skipped++
			continue
		}

		exists, err := l.reservationExists(ctx, res)
		if err != nil {
			return sum, err
		}
		if exists {
			log.Printf("Reservation for user %d and vehicle %d on %s already exists, skipped", res.UserID, res.VehicleID, res.StartDate)
			sum.Skipped++
			continue
		}

		err = l.reservations.Create(ctx, &res)
		switch {
		case err == nil:
			sum.Created++
		case errors.Is(err, repository.ErrOverlap):
			log.Printf("Reservation for vehicle %d on %s..%s overlaps an active reservation, skipped", res.VehicleID, res.StartDate, res.EndDate)
			sum.Skipped++
		case errors.Is(err, repository.ErrMissingReference):
			log.Printf("User %d or vehicle %d not found, skipped", res.UserID, res.VehicleID)
			sum.Skipped++
		default:
			return sum, err
		}
	}
	log.Printf("Successfully created %d reservations (skipped: %d)", sum.Created, sum.Skipped)
	return sum, nil
}

func (l *FixtureLoader) reservationExists(ctx context.Context, res db.Reservation) (bool, error) {
	start, end := res.StartDate, res.EndDate
	existing, err := l.reservations.Search(ctx, db.ReservationFilter{
		UserID:    res.UserID,
		VehicleID: res.VehicleID,
		StartFrom: &start,
		EndUntil:  &end,
	})
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e.StartDate.Equal(start) && e.EndDate.Equal(end) {
			return true, nil
		}
	}
	return false, nil
}

func (f ReservationFixture) toReservation() (db.Reservation, error) {
	start, err := db.ParseDate(f.StartDate)
	if err != nil {
		return db.Reservation{}, err
	}
	end, err := db.ParseDate(f.EndDate)
	if err != nil {
		return db.Reservation{}, err
	}
	if !start.Before(end) {
		return db.Reservation{}, fmt.Errorf("range %s..%s is empty", start, end)
	}
	status := db.ReservationStatus(f.Status)
	if status == "" {
		status = db.StatusPending
	}
	if !status.Valid() {
		return db.Reservation{}, fmt.Errorf("unknown status %q", f.Status)
	}
	return db.Reservation{
		VehicleID: f.Vehicle,
		UserID:    f.User,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}, nil
}
