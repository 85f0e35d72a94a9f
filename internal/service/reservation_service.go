package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"carrental/internal/clock"
	"carrental/internal/db"
	"carrental/internal/entities"
	apperrors "carrental/internal/errors"
	"carrental/internal/metrics"
	"carrental/internal/repository"
)

type ReservationService struct {
	Repo     repository.ReservationStore
	checker  *AvailabilityChecker
	clock    clock.Clock
	notifier Notifier
}

func NewReservationService(repo repository.ReservationStore, clk clock.Clock, notifier Notifier) *ReservationService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &ReservationService{
		Repo:     repo,
		checker:  NewAvailabilityChecker(repo),
		clock:    clk,
		notifier: notifier,
	}
}

func (s *ReservationService) today() db.Date {
	return db.DateOf(s.clock.Now())
}

func (s *ReservationService) GetAll(ctx context.Context) ([]db.Reservation, error) {
	return s.Repo.List(ctx)
}

func (s *ReservationService) GetByID(ctx context.Context, id int64) (*db.Reservation, error) {
	res, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, reservationNotFound(id)
	}
	return res, nil
}

func (s *ReservationService) Search(ctx context.Context, req entities.SearchReservationRequest) ([]db.Reservation, error) {
	filter, err := req.Filter()
	if err != nil {
		return nil, err
	}
	return s.Repo.Search(ctx, filter)
}

func (s *ReservationService) IsVehicleAvailable(ctx context.Context, req entities.IsVehicleAvailableRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, err
	}
	if !req.StartDate.Before(req.EndDate) {
		return false, apperrors.ErrInvalidRange
	}
	return s.checker.IsAvailable(ctx, req.VehicleID, req.StartDate, req.EndDate, req.ExcludeID)
}

// Create books a vehicle. The vehicle row stays locked from the availability
// check until the insert commits, so concurrent bookings of one vehicle run
// one after another.
func (s *ReservationService) Create(ctx context.Context, req entities.AddReservationRequest) (*db.Reservation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, apperrors.ErrInvalidRange
	}
	if req.StartDate.Before(s.today()) {
		return nil, apperrors.ErrPastStartDate
	}

	reservation := &db.Reservation{
		VehicleID: req.VehicleID,
		UserID:    req.UserID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    db.StatusPending,
	}

	err := s.Repo.InTx(ctx, func(tx repository.ReservationStore) error {
		if err := checkReferences(ctx, tx, reservation.VehicleID, reservation.UserID); err != nil {
			return err
		}
		available, err := isAvailable(ctx, tx, reservation.VehicleID, reservation.StartDate, reservation.EndDate, nil)
		if err != nil {
			return err
		}
		if !available {
			metrics.IncReservationConflict("check")
			return apperrors.ErrVehicleUnavailable
		}
		return tx.Create(ctx, reservation)
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	log.Printf("Reservation %d created for vehicle %d (%s..%s)", reservation.ID, reservation.VehicleID, reservation.StartDate, reservation.EndDate)
	metrics.IncReservationCreated()
	s.notifier.ReservationChanged(ctx, *reservation)
	return reservation, nil
}

// Update merges the supplied fields over the reservation and re-checks the
// vehicle's availability against every other reservation.
func (s *ReservationService) Update(ctx context.Context, req entities.UpdateReservationRequest) (*db.Reservation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *db.Reservation
	err := s.Repo.InTx(ctx, func(tx repository.ReservationStore) error {
		current, err := tx.GetForUpdate(ctx, req.ReservationID)
		if err != nil {
			return err
		}
		if current == nil {
			return reservationNotFound(req.ReservationID)
		}
		if current.Status.IsTerminal() {
			return apperrors.Newf(apperrors.KindTerminalState, "cannot update %s reservation", current.Status)
		}

		candidate := *current
		if req.VehicleID != nil {
			candidate.VehicleID = *req.VehicleID
		}
		if req.UserID != nil {
			candidate.UserID = *req.UserID
		}
		if req.StartDate != nil {
			candidate.StartDate = *req.StartDate
		}
		if req.EndDate != nil {
			candidate.EndDate = *req.EndDate
		}
		if !candidate.StartDate.Before(candidate.EndDate) {
			return apperrors.ErrInvalidRange
		}

		if err := checkReferences(ctx, tx, candidate.VehicleID, candidate.UserID); err != nil {
			return err
		}
		available, err := isAvailable(ctx, tx, candidate.VehicleID, candidate.StartDate, candidate.EndDate, &candidate.ID)
		if err != nil {
			return err
		}
		if !available {
			metrics.IncReservationConflict("check")
			return apperrors.ErrVehicleUnavailable
		}
		if err := tx.Update(ctx, &candidate); err != nil {
			return err
		}
		updated = &candidate
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return updated, nil
}

func (s *ReservationService) Cancel(ctx context.Context, id int64) (*db.Reservation, error) {
	return s.transition(ctx, id, db.StatusCancelled, func(current db.ReservationStatus) error {
		switch current {
		case db.StatusCompleted:
			return apperrors.New(apperrors.KindTerminalState, "cannot cancel completed reservation")
		case db.StatusCancelled:
			return apperrors.ErrAlreadyCancelled
		}
		return nil
	})
}

func (s *ReservationService) Confirm(ctx context.Context, id int64) (*db.Reservation, error) {
	return s.transition(ctx, id, db.StatusConfirmed, func(current db.ReservationStatus) error {
		if current != db.StatusPending {
			return apperrors.Newf(apperrors.KindInvalidTransition, "cannot confirm %s reservation", current)
		}
		return nil
	})
}

// transition changes only the status, after allowed has accepted the current one.
func (s *ReservationService) transition(ctx context.Context, id int64, to db.ReservationStatus, allowed func(db.ReservationStatus) error) (*db.Reservation, error) {
	var res *db.Reservation
	err := s.Repo.InTx(ctx, func(tx repository.ReservationStore) error {
		current, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return reservationNotFound(id)
		}
		if err := allowed(current.Status); err != nil {
			return err
		}
		if err := tx.UpdateStatus(ctx, id, to); err != nil {
			return err
		}
		current.Status = to
		res = current
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err)
	}

	log.Printf("Reservation %d is now %s", id, to)
	metrics.IncReservationTransition(string(to))
	s.notifier.ReservationChanged(ctx, *res)
	return res, nil
}

// Delete removes the reservation regardless of its status and reports
// whether it existed.
func (s *ReservationService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted == nil {
		return false, nil
	}
	log.Printf("AUDIT: reservation %d hard deleted (vehicle %d, user %d, %s..%s, status %s)",
		deleted.ID, deleted.VehicleID, deleted.UserID, deleted.StartDate, deleted.EndDate, deleted.Status)
	metrics.IncReservationDeleted(string(deleted.Status))
	return true, nil
}

func checkReferences(ctx context.Context, tx repository.ReservationStore, vehicleID, userID int64) error {
	found, err := tx.LockVehicle(ctx, vehicleID)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.Newf(apperrors.KindNotFound, "vehicle %d not found", vehicleID)
	}
	found, err = tx.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.Newf(apperrors.KindNotFound, "user %d not found", userID)
	}
	return nil
}

// translateStoreError maps constraint violations the store reported after
// the checks passed.
func translateStoreError(err error) error {
	switch {
	case errors.Is(err, repository.ErrOverlap):
		metrics.IncReservationConflict("constraint")
		return apperrors.Wrap(apperrors.KindVehicleUnavailable, apperrors.ErrVehicleUnavailable.Message, err)
	case errors.Is(err, repository.ErrMissingReference):
		return apperrors.Wrap(apperrors.KindNotFound, "vehicle or user not found", err)
	}
	return err
}

func reservationNotFound(id int64) error {
	return apperrors.New(apperrors.KindNotFound, fmt.Sprintf("reservation %d not found", id))
}
