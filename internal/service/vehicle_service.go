package service

import (
	"context"
	"errors"
	"strings"

	"carrental/internal/db"
	"carrental/internal/entities"
	apperrors "carrental/internal/errors"
	"carrental/internal/repository"
	"carrental/internal/utils"
)

type VehicleService struct {
	Repo  repository.VehicleStore
	cache repository.VehicleCache
}

func NewVehicleService(repo repository.VehicleStore, cache repository.VehicleCache) *VehicleService {
	if cache == nil {
		cache = repository.NoopVehicleCache{}
	}
	return &VehicleService{Repo: repo, cache: cache}
}

func (s *VehicleService) GetAll(ctx context.Context) ([]db.Vehicle, error) {
	return s.Repo.List(ctx)
}

func (s *VehicleService) GetByID(ctx context.Context, id int64) (*db.Vehicle, error) {
	if v, ok := s.cache.Get(ctx, id); ok {
		return v, nil
	}
	v, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, vehicleNotFound(id)
	}
	s.cache.Set(ctx, *v)
	return v, nil
}

// SearchAvailable lists bookable vehicles at location that are free for
// the whole of [start, end].
func (s *VehicleService) SearchAvailable(ctx context.Context, start, end db.Date, location string) ([]db.Vehicle, error) {
	if start.IsZero() || end.IsZero() {
		return nil, apperrors.New(apperrors.KindValidation, "start_date and end_date are required")
	}
	if !start.Before(end) {
		return nil, apperrors.ErrInvalidRange
	}
	location = utils.NormalizeLocation(location)
	if location == "" {
		return nil, apperrors.New(apperrors.KindValidation, "location is required")
	}
	return s.Repo.ListAvailable(ctx, location, start, end, db.ActiveStatuses)
}

func (s *VehicleService) Create(ctx context.Context, req entities.CreateVehicleRequest) (*db.Vehicle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	v := &db.Vehicle{
		Name:        strings.TrimSpace(req.Name),
		Brand:       strings.TrimSpace(req.Brand),
		Model:       strings.TrimSpace(req.Model),
		Year:        req.Year,
		PlateNumber: utils.NormalizePlate(req.PlateNumber),
		Color:       strings.TrimSpace(req.Color),
		DailyRate:   req.DailyRate,
		IsAvailable: true,
		Location:    utils.NormalizeLocation(req.Location),
	}
	if err := s.Repo.Create(ctx, v); err != nil {
		return nil, translateVehicleError(err, v.PlateNumber)
	}
	return v, nil
}

func (s *VehicleService) Update(ctx context.Context, id int64, req entities.UpdateVehicleRequest) (*db.Vehicle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	v, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, vehicleNotFound(id)
	}
	req.Apply(v)
	v.PlateNumber = utils.NormalizePlate(v.PlateNumber)
	v.Location = utils.NormalizeLocation(v.Location)

	if err := s.Repo.Update(ctx, v); err != nil {
		return nil, translateVehicleError(err, v.PlateNumber)
	}
	s.cache.Invalidate(ctx, id)
	return v, nil
}

// Delete removes the vehicle together with its reservations.
func (s *VehicleService) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	s.cache.Invalidate(ctx, id)
	return deleted, nil
}

func translateVehicleError(err error, plate string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return apperrors.Newf(apperrors.KindConflict, "vehicle with plate %s already exists", plate)
	}
	return err
}

func vehicleNotFound(id int64) error {
	return apperrors.Newf(apperrors.KindNotFound, "vehicle %d not found", id)
}
