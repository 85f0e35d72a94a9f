package service

import (
	"context"

	"carrental/internal/db"
	"carrental/internal/repository"
)

// AvailabilityChecker answers whether a vehicle is free for a date range.
// It does not validate the range; callers reject start >= end first.
type AvailabilityChecker struct {
	Repo repository.ReservationStore
}

func NewAvailabilityChecker(repo repository.ReservationStore) *AvailabilityChecker {
	return &AvailabilityChecker{Repo: repo}
}

// IsAvailable reports whether no pending or confirmed reservation of the
// vehicle overlaps [start, end], ignoring excludeID when it is set.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, vehicleID int64, start, end db.Date, excludeID *int64) (bool, error) {
	return isAvailable(ctx, c.Repo, vehicleID, start, end, excludeID)
}

func isAvailable(ctx context.Context, store repository.ReservationStore, vehicleID int64, start, end db.Date, excludeID *int64) (bool, error) {
	overlapping, err := store.HasOverlap(ctx, db.OverlapQuery{
		VehicleID: vehicleID,
		Start:     start,
		End:       end,
		Statuses:  db.ActiveStatuses,
		ExcludeID: excludeID,
	})
	if err != nil {
		return false, err
	}
	return !overlapping, nil
}
