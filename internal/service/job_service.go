package service

import (
	"context"
	"fmt"
	"log"

	"carrental/internal/clock"
	"carrental/internal/db"
	"carrental/internal/metrics"
	"carrental/internal/repository"

	"github.com/robfig/cron/v3"
)

type JobService struct {
	Repo  repository.JobStore
	clock clock.Clock
}

func NewJobService(repo repository.JobStore, clk clock.Clock) *JobService {
	return &JobService{Repo: repo, clock: clk}
}

type JobResult struct {
	Completed int64 `json:"completed"`
	Expired   int64 `json:"expired"`
}

// Schedule registers RunAll on c.
func (s *JobService) Schedule(c *cron.Cron, spec string) error {
	_, err := c.AddFunc(spec, func() {
		if _, err := s.RunAll(context.Background()); err != nil {
			log.Printf("Cron Job: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid job schedule %q: %w", spec, err)
	}
	return nil
}

func (s *JobService) RunAll(ctx context.Context) (JobResult, error) {
	var result JobResult
	completed, err := s.CompleteFinishedReservations(ctx)
	if err != nil {
		return result, err
	}
	result.Completed = completed
	expired, err := s.ExpireStalePendingReservations(ctx)
	if err != nil {
		return result, err
	}
	result.Expired = expired
	return result, nil
}

// CompleteFinishedReservations marks confirmed reservations whose end date
// has passed as completed.
func (s *JobService) CompleteFinishedReservations(ctx context.Context) (int64, error) {
	log.Println("Cron Job: Checking for reservations to mark as 'completed'...")

	today := db.DateOf(s.clock.Now())
	ids, err := s.Repo.ReservationIDsEndedBefore(ctx, db.StatusConfirmed, today)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to get confirmed reservations past end date: %w", err)
	}
	if len(ids) == 0 {
		log.Println("Cron Job: No confirmed reservations found past their end date.")
		return 0, nil
	}

	log.Printf("Cron Job: Found %d reservations to mark as 'completed'. IDs: %v", len(ids), ids)
	n, err := s.Repo.UpdateReservationStatuses(ctx, ids, db.StatusConfirmed, db.StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to update reservation statuses: %w", err)
	}
	metrics.AddReservationTransitions(string(db.StatusCompleted), n)
	return n, nil
}

// ExpireStalePendingReservations cancels pending reservations that were
// never confirmed before their start date.
func (s *JobService) ExpireStalePendingReservations(ctx context.Context) (int64, error) {
	today := db.DateOf(s.clock.Now())
	ids, err := s.Repo.ReservationIDsStartedBefore(ctx, db.StatusPending, today)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to get stale pending reservations: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	log.Printf("Cron Job: Found %d stale pending reservations to cancel. IDs: %v", len(ids), ids)
	n, err := s.Repo.UpdateReservationStatuses(ctx, ids, db.StatusPending, db.StatusCancelled)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to cancel stale reservations: %w", err)
	}
	metrics.AddReservationTransitions(string(db.StatusCancelled), n)
	return n, nil
}
