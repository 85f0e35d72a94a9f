package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrOverlap is returned when the store rejects a write that would give a
	// vehicle two overlapping active reservations.
	ErrOverlap = errors.New("reservation overlaps an active reservation of the same vehicle")
	// ErrDuplicate is returned on a unique constraint violation.
	ErrDuplicate = errors.New("record already exists")
	// ErrMissingReference is returned when a foreign key points at nothing.
	ErrMissingReference = errors.New("referenced record does not exist")
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqExclusionViolation  = "23P01"
)

// translate maps constraint violations to the sentinels above and leaves
// other errors untouched.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqExclusionViolation:
		return ErrOverlap
	case pqUniqueViolation:
		return ErrDuplicate
	case pqForeignKeyViolation:
		return ErrMissingReference
	}
	return err
}
