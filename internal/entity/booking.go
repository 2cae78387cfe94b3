package domain

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

var (
	ErrInvalidStatus = errors.New("invalid booking status")
	ErrMissingParty  = errors.New("booking requires user, pet and groomer")
	ErrZeroTime      = errors.New("booking time not set")
	ErrInvalidRating = errors.New("rating must be between 0 and 5")
)

// ValidStatus reports whether s is one of the known booking statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Booking is one grooming appointment.
type Booking struct {
	ID        string
	UserID    string
	PetID     string
	GroomerID string
	DateTime  time.Time
	Status    Status
	Rating    *float64 // 0..5, set after completion
}

func (b *Booking) Validate() error {
	if b.UserID == "" || b.PetID == "" || b.GroomerID == "" {
		return ErrMissingParty
	}
	if b.DateTime.IsZero() {
		return ErrZeroTime
	}
	if !ValidStatus(b.Status) {
		return ErrInvalidStatus
	}
	if b.Rating != nil && (*b.Rating < 0 || *b.Rating > 5) {
		return ErrInvalidRating
	}
	return nil
}
