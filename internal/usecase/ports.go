package usecase

import (
	"context"
	"time"
)

// Persistence shapes (kept out of domain).
type BookingRecord struct {
	ID, UserID, PetID, GroomerID string
	Status                       string
	DateTime                     time.Time
	Rating                       *float64
	IdempotencyKey               string
}

type UserRecord struct {
	ID, FirstName, LastName, Email, Phone string
	BookingsTaken                         int
}

type PetRecord struct {
	ID, UserID, Name, Breed, Species string
	Age                              *int
	Weight                           *float64
	SpecialInstructions              string
}

type BookingRepo interface {
	Create(ctx context.Context, b *BookingRecord) error
	GetByID(ctx context.Context, id string) (*BookingRecord, error)
	GetByUserAndIdemKey(ctx context.Context, userID, idemKey string) (*BookingRecord, error)
	UpdateStatus(ctx context.Context, id, toStatus string) error
	UpdateStatusIf(ctx context.Context, id, fromStatus, toStatus string) (bool, error)
}

type UserRepo interface {
	Create(ctx context.Context, u *UserRecord) error
	GetByID(ctx context.Context, id string) (*UserRecord, error)
}

type PetRepo interface {
	Create(ctx context.Context, p *PetRecord) error
	GetByID(ctx context.Context, id string) (*PetRecord, error)
	ListByUser(ctx context.Context, userID string) ([]*PetRecord, error)
}

type BookingCache interface {
	SetStatus(ctx context.Context, bookingID, status string) error
	GetStatus(ctx context.Context, bookingID string) (string, bool, error)
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// EventPublisher emits booking lifecycle events to the event stream.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, msg BookingCreatedMsg) error
}
