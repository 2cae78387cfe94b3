package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	domain "github.com/petgroom/booking-api/internal/entity"
)

var (
	ErrDuplicate    = errors.New("duplicate idempotency key")
	ErrUnknownUser  = errors.New("unknown user")
	ErrUnknownPet   = errors.New("unknown pet")
	ErrPetMismatch  = errors.New("pet does not belong to user")
	ErrInvalidInput = errors.New("invalid booking input")
)

type CreateBookingInput struct {
	UserID, PetID, GroomerID string
	IdempotencyKey           string
	DateTime                 time.Time
}

type CreateBookingOutput struct {
	BookingID string
	Status    string
}

type CreateBooking struct {
	bookings BookingRepo
	users    UserRepo
	pets     PetRepo
	cache    BookingCache
	idem     IdempotencyStore
	events   EventPublisher
}

func NewCreateBooking(bookings BookingRepo, users UserRepo, pets PetRepo, cache BookingCache, idem IdempotencyStore, events EventPublisher) *CreateBooking {
	return &CreateBooking{bookings: bookings, users: users, pets: pets, cache: cache, idem: idem, events: events}
}

func (uc *CreateBooking) Execute(ctx context.Context, in CreateBookingInput) (CreateBookingOutput, error) {
	// Fast path: idempotency recall
	if id, ok, _ := uc.idem.Recall(ctx, in.UserID, in.IdempotencyKey); ok {
		return CreateBookingOutput{BookingID: id, Status: string(domain.StatusPending)}, nil
	}
	ok, err := uc.idem.TryLock(ctx, in.UserID, in.IdempotencyKey)
	if err != nil {
		return CreateBookingOutput{}, err
	}
	if !ok {
		// The lock is held but nothing was remembered: either the first
		// request is still in flight, or it died after Create and before
		// Remember. If its row exists, return it instead of failing.
		if rec, err := uc.bookings.GetByUserAndIdemKey(ctx, in.UserID, in.IdempotencyKey); err == nil {
			return CreateBookingOutput{BookingID: rec.ID, Status: rec.Status}, nil
		}
		return CreateBookingOutput{}, ErrDuplicate
	}

	if _, err := uc.users.GetByID(ctx, in.UserID); err != nil {
		return CreateBookingOutput{}, ErrUnknownUser
	}
	pet, err := uc.pets.GetByID(ctx, in.PetID)
	if err != nil {
		return CreateBookingOutput{}, ErrUnknownPet
	}
	if pet.UserID != in.UserID {
		return CreateBookingOutput{}, ErrPetMismatch
	}

	b := &domain.Booking{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		PetID:     in.PetID,
		GroomerID: in.GroomerID,
		DateTime:  in.DateTime,
		Status:    domain.StatusPending,
	}
	if err := b.Validate(); err != nil {
		return CreateBookingOutput{}, errors.Join(ErrInvalidInput, err)
	}

	rec := &BookingRecord{
		ID:             b.ID,
		UserID:         b.UserID,
		PetID:          b.PetID,
		GroomerID:      b.GroomerID,
		DateTime:       b.DateTime,
		Status:         string(b.Status),
		IdempotencyKey: in.IdempotencyKey,
	}
	if err := uc.bookings.Create(ctx, rec); err != nil {
		return CreateBookingOutput{}, err
	}

	// Best-effort side effects: the row is the source of truth.
	_ = uc.cache.SetStatus(ctx, b.ID, string(b.Status))
	_ = uc.events.PublishBookingCreated(ctx, BookingCreatedMsg{
		BookingID: b.ID,
		UserID:    b.UserID,
		PetID:     b.PetID,
		GroomerID: b.GroomerID,
		DateTime:  b.DateTime.UTC().Format(time.RFC3339),
		Status:    string(b.Status),
	})
	_ = uc.idem.Remember(ctx, in.UserID, in.IdempotencyKey, b.ID)

	return CreateBookingOutput{BookingID: b.ID, Status: string(b.Status)}, nil
}
