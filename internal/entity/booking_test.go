package domain

import (
	"errors"
	"testing"
	"time"
)

func validBooking() Booking {
	return Booking{
		ID:        "b-1",
		UserID:    "u-1",
		PetID:     "p-1",
		GroomerID: "g-1",
		DateTime:  time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC),
		Status:    StatusPending,
	}
}

func TestBookingValidate(t *testing.T) {
	rating := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		mutate  func(*Booking)
		wantErr error
	}{
		{"valid", func(b *Booking) {}, nil},
		{"missing user", func(b *Booking) { b.UserID = "" }, ErrMissingParty},
		{"missing pet", func(b *Booking) { b.PetID = "" }, ErrMissingParty},
		{"missing groomer", func(b *Booking) { b.GroomerID = "" }, ErrMissingParty},
		{"zero time", func(b *Booking) { b.DateTime = time.Time{} }, ErrZeroTime},
		{"bad status", func(b *Booking) { b.Status = "SCHEDULED" }, ErrInvalidStatus},
		{"rating too high", func(b *Booking) { b.Rating = rating(5.5) }, ErrInvalidRating},
		{"rating negative", func(b *Booking) { b.Rating = rating(-1) }, ErrInvalidRating},
		{"rating ok", func(b *Booking) { b.Rating = rating(4.5) }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(&b)
			err := b.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false", s)
		}
	}
	if ValidStatus("TELEPORTED") {
		t.Error("ValidStatus accepted unknown status")
	}
}
