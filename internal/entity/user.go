package domain

import (
	"errors"
	"strings"
)

var ErrInvalidEmail = errors.New("invalid email")

// User is a customer of the grooming service.
type User struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	BookingsTaken int
}

func (u *User) Validate() error {
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}
