package domain

import "errors"

var ErrUnnamedPet = errors.New("pet requires a name and species")

// Pet belongs to one user; weight is in kilograms.
type Pet struct {
	ID                  string
	UserID              string
	Name                string
	Breed               string
	Species             string
	Age                 *int
	Weight              *float64
	SpecialInstructions string
}

func (p *Pet) Validate() error {
	if p.Name == "" || p.Species == "" {
		return ErrUnnamedPet
	}
	return nil
}
