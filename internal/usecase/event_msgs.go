package usecase

// Published to Kafka when a booking row is created.
type BookingCreatedMsg struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	PetID     string `json:"petId"`
	GroomerID string `json:"groomerId"`
	DateTime  string `json:"dateTime"` // RFC 3339
	Status    string `json:"status"`
}

// Consumed from the booking events queue; sent by the scheduling system when
// a booking moves through its lifecycle.
type BookingEventMsg struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"` // e.g. "CONFIRMED", "COMPLETED"
	Source    string `json:"source,omitempty"`
}
