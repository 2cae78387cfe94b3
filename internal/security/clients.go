package security

// In-memory client registry (replace with DB/config later)
type Client struct {
	ID      string
	Secret  string
	Perms   []string // e.g. {"bookings.read","bookings.write"}
	Enabled bool
}

var Clients = map[string]Client{
	"booking-web":   {ID: "booking-web", Secret: "booking-web-secret", Perms: []string{"bookings.read", "bookings.write"}, Enabled: true},
	"svc-scheduler": {ID: "svc-scheduler", Secret: "scheduler-secret", Perms: []string{"bookings.read", "bookings.write"}, Enabled: true},
	"svc-reporting": {ID: "svc-reporting", Secret: "reporting-secret", Perms: []string{"bookings.read"}, Enabled: true},
}
