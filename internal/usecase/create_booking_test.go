package usecase

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memBookingRepo struct {
	created []*BookingRecord
}

func (m *memBookingRepo) Create(ctx context.Context, b *BookingRecord) error {
	m.created = append(m.created, b)
	return nil
}

func (m *memBookingRepo) GetByID(ctx context.Context, id string) (*BookingRecord, error) {
	for _, b := range m.created {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memBookingRepo) GetByUserAndIdemKey(ctx context.Context, userID, idemKey string) (*BookingRecord, error) {
	for _, b := range m.created {
		if b.UserID == userID && b.IdempotencyKey == idemKey {
			return b, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *memBookingRepo) UpdateStatus(ctx context.Context, id, toStatus string) error { return nil }

func (m *memBookingRepo) UpdateStatusIf(ctx context.Context, id, fromStatus, toStatus string) (bool, error) {
	return false, nil
}

type memUserRepo struct{ users map[string]*UserRecord }

func (m *memUserRepo) Create(ctx context.Context, u *UserRecord) error { return nil }

func (m *memUserRepo) GetByID(ctx context.Context, id string) (*UserRecord, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

type memPetRepo struct{ pets map[string]*PetRecord }

func (m *memPetRepo) Create(ctx context.Context, p *PetRecord) error { return nil }

func (m *memPetRepo) GetByID(ctx context.Context, id string) (*PetRecord, error) {
	p, ok := m.pets[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (m *memPetRepo) ListByUser(ctx context.Context, userID string) ([]*PetRecord, error) {
	return nil, nil
}

type memCache struct{ statuses map[string]string }

func (m *memCache) SetStatus(ctx context.Context, id, status string) error {
	if m.statuses == nil {
		m.statuses = map[string]string{}
	}
	m.statuses[id] = status
	return nil
}

func (m *memCache) GetStatus(ctx context.Context, id string) (string, bool, error) {
	s, ok := m.statuses[id]
	return s, ok, nil
}

type memIdem struct {
	locked   map[string]bool
	recalled map[string]string
}

func newMemIdem() *memIdem {
	return &memIdem{locked: map[string]bool{}, recalled: map[string]string{}}
}

func (m *memIdem) TryLock(ctx context.Context, scope, key string) (bool, error) {
	k := scope + ":" + key
	if m.locked[k] {
		return false, nil
	}
	m.locked[k] = true
	return true, nil
}

func (m *memIdem) Remember(ctx context.Context, scope, key, value string) error {
	m.recalled[scope+":"+key] = value
	return nil
}

func (m *memIdem) Recall(ctx context.Context, scope, key string) (string, bool, error) {
	v, ok := m.recalled[scope+":"+key]
	return v, ok, nil
}

type memPublisher struct{ published []BookingCreatedMsg }

func (m *memPublisher) PublishBookingCreated(ctx context.Context, msg BookingCreatedMsg) error {
	m.published = append(m.published, msg)
	return nil
}

func fixture() (*CreateBooking, *memBookingRepo, *memPublisher, *memIdem) {
	bookings := &memBookingRepo{}
	users := &memUserRepo{users: map[string]*UserRecord{
		"u-1": {ID: "u-1", Email: "jane@example.com"},
	}}
	pets := &memPetRepo{pets: map[string]*PetRecord{
		"p-1": {ID: "p-1", UserID: "u-1", Name: "Buddy", Species: "Dog"},
		"p-9": {ID: "p-9", UserID: "u-9", Name: "Max", Species: "Dog"},
	}}
	idem := newMemIdem()
	pub := &memPublisher{}
	uc := NewCreateBooking(bookings, users, pets, &memCache{}, idem, pub)
	return uc, bookings, pub, idem
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		UserID:         "u-1",
		PetID:          "p-1",
		GroomerID:      "g-1",
		IdempotencyKey: "key-1",
		DateTime:       time.Date(2026, 9, 12, 10, 0, 0, 0, time.UTC),
	}
}

func TestCreateBookingPersistsAndPublishes(t *testing.T) {
	uc, bookings, pub, _ := fixture()

	out, err := uc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.BookingID == "" || out.Status != "PENDING" {
		t.Errorf("out = %+v, want pending booking with id", out)
	}
	if len(bookings.created) != 1 {
		t.Fatalf("created %d bookings, want 1", len(bookings.created))
	}
	if bookings.created[0].IdempotencyKey != "key-1" {
		t.Errorf("idempotency key not persisted")
	}
	if len(pub.published) != 1 || pub.published[0].BookingID != out.BookingID {
		t.Errorf("published = %v, want one event for %s", pub.published, out.BookingID)
	}
}

func TestCreateBookingDuplicateKey(t *testing.T) {
	uc, bookings, _, _ := fixture()

	first, err := uc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	// Same key again: recalled, not re-created.
	second, err := uc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if second.BookingID != first.BookingID {
		t.Errorf("recalled id %s, want %s", second.BookingID, first.BookingID)
	}
	if len(bookings.created) != 1 {
		t.Errorf("created %d bookings, want 1", len(bookings.created))
	}
}

func TestCreateBookingLockedKeyWithoutRecallConflicts(t *testing.T) {
	uc, _, _, idem := fixture()

	// Lock held but no remembered value: a concurrent request in flight.
	if _, err := idem.TryLock(context.Background(), "u-1", "key-1"); err != nil {
		t.Fatal(err)
	}
	_, err := uc.Execute(context.Background(), validInput())
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestCreateBookingLockedKeyRecoversPersistedBooking(t *testing.T) {
	uc, bookings, _, idem := fixture()

	// The first attempt created the row but died before Remember ran.
	if _, err := idem.TryLock(context.Background(), "u-1", "key-1"); err != nil {
		t.Fatal(err)
	}
	bookings.created = append(bookings.created, &BookingRecord{
		ID:             "b-orphan",
		UserID:         "u-1",
		Status:         "PENDING",
		IdempotencyKey: "key-1",
	})

	out, err := uc.Execute(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if out.BookingID != "b-orphan" || out.Status != "PENDING" {
		t.Errorf("out = %+v, want the orphaned booking recovered", out)
	}
	if len(bookings.created) != 1 {
		t.Errorf("created %d bookings, want 1 (no re-create)", len(bookings.created))
	}
}

func TestCreateBookingValidatesOwnership(t *testing.T) {
	uc, _, _, _ := fixture()

	in := validInput()
	in.PetID = "p-9" // belongs to u-9
	_, err := uc.Execute(context.Background(), in)
	if !errors.Is(err, ErrPetMismatch) {
		t.Fatalf("err = %v, want ErrPetMismatch", err)
	}

	in = validInput()
	in.IdempotencyKey = "key-2"
	in.UserID = "u-404"
	_, err = uc.Execute(context.Background(), in)
	if !errors.Is(err, ErrUnknownUser) {
		t.Fatalf("err = %v, want ErrUnknownUser", err)
	}
}

func TestCreateBookingRejectsZeroTime(t *testing.T) {
	uc, bookings, pub, _ := fixture()

	in := validInput()
	in.DateTime = time.Time{}
	_, err := uc.Execute(context.Background(), in)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if len(bookings.created) != 0 || len(pub.published) != 0 {
		t.Error("side effects ran for invalid input")
	}
}
