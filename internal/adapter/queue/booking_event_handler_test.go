package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	domain "github.com/petgroom/booking-api/internal/entity"
	"github.com/petgroom/booking-api/internal/usecase"
)

type mockBookingRepo struct {
	mu       sync.Mutex
	statuses map[string]string
	guarded  []string // ids that refuse the guarded transition
	updates  []string
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{statuses: map[string]string{}}
}

func (m *mockBookingRepo) Create(ctx context.Context, b *usecase.BookingRecord) error { return nil }

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*usecase.BookingRecord, error) {
	return nil, errors.New("not implemented")
}

func (m *mockBookingRepo) GetByUserAndIdemKey(ctx context.Context, userID, idemKey string) (*usecase.BookingRecord, error) {
	return nil, errors.New("not implemented")
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id, toStatus string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[id] = toStatus
	m.updates = append(m.updates, "plain:"+id+":"+toStatus)
	return nil
}

func (m *mockBookingRepo) UpdateStatusIf(ctx context.Context, id, fromStatus, toStatus string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.guarded {
		if g == id {
			return false, nil
		}
	}
	m.statuses[id] = toStatus
	m.updates = append(m.updates, "guarded:"+id+":"+toStatus)
	return true, nil
}

type mockCache struct {
	mu       sync.Mutex
	statuses map[string]string
}

func (m *mockCache) SetStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statuses == nil {
		m.statuses = map[string]string{}
	}
	m.statuses[id] = status
	return nil
}

func (m *mockCache) GetStatus(ctx context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.statuses[id]
	return s, ok, nil
}

func TestBookingEventHandlerAppliesStatus(t *testing.T) {
	repo := newMockBookingRepo()
	cache := &mockCache{}
	h := NewBookingEventHandler(repo, cache, testLogger())

	err := h.HandleEvent(context.Background(), usecase.BookingEventMsg{
		BookingID: "b-1",
		Status:    string(domain.StatusConfirmed),
	})
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if got := repo.statuses["b-1"]; got != string(domain.StatusConfirmed) {
		t.Errorf("status = %q, want CONFIRMED", got)
	}
	if got, _, _ := cache.GetStatus(context.Background(), "b-1"); got != string(domain.StatusConfirmed) {
		t.Errorf("cached status = %q, want CONFIRMED", got)
	}
}

func TestBookingEventHandlerFallsBackWhenGuardFails(t *testing.T) {
	repo := newMockBookingRepo()
	repo.guarded = []string{"b-2"}
	h := NewBookingEventHandler(repo, nil, testLogger())

	err := h.HandleEvent(context.Background(), usecase.BookingEventMsg{
		BookingID: "b-2",
		Status:    string(domain.StatusCompleted),
	})
	if err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}
	if len(repo.updates) != 1 || repo.updates[0] != "plain:b-2:COMPLETED" {
		t.Errorf("updates = %v, want plain fallback", repo.updates)
	}
}

func TestBookingEventHandlerRejectsUnknownStatus(t *testing.T) {
	repo := newMockBookingRepo()
	h := NewBookingEventHandler(repo, nil, testLogger())

	err := h.HandleEvent(context.Background(), usecase.BookingEventMsg{
		BookingID: "b-3",
		Status:    "TELEPORTED",
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if !errors.Is(err, ErrUnprocessable) {
		t.Errorf("err = %v, want ErrUnprocessable so the message is dropped", err)
	}
	if len(repo.updates) != 0 {
		t.Errorf("repo touched for invalid status: %v", repo.updates)
	}
}
