package queue

import (
	"context"
	"errors"
	"log/slog"

	domain "github.com/petgroom/booking-api/internal/entity"
	"github.com/petgroom/booking-api/internal/usecase"
)

// BookingEventHandler applies booking status events received from the queue.
// It logs every event and, when the status is a known one, records the
// transition; the cache update is best-effort.
type BookingEventHandler struct {
	Repo   usecase.BookingRepo
	Cache  usecase.BookingCache // optional
	Logger *slog.Logger
}

func NewBookingEventHandler(repo usecase.BookingRepo, cache usecase.BookingCache, logger *slog.Logger) *BookingEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingEventHandler{Repo: repo, Cache: cache, Logger: logger}
}

// HandleEvent is intended to be used with the JSON adapter
// (queue.JSONHandler[usecase.BookingEventMsg]).
func (h *BookingEventHandler) HandleEvent(ctx context.Context, ev usecase.BookingEventMsg) error {
	h.Logger.Info("booking event received",
		"booking_id", ev.BookingID,
		"status", ev.Status,
		"source", ev.Source,
	)

	newStatus := domain.Status(ev.Status)
	if !domain.ValidStatus(newStatus) {
		// redelivery cannot fix an unknown status
		return errors.Join(ErrUnprocessable, domain.ErrInvalidStatus)
	}

	// Prefer the guarded PENDING -> target transition; fall back to a plain
	// update when the booking already moved on.
	moved, err := h.Repo.UpdateStatusIf(ctx, ev.BookingID, string(domain.StatusPending), string(newStatus))
	if err != nil {
		return err
	}
	if !moved {
		if err := h.Repo.UpdateStatus(ctx, ev.BookingID, string(newStatus)); err != nil {
			return err
		}
	}

	if h.Cache != nil {
		_ = h.Cache.SetStatus(ctx, ev.BookingID, string(newStatus))
	}
	return nil
}
