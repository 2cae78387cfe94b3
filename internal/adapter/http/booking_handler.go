package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/petgroom/booking-api/internal/usecase"
)

type BookingHandler struct {
	create *usecase.CreateBooking
	query  usecase.BookingRepo
	cache  usecase.BookingCache
}

func NewBookingHandler(create *usecase.CreateBooking, query usecase.BookingRepo, cache usecase.BookingCache) *BookingHandler {
	return &BookingHandler{create: create, query: query, cache: cache}
}

type createBookingReq struct {
	UserID    string    `json:"userId" binding:"required"`
	PetID     string    `json:"petId" binding:"required"`
	GroomerID string    `json:"groomerId" binding:"required"`
	DateTime  time.Time `json:"dateTime" binding:"required"`
}

type createBookingResp struct {
	BookingID string `json:"bookingId"`
	Status    string `json:"status"`
}

// CreateBooking handler: translate to use case input
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	idemKey := c.GetHeader("X-Idempotency-Key") // prevent duplicated requests

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	out, err := h.create.Execute(ctx, usecase.CreateBookingInput{
		UserID:         req.UserID,
		PetID:          req.PetID,
		GroomerID:      req.GroomerID,
		IdempotencyKey: idemKey,
		DateTime:       req.DateTime,
	})

	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, usecase.ErrDuplicate):
			status = http.StatusConflict
		case errors.Is(err, usecase.ErrUnknownUser),
			errors.Is(err, usecase.ErrUnknownPet),
			errors.Is(err, usecase.ErrPetMismatch),
			errors.Is(err, usecase.ErrInvalidInput):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, createBookingResp{
		BookingID: out.BookingID,
		Status:    out.Status,
	})
}

func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	id := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	rec, err := h.query.GetByID(ctx, id)
	if err != nil || rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}

	// Cached status wins if present; the queue consumer refreshes it ahead
	// of slower readers seeing the row.
	status := rec.Status
	if h.cache != nil {
		if cached, ok, _ := h.cache.GetStatus(ctx, id); ok {
			status = cached
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         rec.ID,
		"user_id":    rec.UserID,
		"pet_id":     rec.PetID,
		"groomer_id": rec.GroomerID,
		"date_time":  rec.DateTime,
		"status":     status,
		"rating":     rec.Rating,
	})
}
