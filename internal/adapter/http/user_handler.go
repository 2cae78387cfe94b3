package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	domain "github.com/petgroom/booking-api/internal/entity"
	"github.com/petgroom/booking-api/internal/usecase"
)

type UserHandler struct {
	users usecase.UserRepo
	pets  usecase.PetRepo
}

func NewUserHandler(users usecase.UserRepo, pets usecase.PetRepo) *UserHandler {
	return &UserHandler{users: users, pets: pets}
}

type createUserReq struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone"`
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	u := domain.User{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := u.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	rec := &usecase.UserRecord{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
	}
	if err := h.users.Create(ctx, rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": rec.ID})
}

type createPetReq struct {
	UserID              string   `json:"userId" binding:"required"`
	Name                string   `json:"name" binding:"required"`
	Breed               string   `json:"breed"`
	Species             string   `json:"species" binding:"required"`
	Age                 *int     `json:"age"`
	Weight              *float64 `json:"weight"`
	SpecialInstructions string   `json:"specialInstructions"`
}

func (h *UserHandler) CreatePet(c *gin.Context) {
	var req createPetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	p := domain.Pet{
		ID:      uuid.NewString(),
		UserID:  req.UserID,
		Name:    req.Name,
		Species: req.Species,
	}
	if err := p.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if _, err := h.users.GetByID(ctx, req.UserID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown_user"})
		return
	}

	rec := &usecase.PetRecord{
		ID:                  p.ID,
		UserID:              p.UserID,
		Name:                p.Name,
		Breed:               req.Breed,
		Species:             p.Species,
		Age:                 req.Age,
		Weight:              req.Weight,
		SpecialInstructions: req.SpecialInstructions,
	}
	if err := h.pets.Create(ctx, rec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": rec.ID})
}

func (h *UserHandler) ListPetsByUser(c *gin.Context) {
	userID := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	pets, err := h.pets.ListByUser(ctx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pets": pets})
}
