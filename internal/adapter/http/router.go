package http

import (
	"github.com/gin-gonic/gin"
	"github.com/petgroom/booking-api/internal/adapter/http/middleware"
	"github.com/petgroom/booking-api/internal/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(hh *HealthHandler, bh *BookingHandler, uh *UserHandler, th *TokenHandler, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", hh.Check)
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", th.IssueToken)

	v1 := r.Group("/v1")
	{
		v1.POST("/bookings", authz.Require("bookings.write"), bh.CreateBooking)
		v1.GET("/bookings/:id", authz.Require("bookings.read"), bh.GetBookingByID)
		v1.POST("/users", authz.Require("bookings.write"), uh.CreateUser)
		v1.POST("/pets", authz.Require("bookings.write"), uh.CreatePet)
		v1.GET("/users/:id/pets", authz.Require("bookings.read"), uh.ListPetsByUser)
	}

	return r
}
