// Package gateway serves the booking API over HTTP with gin.
package gateway

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-scheduler/internal/account"
	"campus-scheduler/internal/booking"
	"campus-scheduler/internal/middleware"
	"campus-scheduler/internal/model"
)

type Config struct {
	Accounts *account.Service
	Booking  *booking.Service
	Secret   string
	// Limiter is shared with the gRPC server. Nil disables rate limiting.
	Limiter *middleware.RateLimiter
	// Ping reports store health for GET /health.
	Ping func(ctx context.Context) error
	// SecureCookie marks the token cookie Secure.
	SecureCookie bool
}

type Handler struct {
	accounts *account.Service
	booking  *booking.Service
	secure   bool
	ping     func(ctx context.Context) error
}

// NewRouter creates and configures the gin engine.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	h := &Handler{
		accounts: cfg.Accounts,
		booking:  cfg.Booking,
		secure:   cfg.SecureCookie,
		ping:     cfg.Ping,
	}
	authed := requireAuth(cfg.Secret)

	r.GET("/health", h.Health)

	api := r.Group("/api")
	if cfg.Limiter != nil {
		api.Use(rateLimit(cfg.Limiter))
	}
	{
		a := api.Group("/auth")
		a.POST("/register", h.Register)
		a.POST("/login", h.Login)
		a.POST("/refresh", h.Refresh)
		a.GET("/protected", authed, h.Protected)

		p := api.Group("/professor")
		p.POST("/availability", authed, requireRole(model.RoleProfessor), h.AddAvailability)
		p.GET("/availability/:professorId", h.GetAvailability)
		p.PUT("/cancel-appointment/:appointmentId", authed, requireRole(model.RoleProfessor), h.CancelAppointment)

		s := api.Group("/student")
		s.GET("/availability", h.ViewAvailability)
		s.POST("/book", authed, requireRole(model.RoleStudent, model.RoleProfessor), h.BookAppointment)
		s.GET("/appointments", authed, requireRole(model.RoleStudent), h.ListAppointments)

		api.POST("/warden/book", authed, requireRole(model.RoleWarden), h.BookWardenAppointment)

		apts := api.Group("/appointments", authed)
		apts.GET("", h.ListAppointments)
		apts.GET("/:id", h.GetAppointment)
		apts.PUT("/:id/cancel", h.CancelAppointment)
	}
	return r
}

func (h *Handler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
