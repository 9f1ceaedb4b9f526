package api

import (
	"context"
	"net/http"
	"time"

	"bilingual-chat-demo/backend/shared/redis"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles health check endpoints
type Handler struct {
	db  *gorm.DB
	bus *redis.Bus
}

// NewHealthHandler creates a health handler. db and bus are optional; absent
// dependencies are skipped by the readiness check.
func NewHealthHandler(db *gorm.DB, bus *redis.Bus) *Handler {
	return &Handler{db: db, bus: bus}
}

// HealthResponse represents the health check response structure
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthHandler reports liveness
func (h *Handler) HealthHandler(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   "1.0.0",
	}
	c.JSON(http.StatusOK, response)
}

// ReadyHandler reports readiness of the database and the message bus
func (h *Handler) ReadyHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if h.db != nil {
		checks["database"] = "ok"
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			checks["database"] = "unavailable"
			healthy = false
		}
	}
	if h.bus != nil {
		checks["redis"] = "ok"
		if err := h.bus.Ping(ctx); err != nil {
			checks["redis"] = "unavailable"
			healthy = false
		}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Checks:    checks,
	})
}

// RegisterHealthRoutes registers health check related routes
func (h *Handler) RegisterHealthRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.HealthHandler)
	router.GET("/health/ready", h.ReadyHandler)
}
