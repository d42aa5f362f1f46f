package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/groupchat/chat-backend/pkg/cache"
	"gorm.io/gorm"
)

// HealthHandler reports dependency health
type HealthHandler struct {
	db    *gorm.DB
	cache cache.Service
}

// NewHealthHandler creates a new HealthHandler. cacheService may be nil.
func NewHealthHandler(db *gorm.DB, cacheService cache.Service) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheService}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	healthy := true

	if err := h.pingDB(ctx); err != nil {
		checks["database"] = err.Error()
		healthy = false
	}

	if h.cache != nil && h.cache.IsAvailable() {
		checks["redis"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
