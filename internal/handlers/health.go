package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"taskhub/backend/internal/cache"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

// NewHealthHandler reports on the service's dependencies. cache may be
// nil when Redis is disabled.
func NewHealthHandler(db *gorm.DB, cacheInstance *cache.RedisCache) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheInstance}
}

type HealthResponse struct {
	Status         string            `json:"status"`
	Checks         map[string]string `json:"checks"`
	ResponseTimeMS int64             `json:"response_time_ms"`
}

func (h *HealthHandler) Check(c *gin.Context) {
	start := time.Now()
	checks := map[string]string{}
	status := "UP"

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		checks["database"] = "DOWN: " + err.Error()
		status = "DOWN"
	} else {
		checks["database"] = "UP"
	}

	if h.cache != nil {
		if err := h.cache.Health(); err != nil {
			checks["redis"] = "DOWN: " + err.Error()
			status = "DOWN"
		} else {
			checks["redis"] = "UP"
		}
	}

	httpStatus := http.StatusOK
	if status == "DOWN" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthResponse{
		Status:         status,
		Checks:         checks,
		ResponseTimeMS: time.Since(start).Milliseconds(),
	})
}
