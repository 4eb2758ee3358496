package monitoring

import (
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Metrics holds in-process request counters. Good enough for a single
// instance; an external metrics system is out of scope here.
type Metrics struct {
	mu            sync.RWMutex
	RequestCount  int64            `json:"request_count"`
	ErrorCount    int64            `json:"error_count"`
	StatusCodes   map[string]int64 `json:"status_codes"`
	Endpoints     map[string]int64 `json:"endpoint_calls"`
	StartTime     time.Time        `json:"start_time"`
	LastRequest   time.Time        `json:"last_request"`
	totalDuration time.Duration
}

var globalMetrics = &Metrics{
	StatusCodes: make(map[string]int64),
	Endpoints:   make(map[string]int64),
	StartTime:   time.Now(),
}

// MetricsMiddleware records per-request counters keyed by method, path
// template and status code.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		endpoint := c.Request.Method + " " + c.FullPath()

		globalMetrics.mu.Lock()
		globalMetrics.RequestCount++
		globalMetrics.totalDuration += duration
		globalMetrics.LastRequest = time.Now()
		globalMetrics.StatusCodes[strconv.Itoa(status)]++
		globalMetrics.Endpoints[endpoint]++
		if status >= http.StatusInternalServerError {
			globalMetrics.ErrorCount++
		}
		globalMetrics.mu.Unlock()
	}
}

// MetricsHandler serves a JSON snapshot of the counters.
func MetricsHandler(c *gin.Context) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	globalMetrics.mu.RLock()
	defer globalMetrics.mu.RUnlock()

	var avgDuration float64
	if globalMetrics.RequestCount > 0 {
		avgDuration = float64(globalMetrics.totalDuration.Milliseconds()) / float64(globalMetrics.RequestCount)
	}

	statusCodes := make(map[string]int64, len(globalMetrics.StatusCodes))
	for k, v := range globalMetrics.StatusCodes {
		statusCodes[k] = v
	}
	endpoints := make(map[string]int64, len(globalMetrics.Endpoints))
	for k, v := range globalMetrics.Endpoints {
		endpoints[k] = v
	}

	c.JSON(http.StatusOK, gin.H{
		"request_count":           globalMetrics.RequestCount,
		"error_count":             globalMetrics.ErrorCount,
		"avg_request_duration_ms": avgDuration,
		"status_codes":            statusCodes,
		"endpoint_calls":          endpoints,
		"uptime_seconds":          int64(time.Since(globalMetrics.StartTime).Seconds()),
		"goroutines":              runtime.NumGoroutine(),
		"heap_alloc_bytes":        memStats.HeapAlloc,
	})
}

// Reset clears the counters; tests use it to start from a known state.
func Reset() {
	globalMetrics.mu.Lock()
	defer globalMetrics.mu.Unlock()

	globalMetrics.RequestCount = 0
	globalMetrics.ErrorCount = 0
	globalMetrics.totalDuration = 0
	globalMetrics.StatusCodes = make(map[string]int64)
	globalMetrics.Endpoints = make(map[string]int64)
	globalMetrics.StartTime = time.Now()
	globalMetrics.LastRequest = time.Time{}
}
