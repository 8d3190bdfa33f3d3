package handler

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/medsafety/internal/service"
	"github.com/vcscsvcscs/medsafety/pkg/api"
	"go.uber.org/zap"
)

// ServiceName is reported by the health endpoint
const ServiceName = "medsafety"

// Pinger checks one external dependency
type Pinger func(ctx context.Context) error

// HealthHandler implements the service health endpoint
type HealthHandler struct {
	store   *service.HealthRecordStore
	pingers map[string]Pinger
	logger  *zap.Logger
}

// NewHealthHandler creates a new HealthHandler. pingers are keyed by the
// dependency name shown in the response.
func NewHealthHandler(store *service.HealthRecordStore, pingers map[string]Pinger, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		pingers: pingers,
		logger:  logger,
	}
}

// GetHealth reports whether the snapshot is readable and dependencies respond
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx := c.Request.Context()
	response := api.HealthResponse{
		Status:  "healthy",
		Service: ServiceName,
		Checks:  map[string]string{},
	}

	if _, err := h.store.Snapshot(ctx); err != nil {
		h.logger.Error("health check failed: snapshot unreadable", zap.Error(err))
		response.Status = "unhealthy"
		response.Checks["snapshot"] = err.Error()
	} else {
		response.Checks["snapshot"] = "ok"
	}

	names := make([]string, 0, len(h.pingers))
	for name := range h.pingers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.pingers[name](ctx); err != nil {
			h.logger.Error("health check failed", zap.String("dependency", name), zap.Error(err))
			response.Status = "unhealthy"
			response.Checks[name] = err.Error()
			continue
		}
		response.Checks[name] = "ok"
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}
