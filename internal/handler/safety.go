package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/medsafety/internal/service"
	"github.com/vcscsvcscs/medsafety/pkg/api"
	"go.uber.org/zap"
)

// SafetyHandler implements safety score and interaction endpoints
type SafetyHandler struct {
	safety *service.SafetyService
	logger *zap.Logger
}

// NewSafetyHandler creates a new SafetyHandler
func NewSafetyHandler(safety *service.SafetyService, logger *zap.Logger) *SafetyHandler {
	return &SafetyHandler{
		safety: safety,
		logger: logger,
	}
}

// GetApiV1SafetyScore returns the safety score breakdown of the current record
func (h *SafetyHandler) GetApiV1SafetyScore(c *gin.Context) {
	breakdown, err := h.safety.Score(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to compute safety score")
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// GetApiV1SafetyAdherence returns the adherence summary
func (h *SafetyHandler) GetApiV1SafetyAdherence(c *gin.Context) {
	summary, err := h.safety.Adherence(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to compute adherence")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetApiV1Interactions looks up one pair when both names are given and
// lists the known interactions otherwise
func (h *SafetyHandler) GetApiV1Interactions(c *gin.Context, params api.GetApiV1InteractionsParams) {
	if params.A == nil || params.B == nil || strings.TrimSpace(*params.A) == "" || strings.TrimSpace(*params.B) == "" {
		if params.A != nil || params.B != nil {
			respondBindError(c, h.logger, errMissingField("both a and b"))
			return
		}
		c.JSON(http.StatusOK, h.safety.KnownInteractions())
		return
	}

	response := api.InteractionCheckResponse{DrugA: *params.A, DrugB: *params.B}
	if record, ok := h.safety.CheckInteraction(*params.A, *params.B); ok {
		response.Found = true
		response.Interaction = &record
	}

	c.JSON(http.StatusOK, response)
}
