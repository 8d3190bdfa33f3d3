package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/medsafety/internal/service"
	"github.com/vcscsvcscs/medsafety/pkg/api"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// ProfileHandler implements user profile endpoints
type ProfileHandler struct {
	store  *service.HealthRecordStore
	logger *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(store *service.HealthRecordStore, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		store:  store,
		logger: logger,
	}
}

// GetApiV1Profile returns the user profile
func (h *ProfileHandler) GetApiV1Profile(c *gin.Context) {
	snapshot, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, snapshot.User)
}

// PutApiV1Profile merges the request into the user profile
func (h *ProfileHandler) PutApiV1Profile(c *gin.Context) {
	var req api.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	patch := model.ProfilePatch{
		FullName:                 req.FullName,
		Email:                    req.Email,
		Phone:                    req.Phone,
		DateOfBirth:              datePtrString(req.DateOfBirth),
		BloodType:                req.BloodType,
		EmergencyContactName:     req.EmergencyContactName,
		EmergencyContactRelation: req.EmergencyContactRelation,
		EmergencyContactPhone:    req.EmergencyContactPhone,
	}
	if req.Allergies != nil {
		patch.Allergies = append([]string{}, *req.Allergies...)
	}
	if req.ChronicConditions != nil {
		patch.ChronicConditions = append([]string{}, *req.ChronicConditions...)
	}

	profile, err := h.store.UpdateUserProfile(c.Request.Context(), patch)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}
