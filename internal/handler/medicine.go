package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vcscsvcscs/medsafety/internal/service"
	"github.com/vcscsvcscs/medsafety/pkg/api"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// MedicineHandler implements medicine API endpoints
type MedicineHandler struct {
	store  *service.HealthRecordStore
	safety *service.SafetyService
	logger *zap.Logger
}

// NewMedicineHandler creates a new MedicineHandler
func NewMedicineHandler(store *service.HealthRecordStore, safety *service.SafetyService, logger *zap.Logger) *MedicineHandler {
	return &MedicineHandler{
		store:  store,
		safety: safety,
		logger: logger,
	}
}

// GetApiV1Medicines lists all medicines, active and stopped
func (h *MedicineHandler) GetApiV1Medicines(c *gin.Context) {
	snapshot, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to list medicines")
		return
	}

	c.JSON(http.StatusOK, snapshot.Medicines)
}

// PostApiV1Medicines adds a new medicine
func (h *MedicineHandler) PostApiV1Medicines(c *gin.Context) {
	var req api.CreateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	medicine := model.Medicine{
		Name:         req.Name,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		TimesOfDay:   req.TimesOfDay,
		Reason:       req.Reason,
		PrescribedBy: req.PrescribedBy,
	}
	if req.Id != nil {
		medicine.ID = *req.Id
	}
	if req.StartDate != nil {
		medicine.StartDate = dateString(*req.StartDate)
	}

	added, err := h.store.AddMedicine(c.Request.Context(), medicine)
	if err != nil {
		respondError(c, h.logger, err, "Failed to add medicine")
		return
	}

	c.JSON(http.StatusCreated, added)
}

// PutApiV1MedicinesId applies a partial update to a medicine
func (h *MedicineHandler) PutApiV1MedicinesId(c *gin.Context, id string) {
	var req api.UpdateMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}

	patch := model.MedicinePatch{
		Name:         req.Name,
		Dosage:       req.Dosage,
		Frequency:    req.Frequency,
		Reason:       req.Reason,
		PrescribedBy: req.PrescribedBy,
		StartDate:    datePtrString(req.StartDate),
		Status:       req.Status,
	}
	if req.TimesOfDay != nil {
		patch.TimesOfDay = append([]model.TimeOfDay{}, *req.TimesOfDay...)
	}

	updated, err := h.store.UpdateMedicine(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update medicine")
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteApiV1MedicinesId removes a medicine
func (h *MedicineHandler) DeleteApiV1MedicinesId(c *gin.Context, id string) {
	if err := h.store.RemoveMedicine(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete medicine")
		return
	}

	c.Status(http.StatusNoContent)
}

// PostApiV1MedicinesIdUsage records whether the medicine was taken on a date
func (h *MedicineHandler) PostApiV1MedicinesIdUsage(c *gin.Context, id string) {
	var req api.MedicationUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, h.logger, err)
		return
	}
	if req.Date.Time.IsZero() {
		respondBindError(c, h.logger, errMissingField("date"))
		return
	}

	usage, err := h.store.RecordMedicationUsage(c.Request.Context(), id, dateString(req.Date), req.Taken, req.Skipped, req.Notes)
	if err != nil {
		respondError(c, h.logger, err, "Failed to record medication usage")
		return
	}

	c.JSON(http.StatusOK, usage)
}

// GetApiV1MedicinesIdUsage returns usage statistics for a medicine
func (h *MedicineHandler) GetApiV1MedicinesIdUsage(c *gin.Context, id string) {
	usage, err := h.safety.MedicineUsage(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get medication usage")
		return
	}

	c.JSON(http.StatusOK, usage)
}
