// Package api holds the HTTP request and response types and the route table
// of the health record API.
package api

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/vcscsvcscs/medsafety/pkg/model"
)

// Error codes returned in ErrorResponse.Code
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "CONFLICT"
	CodeStorage       = "STORAGE_UNAVAILABLE"
	CodeNotConfigured = "NOT_CONFIGURED"
	CodeInternal      = "INTERNAL_ERROR"
)

// ErrorResponse defines model for ErrorResponse.
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}

// ProfileUpdateRequest defines model for ProfileUpdateRequest.
type ProfileUpdateRequest struct {
	FullName                 *string             `json:"fullName,omitempty"`
	Email                    *string             `json:"email,omitempty"`
	Phone                    *string             `json:"phone,omitempty"`
	DateOfBirth              *openapi_types.Date `json:"dateOfBirth,omitempty"`
	BloodType                *string             `json:"bloodType,omitempty"`
	Allergies                *[]string           `json:"allergies,omitempty"`
	ChronicConditions        *[]string           `json:"chronicConditions,omitempty"`
	EmergencyContactName     *string             `json:"emergencyContactName,omitempty"`
	EmergencyContactRelation *string             `json:"emergencyContactRelation,omitempty"`
	EmergencyContactPhone    *string             `json:"emergencyContactPhone,omitempty"`
}

// CreateMedicineRequest defines model for CreateMedicineRequest.
type CreateMedicineRequest struct {
	Id           *string             `json:"id,omitempty"`
	Name         string              `json:"name" binding:"required"`
	Dosage       string              `json:"dosage"`
	Frequency    string              `json:"frequency"`
	TimesOfDay   []model.TimeOfDay   `json:"timesOfDay"`
	Reason       string              `json:"reason"`
	PrescribedBy string              `json:"prescribedBy"`
	StartDate    *openapi_types.Date `json:"startDate,omitempty"`
}

// UpdateMedicineRequest defines model for UpdateMedicineRequest.
type UpdateMedicineRequest struct {
	Name         *string               `json:"name,omitempty"`
	Dosage       *string               `json:"dosage,omitempty"`
	Frequency    *string               `json:"frequency,omitempty"`
	TimesOfDay   *[]model.TimeOfDay    `json:"timesOfDay,omitempty"`
	Reason       *string               `json:"reason,omitempty"`
	PrescribedBy *string               `json:"prescribedBy,omitempty"`
	StartDate    *openapi_types.Date   `json:"startDate,omitempty"`
	Status       *model.MedicineStatus `json:"status,omitempty"`
}

// MedicationUsageRequest defines model for MedicationUsageRequest.
type MedicationUsageRequest struct {
	Date    openapi_types.Date `json:"date"`
	Taken   bool               `json:"taken"`
	Skipped bool               `json:"skipped"`
	Notes   *string            `json:"notes,omitempty"`
}

// DailyFeedbackRequest defines model for DailyFeedbackRequest. The date is
// taken from the path.
type DailyFeedbackRequest struct {
	MedicationLogs []model.MedicationLog `json:"medicationLogs"`
	HealthCheck    model.HealthCheck     `json:"healthCheck"`
	ReportUploads  []model.ReportUpload  `json:"reportUploads"`
}

// CreateReportRequest defines model for CreateReportRequest.
type CreateReportRequest struct {
	Id   *string            `json:"id,omitempty"`
	Name string             `json:"name" binding:"required"`
	Date openapi_types.Date `json:"date"`
}

// InteractionCheckResponse defines model for InteractionCheckResponse.
type InteractionCheckResponse struct {
	DrugA       string                   `json:"drugA"`
	DrugB       string                   `json:"drugB"`
	Found       bool                     `json:"found"`
	Interaction *model.InteractionRecord `json:"interaction,omitempty"`
}

// GetApiV1ExportTextParams defines parameters for GetApiV1ExportText.
type GetApiV1ExportTextParams struct {
	IncludeScore *bool `form:"includeScore,omitempty" json:"includeScore,omitempty"`
}

// GetApiV1InteractionsParams defines parameters for GetApiV1Interactions.
// With both names set the pair is looked up, otherwise the table is listed.
type GetApiV1InteractionsParams struct {
	A *string `form:"a,omitempty" json:"a,omitempty"`
	B *string `form:"b,omitempty" json:"b,omitempty"`
}
