package model

import "time"

// DateLayout is the calendar date format used for every date key
const DateLayout = "2006-01-02"

// UserProfile represents the identity and medical context of the record owner
type UserProfile struct {
	ID                       string   `json:"id"`
	FullName                 string   `json:"fullName"`
	Email                    string   `json:"email"`
	Phone                    string   `json:"phone"`
	DateOfBirth              string   `json:"dateOfBirth,omitempty"`
	BloodType                string   `json:"bloodType"`
	Allergies                []string `json:"allergies"`
	ChronicConditions        []string `json:"chronicConditions"`
	EmergencyContactName     string   `json:"emergencyContactName"`
	EmergencyContactRelation string   `json:"emergencyContactRelation"`
	EmergencyContactPhone    string   `json:"emergencyContactPhone"`
}

// MedicineStatus represents whether a medicine is currently taken
type MedicineStatus string

const (
	MedicineStatusActive  MedicineStatus = "active"
	MedicineStatusStopped MedicineStatus = "stopped"
)

// Valid reports whether s is a known status
func (s MedicineStatus) Valid() bool {
	return s == MedicineStatusActive || s == MedicineStatusStopped
}

// TimeOfDay is a dose slot within a day
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

func (t TimeOfDay) Valid() bool {
	switch t {
	case TimeMorning, TimeAfternoon, TimeEvening, TimeNight:
		return true
	}
	return false
}

// DoseStatus records what happened to a scheduled dose
type DoseStatus string

const (
	DoseTaken    DoseStatus = "taken"
	DoseMissed   DoseStatus = "missed"
	DoseDelayed  DoseStatus = "delayed"
	DoseNotTaken DoseStatus = "not-taken"
)

func (s DoseStatus) Valid() bool {
	switch s {
	case DoseTaken, DoseMissed, DoseDelayed, DoseNotTaken:
		return true
	}
	return false
}

// DosageAccuracy describes whether a taken dose matched the prescription
type DosageAccuracy string

const (
	DosagePrescribed DosageAccuracy = "prescribed"
	DosageExtra      DosageAccuracy = "extra"
	DosageLess       DosageAccuracy = "less"
)

func (a DosageAccuracy) Valid() bool {
	switch a {
	case DosagePrescribed, DosageExtra, DosageLess:
		return true
	}
	return false
}

// Feeling is the overall feeling reported in a health check
type Feeling string

const (
	FeelingGood Feeling = "good"
	FeelingOkay Feeling = "okay"
	FeelingBad  Feeling = "bad"
)

func (f Feeling) Valid() bool {
	return f == FeelingGood || f == FeelingOkay || f == FeelingBad
}

// EnergyLevel is the energy level reported in a health check
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyNormal EnergyLevel = "normal"
	EnergyHigh   EnergyLevel = "high"
)

func (e EnergyLevel) Valid() bool {
	return e == EnergyLow || e == EnergyNormal || e == EnergyHigh
}

// UsageEntry is one day in a medicine's usage log
type UsageEntry struct {
	Date    string  `json:"date"`
	Taken   bool    `json:"taken"`
	Skipped bool    `json:"skipped"`
	Notes   *string `json:"notes,omitempty"`
}

// Medicine represents a medicine in the record
type Medicine struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Dosage       string         `json:"dosage"`
	Frequency    string         `json:"frequency"`
	TimesOfDay   []TimeOfDay    `json:"timesOfDay"`
	Reason       string         `json:"reason"`
	PrescribedBy string         `json:"prescribedBy"`
	StartDate    string         `json:"startDate"`
	Status       MedicineStatus `json:"status"`
	DailyUsage   []UsageEntry   `json:"dailyUsage"`
}

// IsActive reports whether the medicine takes part in interaction and adherence checks
func (m Medicine) IsActive() bool {
	return m.Status == MedicineStatusActive
}

// DoseSlot is the outcome of one scheduled dose on a feedback day
type DoseSlot struct {
	Time           TimeOfDay      `json:"time"`
	Taken          DoseStatus     `json:"taken"`
	DosageAccuracy DosageAccuracy `json:"dosageAccuracy"`
}

// MedicationLog is the per-medicine part of a daily feedback entry
type MedicationLog struct {
	MedicineID   string     `json:"medicineId"`
	MedicineName string     `json:"medicineName"`
	TimesOfDay   []DoseSlot `json:"timesOfDay"`
	SideEffects  []string   `json:"sideEffects"`
}

// HealthCheck is the general wellbeing part of a daily feedback entry
type HealthCheck struct {
	OverallFeeling Feeling     `json:"overallFeeling"`
	PainLevel      int         `json:"painLevel"`
	EnergyLevel    EnergyLevel `json:"energyLevel"`
}

// ReportUpload is a document attached to a daily feedback entry
type ReportUpload struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DailyFeedbackEntry is the feedback for one calendar date
type DailyFeedbackEntry struct {
	Date           string          `json:"date"`
	MedicationLogs []MedicationLog `json:"medicationLogs"`
	HealthCheck    HealthCheck     `json:"healthCheck"`
	ReportUploads  []ReportUpload  `json:"reportUploads"`
}

// ReportRecord is metadata for an uploaded document
type ReportRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
}

// HealthDataSnapshot is the aggregate root and the only persisted unit
type HealthDataSnapshot struct {
	User          UserProfile          `json:"user"`
	Medicines     []Medicine           `json:"medicines"`
	DailyFeedback []DailyFeedbackEntry `json:"dailyFeedback"`
	Reports       []ReportRecord       `json:"reports"`
	LastUpdated   time.Time            `json:"lastUpdated"`
}

// Severity is the severity of an interaction or warning
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	return s == SeverityWarning || s == SeverityCritical
}

// Rank orders severities, higher is more severe
func (s Severity) Rank() int {
	if s == SeverityCritical {
		return 1
	}
	return 0
}

// InteractionRecord is a known interaction between two medicines
type InteractionRecord struct {
	DrugA    string   `json:"drugA" yaml:"drugA"`
	DrugB    string   `json:"drugB" yaml:"drugB"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message" yaml:"message"`
}

// RiskLevel is the tier derived from a safety score
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskCritical RiskLevel = "critical"
)

// Warning is one explanation attached to a safety score
type Warning struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// SafetyScoreBreakdown is the derived safety score, never persisted
type SafetyScoreBreakdown struct {
	FinalScore int       `json:"finalScore"`
	RiskLevel  RiskLevel `json:"riskLevel"`
	Warnings   []Warning `json:"warnings"`
}
