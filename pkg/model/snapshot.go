package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation is wrapped by every field-level validation failure
var ErrValidation = errors.New("validation failed")

// NewDefaultSnapshot returns the seeded first-run record
func NewDefaultSnapshot(userID string, now time.Time) *HealthDataSnapshot {
	s := &HealthDataSnapshot{
		User:        UserProfile{ID: userID},
		LastUpdated: now.UTC(),
	}
	s.Normalize()
	return s
}

// Normalize fills absent collections and defaults missing fields so that
// documents written by an older schema load into a complete record
func (s *HealthDataSnapshot) Normalize() {
	s.User.Allergies = dedupFold(s.User.Allergies)
	s.User.ChronicConditions = dedupFold(s.User.ChronicConditions)

	if s.Medicines == nil {
		s.Medicines = []Medicine{}
	}
	for i := range s.Medicines {
		m := &s.Medicines[i]
		if m.Status == "" {
			m.Status = MedicineStatusActive
		}
		if m.TimesOfDay == nil {
			m.TimesOfDay = []TimeOfDay{}
		}
		if m.DailyUsage == nil {
			m.DailyUsage = []UsageEntry{}
		}
	}

	if s.DailyFeedback == nil {
		s.DailyFeedback = []DailyFeedbackEntry{}
	}
	for i := range s.DailyFeedback {
		s.DailyFeedback[i].Normalize()
	}

	if s.Reports == nil {
		s.Reports = []ReportRecord{}
	}
}

// Normalize fills absent collections and defaults unset dose slot fields
func (e *DailyFeedbackEntry) Normalize() {
	if e.MedicationLogs == nil {
		e.MedicationLogs = []MedicationLog{}
	}
	for j := range e.MedicationLogs {
		log := &e.MedicationLogs[j]
		if log.TimesOfDay == nil {
			log.TimesOfDay = []DoseSlot{}
		}
		for k := range log.TimesOfDay {
			if log.TimesOfDay[k].Taken == "" {
				log.TimesOfDay[k].Taken = DoseNotTaken
			}
			if log.TimesOfDay[k].DosageAccuracy == "" {
				log.TimesOfDay[k].DosageAccuracy = DosagePrescribed
			}
		}
		log.SideEffects = dedupFold(log.SideEffects)
	}
	if e.ReportUploads == nil {
		e.ReportUploads = []ReportUpload{}
	}
}

// Clone returns a deep copy of the snapshot
func (s *HealthDataSnapshot) Clone() *HealthDataSnapshot {
	c := *s
	c.User.Allergies = append([]string{}, s.User.Allergies...)
	c.User.ChronicConditions = append([]string{}, s.User.ChronicConditions...)

	c.Medicines = make([]Medicine, len(s.Medicines))
	for i, m := range s.Medicines {
		c.Medicines[i] = m.Clone()
	}

	c.DailyFeedback = make([]DailyFeedbackEntry, len(s.DailyFeedback))
	for i, e := range s.DailyFeedback {
		c.DailyFeedback[i] = e.Clone()
	}

	c.Reports = append([]ReportRecord{}, s.Reports...)
	return &c
}

// Clone returns a deep copy of the medicine
func (m Medicine) Clone() Medicine {
	c := m
	c.TimesOfDay = append([]TimeOfDay{}, m.TimesOfDay...)
	c.DailyUsage = make([]UsageEntry, len(m.DailyUsage))
	for i, u := range m.DailyUsage {
		c.DailyUsage[i] = u
		if u.Notes != nil {
			notes := *u.Notes
			c.DailyUsage[i].Notes = &notes
		}
	}
	return c
}

// Clone returns a deep copy of the feedback entry
func (e DailyFeedbackEntry) Clone() DailyFeedbackEntry {
	c := e
	c.MedicationLogs = make([]MedicationLog, len(e.MedicationLogs))
	for i, log := range e.MedicationLogs {
		c.MedicationLogs[i] = MedicationLog{
			MedicineID:   log.MedicineID,
			MedicineName: log.MedicineName,
			TimesOfDay:   append([]DoseSlot{}, log.TimesOfDay...),
			SideEffects:  append([]string{}, log.SideEffects...),
		}
	}
	c.ReportUploads = append([]ReportUpload{}, e.ReportUploads...)
	return c
}

// ActiveMedicines returns the medicines with status active, in list order
func (s *HealthDataSnapshot) ActiveMedicines() []Medicine {
	return ActiveMedicines(s.Medicines)
}

// ActiveMedicines filters medicines down to the active ones
func ActiveMedicines(medicines []Medicine) []Medicine {
	active := make([]Medicine, 0, len(medicines))
	for _, m := range medicines {
		if m.IsActive() {
			active = append(active, m)
		}
	}
	return active
}

// MedicinePatch is a partial update of a medicine, nil fields are left unchanged
type MedicinePatch struct {
	Name         *string         `json:"name,omitempty"`
	Dosage       *string         `json:"dosage,omitempty"`
	Frequency    *string         `json:"frequency,omitempty"`
	TimesOfDay   []TimeOfDay     `json:"timesOfDay,omitempty"`
	Reason       *string         `json:"reason,omitempty"`
	PrescribedBy *string         `json:"prescribedBy,omitempty"`
	StartDate    *string         `json:"startDate,omitempty"`
	Status       *MedicineStatus `json:"status,omitempty"`
}

// Apply merges the patch into m
func (p MedicinePatch) Apply(m *Medicine) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Dosage != nil {
		m.Dosage = *p.Dosage
	}
	if p.Frequency != nil {
		m.Frequency = *p.Frequency
	}
	if p.TimesOfDay != nil {
		m.TimesOfDay = append([]TimeOfDay{}, p.TimesOfDay...)
	}
	if p.Reason != nil {
		m.Reason = *p.Reason
	}
	if p.PrescribedBy != nil {
		m.PrescribedBy = *p.PrescribedBy
	}
	if p.StartDate != nil {
		m.StartDate = *p.StartDate
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
}

// ProfilePatch is a partial update of the user profile
type ProfilePatch struct {
	FullName                 *string  `json:"fullName,omitempty"`
	Email                    *string  `json:"email,omitempty"`
	Phone                    *string  `json:"phone,omitempty"`
	DateOfBirth              *string  `json:"dateOfBirth,omitempty"`
	BloodType                *string  `json:"bloodType,omitempty"`
	Allergies                []string `json:"allergies,omitempty"`
	ChronicConditions        []string `json:"chronicConditions,omitempty"`
	EmergencyContactName     *string  `json:"emergencyContactName,omitempty"`
	EmergencyContactRelation *string  `json:"emergencyContactRelation,omitempty"`
	EmergencyContactPhone    *string  `json:"emergencyContactPhone,omitempty"`
}

// Apply merges the patch into u
func (p ProfilePatch) Apply(u *UserProfile) {
	setIf(&u.FullName, p.FullName)
	setIf(&u.Email, p.Email)
	setIf(&u.Phone, p.Phone)
	setIf(&u.DateOfBirth, p.DateOfBirth)
	setIf(&u.BloodType, p.BloodType)
	if p.Allergies != nil {
		u.Allergies = dedupFold(p.Allergies)
	}
	if p.ChronicConditions != nil {
		u.ChronicConditions = dedupFold(p.ChronicConditions)
	}
	setIf(&u.EmergencyContactName, p.EmergencyContactName)
	setIf(&u.EmergencyContactRelation, p.EmergencyContactRelation)
	setIf(&u.EmergencyContactPhone, p.EmergencyContactPhone)
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// ValidateDate checks that d is a YYYY-MM-DD calendar date
func ValidateDate(d string) error {
	if _, err := time.Parse(DateLayout, d); err != nil {
		return fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", ErrValidation, d)
	}
	return nil
}

// ValidateMedicine checks the fields a stored medicine must carry
func ValidateMedicine(m *Medicine) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: medicine name is required", ErrValidation)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("%w: invalid medicine status %q", ErrValidation, m.Status)
	}
	for _, t := range m.TimesOfDay {
		if !t.Valid() {
			return fmt.Errorf("%w: invalid time of day %q", ErrValidation, t)
		}
	}
	if m.StartDate != "" {
		if err := ValidateDate(m.StartDate); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFeedback checks a daily feedback entry
func ValidateFeedback(e *DailyFeedbackEntry) error {
	if err := ValidateDate(e.Date); err != nil {
		return err
	}
	for _, log := range e.MedicationLogs {
		if log.MedicineID == "" {
			return fmt.Errorf("%w: medication log without medicine id", ErrValidation)
		}
		for _, slot := range log.TimesOfDay {
			if !slot.Time.Valid() {
				return fmt.Errorf("%w: invalid time of day %q", ErrValidation, slot.Time)
			}
			if !slot.Taken.Valid() {
				return fmt.Errorf("%w: invalid dose status %q", ErrValidation, slot.Taken)
			}
			if !slot.DosageAccuracy.Valid() {
				return fmt.Errorf("%w: invalid dosage accuracy %q", ErrValidation, slot.DosageAccuracy)
			}
		}
	}
	hc := e.HealthCheck
	if hc.OverallFeeling != "" && !hc.OverallFeeling.Valid() {
		return fmt.Errorf("%w: invalid overall feeling %q", ErrValidation, hc.OverallFeeling)
	}
	if hc.EnergyLevel != "" && !hc.EnergyLevel.Valid() {
		return fmt.Errorf("%w: invalid energy level %q", ErrValidation, hc.EnergyLevel)
	}
	if hc.PainLevel < 0 || hc.PainLevel > 10 {
		return fmt.Errorf("%w: pain level must be between 0 and 10, got %d", ErrValidation, hc.PainLevel)
	}
	return nil
}

// dedupFold trims values and removes case-insensitive duplicates, keeping the
// first spelling and order
func dedupFold(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
