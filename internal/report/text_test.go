package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/medsafety/pkg/model"
)

func testSnapshot() *model.HealthDataSnapshot {
	s := model.NewDefaultSnapshot("user-1", time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC))
	s.User.FullName = "Anna Kovacs"
	s.User.DateOfBirth = "1980-05-17"
	s.User.BloodType = "A+"
	s.User.Allergies = []string{"Penicillin", "Latex"}
	s.User.ChronicConditions = []string{"Type 2 diabetes"}
	s.User.EmergencyContactName = "Peter Kovacs"
	s.User.EmergencyContactRelation = "Spouse"
	s.User.EmergencyContactPhone = "+36 30 123 4567"
	s.Medicines = []model.Medicine{
		{ID: "m-1", Name: "Metformin", Dosage: "500mg", Frequency: "twice daily", Status: model.MedicineStatusActive,
			TimesOfDay: []model.TimeOfDay{model.TimeMorning, model.TimeEvening}, Reason: "Diabetes", StartDate: "2023-01-10"},
		{ID: "m-2", Name: "Ibuprofen", Dosage: "200mg", Status: model.MedicineStatusStopped},
		{ID: "m-3", Name: "Aspirin", Dosage: "100mg", Frequency: "daily", Status: model.MedicineStatusActive},
	}
	return s
}

func TestExportText_Sections(t *testing.T) {
	text := ExportText(testSnapshot(), nil)

	assert.Contains(t, text, "Record updated: 2024-03-10 09:30 UTC")
	assert.Contains(t, text, "Name: Anna Kovacs")
	assert.Contains(t, text, "1. Metformin 500mg, twice daily")
	assert.Contains(t, text, "   Times: morning, evening")
	assert.Contains(t, text, "2. Aspirin 100mg, daily")
	assert.NotContains(t, text, "Ibuprofen", "stopped medicines are not current")
	assert.Contains(t, text, "- Penicillin\n- Latex\n")
	assert.Contains(t, text, "- Type 2 diabetes\n")
	assert.Contains(t, text, "Relation: Spouse")
	assert.NotContains(t, text, SectionSafety)

	order := []string{SectionPatient, SectionMedicines, SectionAllergies, SectionConditions, SectionEmergency}
	last := -1
	for _, title := range order {
		idx := strings.Index(text, title)
		require.GreaterOrEqual(t, idx, 0, "missing section %s", title)
		assert.Greater(t, idx, last, "section %s out of order", title)
		last = idx
	}
}

func TestExportText_IsDeterministic(t *testing.T) {
	breakdown := &model.SafetyScoreBreakdown{
		FinalScore: 85,
		RiskLevel:  model.RiskLow,
		Warnings: []model.Warning{
			{Severity: model.SeverityCritical, Message: "Interaction between Metformin and Aspirin: test"},
		},
	}

	first := ExportText(testSnapshot(), breakdown)
	second := ExportText(testSnapshot(), breakdown)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasSuffix(first, "[CRITICAL] Interaction between Metformin and Aspirin: test\n"))
	assert.Contains(t, first, "Safety score: 85/100\nRisk level: low\n")
}

func TestExportText_EmptySnapshot(t *testing.T) {
	text := ExportText(model.NewDefaultSnapshot("user-1", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), &model.SafetyScoreBreakdown{
		FinalScore: 100,
		RiskLevel:  model.RiskLow,
		Warnings:   []model.Warning{},
	})

	assert.Contains(t, text, "Name: Not provided")
	assert.Equal(t, 3, strings.Count(text, "None recorded\n"))
	assert.Contains(t, text, "Warnings: none\n")
}
