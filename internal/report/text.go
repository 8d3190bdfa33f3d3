// Package report renders the doctor-facing flat text export of a snapshot
package report

import (
	"fmt"
	"strings"

	"github.com/vcscsvcscs/medsafety/pkg/model"
)

const (
	rule      = "========================================"
	notStated = "Not provided"
	none      = "None recorded"
)

// Section titles in the order they are rendered
const (
	SectionPatient    = "PATIENT INFORMATION"
	SectionMedicines  = "CURRENT MEDICATIONS"
	SectionAllergies  = "ALLERGIES"
	SectionConditions = "MEDICAL CONDITIONS"
	SectionEmergency  = "EMERGENCY CONTACT"
	SectionSafety     = "SAFETY SUMMARY"
)

// ExportText renders the snapshot in a fixed section order. The timestamp
// printed is the snapshot's lastUpdated, so identical input gives
// byte-identical output. The safety summary is included only when breakdown
// is not nil.
func ExportText(snapshot *model.HealthDataSnapshot, breakdown *model.SafetyScoreBreakdown) string {
	var b strings.Builder

	b.WriteString("HEALTH SUMMARY REPORT\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Record updated: %s\n", snapshot.LastUpdated.UTC().Format("2006-01-02 15:04 UTC"))

	section(&b, SectionPatient)
	u := snapshot.User
	line(&b, "Name", u.FullName)
	line(&b, "Date of birth", u.DateOfBirth)
	line(&b, "Blood type", u.BloodType)
	line(&b, "Email", u.Email)
	line(&b, "Phone", u.Phone)

	section(&b, SectionMedicines)
	active := snapshot.ActiveMedicines()
	if len(active) == 0 {
		b.WriteString(none + "\n")
	}
	for i, m := range active {
		fmt.Fprintf(&b, "%d. %s", i+1, m.Name)
		if m.Dosage != "" {
			fmt.Fprintf(&b, " %s", m.Dosage)
		}
		if m.Frequency != "" {
			fmt.Fprintf(&b, ", %s", m.Frequency)
		}
		b.WriteString("\n")
		if len(m.TimesOfDay) > 0 {
			times := make([]string, len(m.TimesOfDay))
			for j, t := range m.TimesOfDay {
				times[j] = string(t)
			}
			fmt.Fprintf(&b, "   Times: %s\n", strings.Join(times, ", "))
		}
		if m.Reason != "" {
			fmt.Fprintf(&b, "   Reason: %s\n", m.Reason)
		}
		if m.PrescribedBy != "" {
			fmt.Fprintf(&b, "   Prescribed by: %s\n", m.PrescribedBy)
		}
		if m.StartDate != "" {
			fmt.Fprintf(&b, "   Since: %s\n", m.StartDate)
		}
	}

	section(&b, SectionAllergies)
	list(&b, u.Allergies)

	section(&b, SectionConditions)
	list(&b, u.ChronicConditions)

	section(&b, SectionEmergency)
	line(&b, "Name", u.EmergencyContactName)
	line(&b, "Relation", u.EmergencyContactRelation)
	line(&b, "Phone", u.EmergencyContactPhone)

	if breakdown != nil {
		section(&b, SectionSafety)
		fmt.Fprintf(&b, "Safety score: %d/100\n", breakdown.FinalScore)
		fmt.Fprintf(&b, "Risk level: %s\n", breakdown.RiskLevel)
		if len(breakdown.Warnings) == 0 {
			b.WriteString("Warnings: none\n")
		}
		for _, w := range breakdown.Warnings {
			fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(string(w.Severity)), w.Message)
		}
	}

	return b.String()
}

func section(b *strings.Builder, title string) {
	b.WriteString("\n" + title + "\n")
	b.WriteString(strings.Repeat("-", len(title)) + "\n")
}

func line(b *strings.Builder, label, value string) {
	if value == "" {
		value = notStated
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func list(b *strings.Builder, values []string) {
	if len(values) == 0 {
		b.WriteString(none + "\n")
		return
	}
	for _, v := range values {
		fmt.Fprintf(b, "- %s\n", v)
	}
}
