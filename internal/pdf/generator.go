package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/vcscsvcscs/medsafety/internal/analytics"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// PDFGenerator renders the shareable health summary as a PDF
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// ReportData contains all data needed for report generation. Breakdown and
// Summary are optional.
type ReportData struct {
	Snapshot  *model.HealthDataSnapshot
	Breakdown *model.SafetyScoreBreakdown
	Summary   *analytics.Summary
}

// page wraps the document with a UTF-8 to cp1252 translator for the core fonts
type page struct {
	*gofpdf.Fpdf
	tr func(string) string
}

func (p *page) text(h float64, s string) {
	p.CellFormat(0, h, p.tr(s), "", 1, "L", false, 0, "")
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	if data == nil || data.Snapshot == nil {
		return nil, fmt.Errorf("report data requires a snapshot")
	}

	g.logger.Info("generating PDF report",
		zap.String("user_id", data.Snapshot.User.ID),
		zap.Bool("with_score", data.Breakdown != nil),
	)

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.SetCreationDate(data.Snapshot.LastUpdated)
	doc.SetTitle("Health Summary Report", true)

	p := &page{Fpdf: doc, tr: doc.UnicodeTranslatorFromDescriptor("")}
	p.AddPage()

	g.addTitle(p, data.Snapshot)
	g.addPatientInformation(p, data.Snapshot.User)
	g.addMedicationList(p, data.Snapshot.ActiveMedicines())
	g.addList(p, "Allergies", data.Snapshot.User.Allergies, "No allergies recorded.")
	g.addList(p, "Medical Conditions", data.Snapshot.User.ChronicConditions, "No chronic conditions recorded.")
	g.addEmergencyContact(p, data.Snapshot.User)
	if data.Breakdown != nil {
		g.addSafetySummary(p, data.Breakdown)
	}
	if data.Summary != nil {
		g.addAdherence(p, data.Summary)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

func (g *PDFGenerator) addTitle(p *page, s *model.HealthDataSnapshot) {
	p.SetFont("Arial", "B", 20)
	p.CellFormat(0, 10, "Health Summary Report", "", 1, "C", false, 0, "")
	p.Ln(5)

	p.SetFont("Arial", "", 12)
	name := s.User.FullName
	if name == "" {
		name = "Not provided"
	}
	p.text(8, fmt.Sprintf("Patient: %s", name))
	p.text(8, fmt.Sprintf("Record updated: %s", s.LastUpdated.UTC().Format("2006-01-02 15:04 UTC")))
	p.Ln(10)
}

func (g *PDFGenerator) addSectionHeader(p *page, title string) {
	p.SetFont("Arial", "B", 14)
	p.SetFillColor(230, 230, 230)
	p.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	p.Ln(3)
	p.SetFont("Arial", "", 10)
}

func (g *PDFGenerator) addPatientInformation(p *page, u model.UserProfile) {
	g.addSectionHeader(p, "Patient Information")

	fields := []struct{ label, value string }{
		{"Date of birth", u.DateOfBirth},
		{"Blood type", u.BloodType},
		{"Email", u.Email},
		{"Phone", u.Phone},
	}
	for _, f := range fields {
		if f.value != "" {
			p.text(6, fmt.Sprintf("%s: %s", f.label, f.value))
		}
	}
	p.Ln(5)
}

func (g *PDFGenerator) addMedicationList(p *page, medicines []model.Medicine) {
	g.addSectionHeader(p, "Current Medications")

	if len(medicines) == 0 {
		p.text(8, "No active medications.")
		p.Ln(5)
		return
	}

	for _, med := range medicines {
		p.SetFont("Arial", "B", 10)
		p.text(6, med.Name)
		p.SetFont("Arial", "", 10)
		if med.Dosage != "" {
			p.text(5, fmt.Sprintf("  Dosage: %s", med.Dosage))
		}
		if med.Frequency != "" {
			p.text(5, fmt.Sprintf("  Frequency: %s", med.Frequency))
		}
		if len(med.TimesOfDay) > 0 {
			times := make([]string, len(med.TimesOfDay))
			for i, t := range med.TimesOfDay {
				times[i] = string(t)
			}
			p.text(5, fmt.Sprintf("  Times: %s", strings.Join(times, ", ")))
		}
		if med.Reason != "" {
			p.text(5, fmt.Sprintf("  Reason: %s", med.Reason))
		}
		if med.PrescribedBy != "" {
			p.text(5, fmt.Sprintf("  Prescribed by: %s", med.PrescribedBy))
		}
		if med.StartDate != "" {
			p.text(5, fmt.Sprintf("  Start Date: %s", med.StartDate))
		}
		p.Ln(3)
	}
	p.Ln(5)
}

func (g *PDFGenerator) addList(p *page, title string, values []string, empty string) {
	g.addSectionHeader(p, title)

	if len(values) == 0 {
		p.text(8, empty)
	}
	for _, v := range values {
		p.text(5, fmt.Sprintf("  - %s", v))
	}
	p.Ln(5)
}

func (g *PDFGenerator) addEmergencyContact(p *page, u model.UserProfile) {
	g.addSectionHeader(p, "Emergency Contact")

	if u.EmergencyContactName == "" && u.EmergencyContactPhone == "" {
		p.text(8, "No emergency contact recorded.")
		p.Ln(5)
		return
	}

	contact := u.EmergencyContactName
	if u.EmergencyContactRelation != "" {
		contact = fmt.Sprintf("%s (%s)", contact, u.EmergencyContactRelation)
	}
	p.text(6, contact)
	if u.EmergencyContactPhone != "" {
		p.text(6, fmt.Sprintf("Phone: %s", u.EmergencyContactPhone))
	}
	p.Ln(5)
}

func (g *PDFGenerator) addSafetySummary(p *page, b *model.SafetyScoreBreakdown) {
	g.addSectionHeader(p, "Safety Summary")

	p.SetFont("Arial", "B", 12)
	p.text(8, fmt.Sprintf("Safety score: %d/100 (%s risk)", b.FinalScore, b.RiskLevel))
	p.SetFont("Arial", "", 10)

	if len(b.Warnings) == 0 {
		p.text(6, "No warnings.")
	}
	for _, w := range b.Warnings {
		if w.Severity == model.SeverityCritical {
			p.SetTextColor(180, 0, 0)
		}
		p.MultiCell(0, 5, p.tr(fmt.Sprintf("[%s] %s", strings.ToUpper(string(w.Severity)), w.Message)), "", "L", false)
		p.SetTextColor(0, 0, 0)
	}
	p.Ln(5)
}

func (g *PDFGenerator) addAdherence(p *page, s *analytics.Summary) {
	g.addSectionHeader(p, "Medication Adherence")

	if s.CheckInCount == 0 {
		p.text(8, "No adherence data recorded.")
		p.Ln(5)
		return
	}

	p.text(6, fmt.Sprintf("Adherence over the last %d check-ins: %d%%", s.CheckInCount, s.AdherenceRate))
	p.text(6, fmt.Sprintf("Missed doses: %d", s.MissedDoses))
	p.text(6, fmt.Sprintf("Average pain level: %.1f/10", s.AveragePain))
	for _, effect := range s.SideEffects {
		p.text(5, fmt.Sprintf("  - %s: %d day(s)", effect.Name, effect.Count))
	}
	p.Ln(5)
}
