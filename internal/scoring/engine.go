// Package scoring combines interaction lookups and adherence analytics into a
// bounded safety score. Score is pure: identical inputs always give identical
// breakdowns.
package scoring

import (
	"fmt"
	"sort"

	"github.com/vcscsvcscs/medsafety/internal/analytics"
	"github.com/vcscsvcscs/medsafety/internal/interaction"
	"github.com/vcscsvcscs/medsafety/pkg/model"
)

// Fixed weights. Changing any of these changes every stored score comparison.
const (
	Baseline = 100

	CriticalInteractionPenalty = 15
	WarningInteractionPenalty  = 5

	MissedDosePenalty    = 2
	MissedDosePenaltyCap = 20

	RecurringSideEffectMinEntries = 2
	RecurringSideEffectPenalty    = 3
	SideEffectPenaltyCap          = 15
)

// Risk thresholds: score >= LowRiskThreshold is low, score >=
// ModerateRiskThreshold is moderate, anything below is critical.
const (
	LowRiskThreshold      = 80
	ModerateRiskThreshold = 50
)

// InteractionLookup is the knowledge base contract the engine depends on
type InteractionLookup interface {
	Lookup(nameA, nameB string) (model.InteractionRecord, bool)
}

// Engine computes safety scores
type Engine struct {
	kb InteractionLookup
}

// NewEngine creates an Engine backed by kb, or the embedded table when kb is nil
func NewEngine(kb InteractionLookup) *Engine {
	if kb == nil {
		kb = interaction.Default()
	}
	return &Engine{kb: kb}
}

// Score computes the breakdown for the given medicines and feedback. The
// canonical trailing window is taken from the feedback passed in. The user
// profile is part of the contract but no reference term depends on it.
func (e *Engine) Score(medicines []model.Medicine, feedback []model.DailyFeedbackEntry, user model.UserProfile) model.SafetyScoreBreakdown {
	active := model.ActiveMedicines(medicines)
	deduction := 0
	var warnings []model.Warning

	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			rec, ok := e.kb.Lookup(active[i].Name, active[j].Name)
			if !ok {
				continue
			}
			deduction += interactionPenalty(rec.Severity)
			warnings = append(warnings, model.Warning{
				Severity: rec.Severity,
				Message:  fmt.Sprintf("Interaction between %s and %s: %s", active[i].Name, active[j].Name, rec.Message),
			})
		}
	}

	window := analytics.Window(feedback, analytics.DefaultWindowSize)

	if missed := analytics.MissedDoseCount(medicines, window); missed > 0 {
		deduction += min(MissedDosePenaltyCap, missed*MissedDosePenalty)
		warnings = append(warnings, model.Warning{
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("Missed %d dose(s) in the last %d days of feedback", missed, len(window)),
		})
	}

	sideEffectDeduction := 0
	for _, effect := range analytics.ActiveSideEffects(window) {
		if effect.Count < RecurringSideEffectMinEntries {
			continue
		}
		sideEffectDeduction += RecurringSideEffectPenalty
		warnings = append(warnings, model.Warning{
			Severity: model.SeverityWarning,
			Message:  fmt.Sprintf("Side effect %q reported on %d of the last %d days", effect.Name, effect.Count, len(window)),
		})
	}
	deduction += min(SideEffectPenaltyCap, sideEffectDeduction)

	score := clamp(Baseline-deduction, 0, 100)

	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Severity.Rank() > warnings[j].Severity.Rank()
	})
	if warnings == nil {
		warnings = []model.Warning{}
	}

	return model.SafetyScoreBreakdown{
		FinalScore: score,
		RiskLevel:  RiskLevelFor(score),
		Warnings:   warnings,
	}
}

// RiskLevelFor maps a score to its risk tier
func RiskLevelFor(score int) model.RiskLevel {
	switch {
	case score >= LowRiskThreshold:
		return model.RiskLow
	case score >= ModerateRiskThreshold:
		return model.RiskModerate
	default:
		return model.RiskCritical
	}
}

func interactionPenalty(s model.Severity) int {
	if s == model.SeverityCritical {
		return CriticalInteractionPenalty
	}
	return WarningInteractionPenalty
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
