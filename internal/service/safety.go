package service

import (
	"context"
	"fmt"

	"github.com/vcscsvcscs/medsafety/internal/analytics"
	"github.com/vcscsvcscs/medsafety/internal/interaction"
	"github.com/vcscsvcscs/medsafety/internal/scoring"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// SafetyService derives scores and adherence statistics from the latest
// snapshot on every call. Nothing is cached.
type SafetyService struct {
	store  *HealthRecordStore
	kb     *interaction.KnowledgeBase
	engine *scoring.Engine
	logger *zap.Logger
}

// NewSafetyService creates a new SafetyService. A nil kb means the embedded table.
func NewSafetyService(store *HealthRecordStore, kb *interaction.KnowledgeBase, logger *zap.Logger) *SafetyService {
	if kb == nil {
		kb = interaction.Default()
	}
	return &SafetyService{
		store:  store,
		kb:     kb,
		engine: scoring.NewEngine(kb),
		logger: logger,
	}
}

// Score computes the safety score breakdown for the current snapshot
func (s *SafetyService) Score(ctx context.Context) (model.SafetyScoreBreakdown, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return model.SafetyScoreBreakdown{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	breakdown := s.ScoreSnapshot(snapshot)

	s.logger.Debug("safety score computed",
		zap.Int("final_score", breakdown.FinalScore),
		zap.String("risk_level", string(breakdown.RiskLevel)),
		zap.Int("warnings", len(breakdown.Warnings)),
	)
	return breakdown, nil
}

// ScoreSnapshot scores a snapshot the caller already holds
func (s *SafetyService) ScoreSnapshot(snapshot *model.HealthDataSnapshot) model.SafetyScoreBreakdown {
	return s.engine.Score(snapshot.Medicines, snapshot.DailyFeedback, snapshot.User)
}

// Adherence returns the raw adherence summary without a full score
func (s *SafetyService) Adherence(ctx context.Context) (analytics.Summary, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return analytics.Summary{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return analytics.Summarize(snapshot), nil
}

// MedicineUsage returns usage statistics for one medicine
func (s *SafetyService) MedicineUsage(ctx context.Context, medicineID string) (analytics.MedicineUsage, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return analytics.MedicineUsage{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	i := findMedicine(snapshot, medicineID)
	if i < 0 {
		return analytics.MedicineUsage{}, fmt.Errorf("%w: medicine %s", ErrNotFound, medicineID)
	}
	return analytics.UsageStats(snapshot.Medicines[i]), nil
}

// CheckInteraction looks up a single pair of medicine names
func (s *SafetyService) CheckInteraction(nameA, nameB string) (model.InteractionRecord, bool) {
	return s.kb.Lookup(nameA, nameB)
}

// KnownInteractions lists every pair in the knowledge base
func (s *SafetyService) KnownInteractions() []model.InteractionRecord {
	return s.kb.Pairs()
}
