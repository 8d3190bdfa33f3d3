package analytics

import (
	"math"

	"github.com/vcscsvcscs/medsafety/pkg/model"
)

// Summary is the raw adherence view used by dashboard widgets
type Summary struct {
	WindowSize          int                       `json:"windowSize"`
	CheckInCount        int                       `json:"checkInCount"`
	AdherenceRate       int                       `json:"adherenceRate"`
	MissedDoses         int                       `json:"missedDoses"`
	SideEffects         []SideEffectCount         `json:"sideEffects"`
	AveragePain         float64                   `json:"averagePain"`
	FeelingDistribution map[model.Feeling]int     `json:"feelingDistribution"`
	EnergyLevels        map[model.EnergyLevel]int `json:"energyLevels"`
}

// Summarize computes the adherence summary over the canonical window
func Summarize(snapshot *model.HealthDataSnapshot) Summary {
	window := Window(snapshot.DailyFeedback, DefaultWindowSize)

	summary := Summary{
		WindowSize:          DefaultWindowSize,
		CheckInCount:        len(window),
		AdherenceRate:       AdherenceRate(snapshot.Medicines, window),
		MissedDoses:         MissedDoseCount(snapshot.Medicines, window),
		SideEffects:         ActiveSideEffects(window),
		FeelingDistribution: make(map[model.Feeling]int),
		EnergyLevels:        make(map[model.EnergyLevel]int),
	}

	if len(window) == 0 {
		return summary
	}

	painTotal := 0
	for _, entry := range window {
		painTotal += entry.HealthCheck.PainLevel
		if entry.HealthCheck.OverallFeeling != "" {
			summary.FeelingDistribution[entry.HealthCheck.OverallFeeling]++
		}
		if entry.HealthCheck.EnergyLevel != "" {
			summary.EnergyLevels[entry.HealthCheck.EnergyLevel]++
		}
	}
	// one decimal place
	summary.AveragePain = math.Round(float64(painTotal)/float64(len(window))*10) / 10

	return summary
}

// MedicineUsage summarises a medicine's own usage log
type MedicineUsage struct {
	MedicineID string `json:"medicineId"`
	Days       int    `json:"days"`
	Taken      int    `json:"taken"`
	Skipped    int    `json:"skipped"`
	Unrecorded int    `json:"unrecorded"`
}

// UsageStats counts taken, skipped and unrecorded days in a medicine's usage log
func UsageStats(m model.Medicine) MedicineUsage {
	stats := MedicineUsage{MedicineID: m.ID, Days: len(m.DailyUsage)}
	for _, u := range m.DailyUsage {
		switch {
		case u.Taken:
			stats.Taken++
		case u.Skipped:
			stats.Skipped++
		default:
			stats.Unrecorded++
		}
	}
	return stats
}
