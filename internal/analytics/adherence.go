// Package analytics derives adherence and usage statistics from daily feedback.
// All functions are pure and never fail.
package analytics

import (
	"math"
	"sort"
	"strings"

	"github.com/vcscsvcscs/medsafety/pkg/model"
)

// DefaultWindowSize is the number of most recent feedback entries analysed
const DefaultWindowSize = 7

// NoSideEffects is the sentinel meaning "none reported"
const NoSideEffects = "None"

// SideEffectCount is one bucket of the side-effect histogram
type SideEffectCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Window returns the n most recent entries in chronological order. Fewer
// entries than n means all of them. The input slice is not modified.
func Window(feedback []model.DailyFeedbackEntry, n int) []model.DailyFeedbackEntry {
	if n <= 0 || len(feedback) == 0 {
		return []model.DailyFeedbackEntry{}
	}
	sorted := make([]model.DailyFeedbackEntry, len(feedback))
	copy(sorted, feedback)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}

// AdherenceRate is the percentage of dose slots of active medicines in the
// window that were taken or delayed, rounded to the nearest integer. It is 0
// when there are no slots.
func AdherenceRate(medicines []model.Medicine, window []model.DailyFeedbackEntry) int {
	total, taken := 0, 0
	forEachActiveSlot(medicines, window, func(slot model.DoseSlot) {
		total++
		if slot.Taken == model.DoseTaken || slot.Taken == model.DoseDelayed {
			taken++
		}
	})
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(taken) / float64(total) * 100))
}

// MissedDoseCount counts slots of active medicines marked missed in the window
func MissedDoseCount(medicines []model.Medicine, window []model.DailyFeedbackEntry) int {
	missed := 0
	forEachActiveSlot(medicines, window, func(slot model.DoseSlot) {
		if slot.Taken == model.DoseMissed {
			missed++
		}
	})
	return missed
}

// ActiveSideEffects builds a histogram of side effects over the window. Each
// side effect counts once per entry it was reported in. The result is sorted
// by count descending, ties keep first-seen order.
func ActiveSideEffects(window []model.DailyFeedbackEntry) []SideEffectCount {
	var order []string
	counts := make(map[string]*SideEffectCount)

	for _, entry := range window {
		seenInEntry := make(map[string]bool)
		for _, log := range entry.MedicationLogs {
			for _, effect := range log.SideEffects {
				effect = strings.TrimSpace(effect)
				key := strings.ToLower(effect)
				if effect == "" || key == strings.ToLower(NoSideEffects) || seenInEntry[key] {
					continue
				}
				seenInEntry[key] = true
				if c, ok := counts[key]; ok {
					c.Count++
					continue
				}
				counts[key] = &SideEffectCount{Name: effect, Count: 1}
				order = append(order, key)
			}
		}
	}

	out := make([]SideEffectCount, 0, len(order))
	for _, key := range order {
		out = append(out, *counts[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func forEachActiveSlot(medicines []model.Medicine, window []model.DailyFeedbackEntry, fn func(model.DoseSlot)) {
	active := make(map[string]bool, len(medicines))
	for _, m := range medicines {
		if m.IsActive() {
			active[m.ID] = true
		}
	}
	for _, entry := range window {
		for _, log := range entry.MedicationLogs {
			if !active[log.MedicineID] {
				continue
			}
			for _, slot := range log.TimesOfDay {
				fn(slot)
			}
		}
	}
}
