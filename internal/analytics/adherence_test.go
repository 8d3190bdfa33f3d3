package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/medsafety/pkg/model"
)

var fixedTime = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

var allTimes = []model.TimeOfDay{model.TimeMorning, model.TimeAfternoon, model.TimeEvening, model.TimeNight}

func activeMedicine(id, name string) model.Medicine {
	return model.Medicine{ID: id, Name: name, Status: model.MedicineStatusActive, TimesOfDay: allTimes}
}

// dayWith builds a feedback entry for one medicine with the given slot statuses
func dayWith(date, medicineID string, statuses []model.DoseStatus, sideEffects ...string) model.DailyFeedbackEntry {
	slots := make([]model.DoseSlot, len(statuses))
	for i, s := range statuses {
		slots[i] = model.DoseSlot{Time: allTimes[i%len(allTimes)], Taken: s, DosageAccuracy: model.DosagePrescribed}
	}
	return model.DailyFeedbackEntry{
		Date: date,
		MedicationLogs: []model.MedicationLog{{
			MedicineID:  medicineID,
			TimesOfDay:  slots,
			SideEffects: sideEffects,
		}},
	}
}

func allTaken() []model.DoseStatus {
	return []model.DoseStatus{model.DoseTaken, model.DoseTaken, model.DoseTaken, model.DoseTaken}
}

func TestWindow(t *testing.T) {
	var feedback []model.DailyFeedbackEntry
	for day := 10; day >= 1; day-- {
		feedback = append(feedback, model.DailyFeedbackEntry{Date: fmt.Sprintf("2024-03-%02d", day)})
	}

	window := Window(feedback, DefaultWindowSize)
	require.Len(t, window, 7)
	assert.Equal(t, "2024-03-04", window[0].Date)
	assert.Equal(t, "2024-03-10", window[6].Date)
	assert.Equal(t, "2024-03-10", feedback[0].Date, "input must not be reordered")

	assert.Len(t, Window(feedback[:3], DefaultWindowSize), 3)
	assert.Empty(t, Window(nil, DefaultWindowSize))
	assert.Empty(t, Window(feedback, 0))
}

func TestAdherence_SevenDayWindowWithFourMissed(t *testing.T) {
	medicines := []model.Medicine{activeMedicine("m-1", "Metformin")}

	var feedback []model.DailyFeedbackEntry
	for day := 1; day <= 7; day++ {
		statuses := allTaken()
		if day <= 4 {
			statuses[0] = model.DoseMissed
		}
		feedback = append(feedback, dayWith(fmt.Sprintf("2024-03-%02d", day), "m-1", statuses))
	}

	window := Window(feedback, DefaultWindowSize)
	assert.Equal(t, 86, AdherenceRate(medicines, window))
	assert.Equal(t, 4, MissedDoseCount(medicines, window))
}

func TestAdherence_DelayedCountsAsTakenAndNotTakenDoesNot(t *testing.T) {
	medicines := []model.Medicine{activeMedicine("m-1", "Aspirin")}
	window := []model.DailyFeedbackEntry{
		dayWith("2024-03-01", "m-1", []model.DoseStatus{model.DoseDelayed, model.DoseNotTaken}),
	}

	assert.Equal(t, 50, AdherenceRate(medicines, window))
	assert.Equal(t, 0, MissedDoseCount(medicines, window))
}

func TestAdherence_ExcludesStoppedAndUnknownMedicines(t *testing.T) {
	stopped := activeMedicine("m-2", "Ibuprofen")
	stopped.Status = model.MedicineStatusStopped
	medicines := []model.Medicine{activeMedicine("m-1", "Aspirin"), stopped}

	missedAll := []model.DoseStatus{model.DoseMissed, model.DoseMissed}
	window := []model.DailyFeedbackEntry{
		dayWith("2024-03-01", "m-1", allTaken()),
		dayWith("2024-03-01", "m-2", missedAll),
		dayWith("2024-03-02", "deleted-medicine", missedAll),
	}

	assert.Equal(t, 100, AdherenceRate(medicines, window))
	assert.Equal(t, 0, MissedDoseCount(medicines, window))
}

func TestAdherence_EmptyWindow(t *testing.T) {
	medicines := []model.Medicine{activeMedicine("m-1", "Aspirin")}
	assert.Equal(t, 0, AdherenceRate(medicines, nil))
	assert.Equal(t, 0, MissedDoseCount(medicines, nil))
	assert.Empty(t, ActiveSideEffects(nil))
}

func TestActiveSideEffects(t *testing.T) {
	window := []model.DailyFeedbackEntry{
		dayWith("2024-03-01", "m-1", allTaken(), "Headache", "None"),
		dayWith("2024-03-02", "m-1", allTaken(), "Nausea", "headache"),
		dayWith("2024-03-03", "m-1", allTaken(), "Dizziness", "Nausea", "NONE"),
		dayWith("2024-03-04", "m-1", allTaken(), "Fatigue"),
	}
	// the same side effect reported for two medicines on one day counts once
	window[3].MedicationLogs = append(window[3].MedicationLogs, model.MedicationLog{
		MedicineID:  "m-2",
		SideEffects: []string{"fatigue"},
	})

	got := ActiveSideEffects(window)

	assert.Equal(t, []SideEffectCount{
		{Name: "Headache", Count: 2},
		{Name: "Nausea", Count: 2},
		{Name: "Dizziness", Count: 1},
		{Name: "Fatigue", Count: 1},
	}, got)
}

// Adherence is always a percentage and missed doses never exceed the slot count
func TestProperty_AdherenceBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	statusGen := gen.OneConstOf(model.DoseTaken, model.DoseMissed, model.DoseDelayed, model.DoseNotTaken)

	properties.Property("0 <= adherence <= 100 and missed <= slots", prop.ForAll(
		func(statuses []model.DoseStatus) bool {
			medicines := []model.Medicine{activeMedicine("m-1", "Aspirin")}
			var feedback []model.DailyFeedbackEntry
			for i := 0; i < len(statuses); i += 4 {
				end := i + 4
				if end > len(statuses) {
					end = len(statuses)
				}
				feedback = append(feedback, dayWith(fmt.Sprintf("2024-01-%02d", i/4+1), "m-1", statuses[i:end]))
			}
			window := Window(feedback, DefaultWindowSize)
			rate := AdherenceRate(medicines, window)
			missed := MissedDoseCount(medicines, window)
			return rate >= 0 && rate <= 100 && missed >= 0 && missed <= len(statuses)
		},
		gen.SliceOf(statusGen),
	))

	properties.TestingRun(t)
}

func TestSummarize(t *testing.T) {
	snapshot := model.NewDefaultSnapshot("u-1", fixedTime)
	snapshot.Medicines = []model.Medicine{activeMedicine("m-1", "Aspirin")}

	good := dayWith("2024-03-01", "m-1", allTaken(), "Nausea")
	good.HealthCheck = model.HealthCheck{OverallFeeling: model.FeelingGood, PainLevel: 2, EnergyLevel: model.EnergyHigh}
	bad := dayWith("2024-03-02", "m-1", []model.DoseStatus{model.DoseMissed, model.DoseTaken, model.DoseTaken, model.DoseTaken}, "Nausea")
	bad.HealthCheck = model.HealthCheck{OverallFeeling: model.FeelingBad, PainLevel: 7, EnergyLevel: model.EnergyLow}
	snapshot.DailyFeedback = []model.DailyFeedbackEntry{bad, good}

	summary := Summarize(snapshot)

	assert.Equal(t, DefaultWindowSize, summary.WindowSize)
	assert.Equal(t, 2, summary.CheckInCount)
	assert.Equal(t, 88, summary.AdherenceRate)
	assert.Equal(t, 1, summary.MissedDoses)
	assert.Equal(t, []SideEffectCount{{Name: "Nausea", Count: 2}}, summary.SideEffects)
	assert.Equal(t, 4.5, summary.AveragePain)
	assert.Equal(t, map[model.Feeling]int{model.FeelingGood: 1, model.FeelingBad: 1}, summary.FeelingDistribution)
	assert.Equal(t, map[model.EnergyLevel]int{model.EnergyHigh: 1, model.EnergyLow: 1}, summary.EnergyLevels)
}

func TestSummarize_NoFeedback(t *testing.T) {
	summary := Summarize(model.NewDefaultSnapshot("u-1", fixedTime))

	assert.Equal(t, 0, summary.CheckInCount)
	assert.Equal(t, 0, summary.AdherenceRate)
	assert.Equal(t, 0.0, summary.AveragePain)
	assert.NotNil(t, summary.SideEffects)
	assert.NotNil(t, summary.FeelingDistribution)
}

func TestUsageStats(t *testing.T) {
	m := activeMedicine("m-1", "Aspirin")
	m.DailyUsage = []model.UsageEntry{
		{Date: "2024-03-01", Taken: true},
		{Date: "2024-03-02", Skipped: true},
		{Date: "2024-03-03"},
		{Date: "2024-03-04", Taken: true},
	}

	assert.Equal(t, MedicineUsage{MedicineID: "m-1", Days: 4, Taken: 2, Skipped: 1, Unrecorded: 1}, UsageStats(m))
}
