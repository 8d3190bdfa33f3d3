package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/medsafety/internal/repository"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

func newPropertyStore(t *testing.T) *HealthRecordStore {
	repo := repository.NewMemorySnapshotRepository(repository.NewCodec(nil))
	store := NewHealthRecordStore(repo, "prop", zap.NewNop(), WithClock(tickingClock()))
	_, err := store.Restore(context.Background())
	require.NoError(t, err)
	return store
}

// Upserting the same feedback twice leaves the same snapshot content as
// upserting it once, apart from the lastUpdated stamp
func TestProperty_FeedbackUpsertIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("upserting one entry twice equals upserting it once", prop.ForAll(
		func(day int, pain int, status model.DoseStatus) bool {
			ctx := context.Background()
			store := newPropertyStore(t)

			entry := feedbackFor(fmt.Sprintf("2024-03-%02d", day), pain)
			entry.MedicationLogs[0].TimesOfDay[0].Taken = status

			if _, err := store.UpsertDailyFeedback(ctx, entry); err != nil {
				t.Logf("first upsert failed: %v", err)
				return false
			}
			once, _ := store.Snapshot(ctx)

			if _, err := store.UpsertDailyFeedback(ctx, entry); err != nil {
				t.Logf("second upsert failed: %v", err)
				return false
			}
			twice, _ := store.Snapshot(ctx)

			if len(twice.DailyFeedback) != 1 {
				t.Logf("expected one entry, got %d", len(twice.DailyFeedback))
				return false
			}
			once.LastUpdated = twice.LastUpdated
			return fmt.Sprintf("%+v", once) == fmt.Sprintf("%+v", twice)
		},
		gen.IntRange(1, 28),
		gen.IntRange(0, 10),
		gen.OneConstOf(model.DoseTaken, model.DoseMissed, model.DoseDelayed, model.DoseNotTaken),
	))

	properties.TestingRun(t)
}

// Every date keeps at most one feedback entry regardless of insertion order
func TestProperty_FeedbackDatesUnique(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("feedback dates are unique after any upsert sequence", prop.ForAll(
		func(days []int) bool {
			ctx := context.Background()
			store := newPropertyStore(t)

			distinct := make(map[string]bool)
			for _, d := range days {
				date := fmt.Sprintf("2024-04-%02d", d)
				distinct[date] = true
				if _, err := store.UpsertDailyFeedback(ctx, feedbackFor(date, d%11)); err != nil {
					t.Logf("upsert failed: %v", err)
					return false
				}
			}

			snapshot, _ := store.Snapshot(ctx)
			seen := make(map[string]bool)
			for _, e := range snapshot.DailyFeedback {
				if seen[e.Date] {
					return false
				}
				seen[e.Date] = true
			}
			return len(seen) == len(distinct)
		},
		gen.SliceOf(gen.IntRange(1, 30)),
	))

	properties.TestingRun(t)
}

// Adding then removing a medicine restores the original medicine list
func TestProperty_AddRemoveMedicineRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("add then remove leaves the medicine list unchanged", prop.ForAll(
		func(name string, existing int) bool {
			ctx := context.Background()
			store := newPropertyStore(t)

			for i := 0; i < existing; i++ {
				m := metformin()
				m.ID = fmt.Sprintf("existing-%d", i)
				if _, err := store.AddMedicine(ctx, m); err != nil {
					t.Logf("seed add failed: %v", err)
					return false
				}
			}
			before, _ := store.Snapshot(ctx)

			added, err := store.AddMedicine(ctx, model.Medicine{Name: name})
			if err != nil {
				t.Logf("AddMedicine failed: %v", err)
				return false
			}
			if err := store.RemoveMedicine(ctx, added.ID); err != nil {
				t.Logf("RemoveMedicine failed: %v", err)
				return false
			}

			after, _ := store.Snapshot(ctx)
			return fmt.Sprintf("%+v", before.Medicines) == fmt.Sprintf("%+v", after.Medicines)
		},
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 && len(s) < 50 }),
		gen.IntRange(0, 5),
	))

	properties.TestingRun(t)
}
