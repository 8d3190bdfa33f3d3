package interaction

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vcscsvcscs/medsafety/pkg/model"
)

func TestDefault_LoadsEmbeddedTable(t *testing.T) {
	kb := Default()
	require.NotNil(t, kb)
	assert.Equal(t, 11, kb.Len())

	rec, ok := kb.Lookup("Metformin", "Aspirin")
	require.True(t, ok)
	assert.Equal(t, model.SeverityCritical, rec.Severity)
	assert.NotEmpty(t, rec.Message)
}

func TestLookup_NormalizesNames(t *testing.T) {
	kb := Default()

	tests := []struct {
		name  string
		a, b  string
		found bool
	}{
		{name: "exact", a: "Warfarin", b: "Ibuprofen", found: true},
		{name: "reversed", a: "Ibuprofen", b: "Warfarin", found: true},
		{name: "case insensitive", a: "wARFARIN", b: "IBUPROFEN", found: true},
		{name: "whitespace trimmed", a: "  Warfarin\t", b: " ibuprofen ", found: true},
		{name: "unknown pair", a: "Warfarin", b: "Vitamin D", found: false},
		{name: "same medicine", a: "Aspirin", b: "aspirin", found: false},
		{name: "empty name", a: "", b: "Aspirin", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := kb.Lookup(tt.a, tt.b)
			assert.Equal(t, tt.found, ok)
		})
	}
}

func TestLookup_NilKnowledgeBase(t *testing.T) {
	var kb *KnowledgeBase
	_, ok := kb.Lookup("Aspirin", "Warfarin")
	assert.False(t, ok)
}

// Lookup is symmetric for every pair of names, known or not
func TestProperty_LookupSymmetry(t *testing.T) {
	kb := Default()

	names := []string{"", "   ", "Vitamin D", " ASPIRIN ", "unknownium"}
	for _, rec := range kb.Pairs() {
		names = append(names, rec.DrugA, rec.DrugB)
	}
	nameGen := gen.OneConstOf(toInterfaces(names)...)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("lookup(a, b) == lookup(b, a) over table names", prop.ForAll(
		func(a, b string, upper bool) bool {
			if upper {
				a = strings.ToUpper(a)
			}
			recAB, okAB := kb.Lookup(a, b)
			recBA, okBA := kb.Lookup(b, a)
			return okAB == okBA && recAB == recBA
		},
		nameGen, nameGen, gen.Bool(),
	))

	properties.Property("lookup(a, b) == lookup(b, a) over arbitrary strings", prop.ForAll(
		func(a, b string) bool {
			recAB, okAB := kb.Lookup(a, b)
			recBA, okBA := kb.Lookup(b, a)
			return okAB == okBA && recAB == recBA
		},
		gen.AnyString(), gen.AnyString(),
	))

	properties.TestingRun(t)
}

func TestNew_RejectsInvalidTables(t *testing.T) {
	tests := []struct {
		name        string
		records     []model.InteractionRecord
		expectedErr string
	}{
		{
			name:        "self pair",
			records:     []model.InteractionRecord{{DrugA: "Aspirin", DrugB: " ASPIRIN", Severity: model.SeverityWarning}},
			expectedErr: "cannot interact with itself",
		},
		{
			name:        "unknown severity",
			records:     []model.InteractionRecord{{DrugA: "Aspirin", DrugB: "Warfarin", Severity: "info"}},
			expectedErr: "invalid severity",
		},
		{
			name: "duplicate in reverse order",
			records: []model.InteractionRecord{
				{DrugA: "Aspirin", DrugB: "Warfarin", Severity: model.SeverityCritical},
				{DrugA: "warfarin", DrugB: "aspirin", Severity: model.SeverityWarning},
			},
			expectedErr: "duplicate pair",
		},
		{
			name:        "missing name",
			records:     []model.InteractionRecord{{DrugA: "Aspirin", Severity: model.SeverityWarning}},
			expectedErr: "both drug names are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.records)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestLoad_ExtensionTable(t *testing.T) {
	table := `
version: 1
interactions:
  - drugA: Digoxin
    drugB: Amiodarone
    severity: critical
    message: raises digoxin levels
`
	kb, err := Load(strings.NewReader(table))
	require.NoError(t, err)
	assert.Equal(t, 1, kb.Len())

	rec, ok := kb.Lookup("amiodarone", "digoxin")
	require.True(t, ok)
	assert.Equal(t, "Digoxin", rec.DrugA)
	assert.Equal(t, "raises digoxin levels", rec.Message)

	_, err = Load(strings.NewReader("interactions: [oops"))
	assert.Error(t, err)
}

func TestPairs_SortedCriticalFirst(t *testing.T) {
	pairs := Default().Pairs()
	require.NotEmpty(t, pairs)

	seenWarning := false
	for _, p := range pairs {
		if p.Severity == model.SeverityWarning {
			seenWarning = true
		} else {
			assert.False(t, seenWarning, "critical pair %s + %s listed after a warning", p.DrugA, p.DrugB)
		}
	}
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
