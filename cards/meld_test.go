package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, ss ...string) []Card {
	t.Helper()
	cs, err := ParseCards(ss)
	require.NoError(t, err)
	return cs
}

func TestMeldRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cards   []string
		set     bool
		run     bool
		typ     MeldType
		isValid bool
	}{
		{"three of a kind", []string{"7h", "7d", "7c"}, true, false, MeldSet, true},
		{"four of a kind", []string{"Kh", "Kd", "Kc", "Ks"}, true, false, MeldSet, true},
		{"pair", []string{"7h", "7d"}, false, false, "", false},
		{"mixed ranks", []string{"7h", "7d", "8c"}, false, false, "", false},
		{"run in order", []string{"4s", "5s", "6s"}, false, true, MeldRun, true},
		{"run out of order", []string{"6s", "4s", "5s", "7s"}, false, true, MeldRun, true},
		{"ace low run", []string{"Ah", "2h", "3h"}, false, true, MeldRun, true},
		{"no wraparound", []string{"Qh", "Kh", "Ah"}, false, false, "", false},
		{"run with gap", []string{"4s", "5s", "7s"}, false, false, "", false},
		{"run mixed suits", []string{"4s", "5h", "6s"}, false, false, "", false},
		{"two cards run", []string{"4s", "5s"}, false, false, "", false},
		{"empty", nil, false, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := mustParse(t, tt.cards...)
			assert.Equal(t, tt.set, IsValidSet(cs), "IsValidSet")
			assert.Equal(t, tt.run, IsValidRun(cs), "IsValidRun")
			assert.Equal(t, tt.isValid, IsValidMeld(cs), "IsValidMeld")

			typ, ok := ClassifyMeld(cs)
			assert.Equal(t, tt.isValid, ok)
			assert.Equal(t, tt.typ, typ)
		})
	}
}

func TestIsValidRunDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	cs := mustParse(t, "6s", "4s", "5s")
	require.True(t, IsValidRun(cs))
	assert.Equal(t, []string{"spades-6", "spades-4", "spades-5"}, IDs(cs))
}
