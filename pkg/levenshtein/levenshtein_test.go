package levenshtein_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/bslint/pkg/levenshtein"
)

func TestDistance(t *testing.T) {
	t.Parallel()

	cases := []struct {
		a, b string
		want int
	}{
		{"", "a", 1},
		{"a", "", 1},
		{"", "", 0},
		{"kitten", "sitting", 3},
		{"sitting", "kitten", 3},
		{"VAR-01", "VAR-01", 0},
		{"VAR-1", "VAR-01", 1},
		{"FUN-40", "FUN-04", 2},
		{"Перем", "Пером", 1},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, levenshtein.Distance(tc.a, tc.b), "%q -> %q", tc.a, tc.b)
	}
}

func TestClosest(t *testing.T) {
	t.Parallel()

	codes := []string{"VAR-01", "VAR-02", "FUN-04"}

	got, ok := levenshtein.Closest("VAR-1", codes, 2)
	assert.True(t, ok)
	assert.Equal(t, "VAR-01", got)

	got, ok = levenshtein.Closest("FUN-4", codes, 2)
	assert.True(t, ok)
	assert.Equal(t, "FUN-04", got)

	_, ok = levenshtein.Closest("DFA-99", codes, 2)
	assert.False(t, ok)

	_, ok = levenshtein.Closest("x", nil, 2)
	assert.False(t, ok)
}
