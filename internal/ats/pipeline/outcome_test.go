// internal/ats/pipeline/outcome_test.go

package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Legacy Projection Tests
// ==========================

func TestLegacy_Scored(t *testing.T) {
	legacy := Scored(72, []string{"go", "postgresql"}).Legacy()
	assert.Equal(t, 72, legacy.Score)
	assert.Equal(t, StatusPending, legacy.Status)
}

func TestLegacy_ZeroScoreStates(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		status  string
	}{
		{"no skills", NoSkills(), StatusNoSkills},
		{"empty text", EmptyText(), StatusEmptyText},
		{"no match", NoMatch(), StatusNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			legacy := tt.outcome.Legacy()
			assert.Equal(t, 0, legacy.Score)
			assert.Equal(t, tt.status, legacy.Status)
		})
	}
}

func TestLegacy_ExtractionFailed(t *testing.T) {
	legacy := ExtractionFailed("bad xref table").Legacy()
	assert.Equal(t, 0, legacy.Score)
	assert.Equal(t, "ERR: bad xref table", legacy.Status)
}

func TestLegacy_ExtractionFailedTruncatesDiagnostic(t *testing.T) {
	exact := strings.Repeat("a", 40)
	assert.Equal(t, "ERR: "+exact, ExtractionFailed(exact).Legacy().Status)

	long := strings.Repeat("b", 41)
	got := ExtractionFailed(long).Legacy().Status
	assert.Equal(t, "ERR: "+strings.Repeat("b", 40), got)
	assert.Len(t, got, len(errStatusPrefix)+diagTruncLen)
}

func TestLegacy_ExtractionFailedTruncatesOnRuneBoundaries(t *testing.T) {
	got := ExtractionFailed(strings.Repeat("日", 60)).Legacy().Status

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "ERR: "+strings.Repeat("日", 40), got)
	assert.Equal(t, len(errStatusPrefix)+diagTruncLen, utf8.RuneCountInString(got))
}

func TestLegacy_Crashed(t *testing.T) {
	legacy := Crashed("runtime error: index out of range").Legacy()
	assert.Equal(t, -1, legacy.Score)
	assert.Equal(t, StatusCrash, legacy.Status)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "scored", KindScored.String())
	assert.Equal(t, "crashed", KindCrashed.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
