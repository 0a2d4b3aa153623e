package biz

import (
	"testing"

	"CourtGate/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeCasesPrimaryWinsOnDuplicate(t *testing.T) {
	primary := []model.CaseRecord{
		&model.FederalCase{CaseNumber: "1:24-cv-01234", District: "nysd", Status: "open"},
	}
	fallback := []model.CaseRecord{
		&model.GenericCase{Fields: map[string]any{
			"case_number":  "1:24-cv-01234",
			"jurisdiction": "nysd",
			"status":       "stale",
		}},
	}

	merged := MergeCases(primary, fallback, "nysd")
	require.Len(t, merged, 1)
	assert.Equal(t, "open", merged[0].Normalize()["status"])
}

func TestMergeCasesKeepsDistinctJurisdictions(t *testing.T) {
	// Same case number in different jurisdictions is two cases.
	primary := []model.CaseRecord{
		&model.StateCase{CaseNumber: "CV-2024-100", StateCode: "CA"},
		&model.StateCase{CaseNumber: "CV-2024-100", StateCode: "NY"},
	}

	merged := MergeCases(primary, nil, "CA")
	assert.Len(t, merged, 2)
}

func TestMergeCasesNormalizesToGeneric(t *testing.T) {
	primary := []model.CaseRecord{
		&model.FederalCase{CaseNumber: "1:24-cv-00001", District: "cand", Parties: []string{"A", "B"}},
	}

	merged := MergeCases(primary, nil, "cand")
	require.Len(t, merged, 1)

	gc, ok := merged[0].(*model.GenericCase)
	require.True(t, ok)
	assert.Equal(t, "federal", gc.Fields["court_system"])
	assert.Equal(t, []string{"A", "B"}, gc.Fields["parties"])
}

func TestMergeCasesIdempotent(t *testing.T) {
	records := []model.CaseRecord{
		&model.StateCase{CaseNumber: "CV-1", StateCode: "TX"},
		&model.StateCase{CaseNumber: "CV-2", StateCode: "TX"},
	}

	once := MergeCases(records, nil, "TX")
	twice := MergeCases(once, nil, "TX")
	require.Len(t, twice, len(once))
	for i := range once {
		assert.Equal(t, once[i].Normalize(), twice[i].Normalize())
	}
}

func TestMergeCasesSkipsNilRecords(t *testing.T) {
	merged := MergeCases([]model.CaseRecord{nil}, []model.CaseRecord{nil}, "CA")
	assert.Empty(t, merged)
}

func TestScoreConfidence(t *testing.T) {
	tests := []struct {
		name         string
		fallbackUsed bool
		responseMS   int64
		warnings     []string
		want         float64
	}{
		{"clean fast primary", false, 100, nil, 1.0},
		{"fallback only", true, 100, nil, 0.7},
		{"slow response", false, 6000, nil, 0.9},
		{"very slow response", false, 12000, nil, 0.8},
		{"slow penalties not stacked", true, 12000, nil, 0.7 * 0.8},
		{"one warning", false, 100, []string{"partial data"}, 0.9},
		{"breaker warning", false, 100, []string{"circuit breaker open for federal_courts"}, 0.9 * 0.5},
		{"everything at once", true, 6000, []string{"Circuit Breaker open"}, 0.7 * 0.9 * 0.9 * 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreConfidence(tt.fallbackUsed, tt.responseMS, tt.warnings)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestScoreConfidenceClampsAtZero(t *testing.T) {
	warnings := make([]string, 12)
	for i := range warnings {
		warnings[i] = "warning"
	}
	assert.Equal(t, 0.0, ScoreConfidence(false, 100, warnings))
}

func TestScoreConfidenceMonotonicInWarnings(t *testing.T) {
	var warnings []string
	prev := ScoreConfidence(true, 100, warnings)
	for i := 0; i < 10; i++ {
		warnings = append(warnings, "late docket entry")
		score := ScoreConfidence(true, 100, warnings)
		assert.LessOrEqual(t, score, prev)
		prev = score
	}
}
