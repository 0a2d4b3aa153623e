package biz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCaseFieldsAllMatch(t *testing.T) {
	text := `Case No: 1:24-cv-01234
Hearing Date: 03/15/2026
Judge: Maria Alvarez`

	fields, confidence := ExtractCaseFields(text)
	require.Len(t, fields, 3)
	assert.Equal(t, "1:24-cv-01234", fields["case_number"])
	assert.Equal(t, "03/15/2026", fields["hearing_date"])
	assert.Equal(t, "Maria Alvarez", fields["judge"])
	assert.InDelta(t, 1.0, confidence, 1e-9)
}

func TestExtractCaseFieldsPartialMatch(t *testing.T) {
	text := "Regarding case number 1:24-cv-01234, the hearing is scheduled for 2026-04-01."

	fields, confidence := ExtractCaseFields(text)
	assert.Contains(t, fields, "case_number")
	assert.Contains(t, fields, "hearing_date")
	assert.NotContains(t, fields, "judge")
	assert.InDelta(t, 2.0/3.0, confidence, 1e-9)
}

func TestExtractCaseFieldsNoMatch(t *testing.T) {
	fields, confidence := ExtractCaseFields("nothing legal in here")
	assert.Empty(t, fields)
	assert.Equal(t, 0.0, confidence)
}
