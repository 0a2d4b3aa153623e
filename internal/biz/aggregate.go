package biz

import (
	"strings"

	"CourtGate/internal/model"
)

// Confidence penalties applied by ScoreConfidence. Penalties are
// independent and multiplicative; the result is clamped to [0, 1].
const (
	fallbackPenalty    = 0.7
	slowPenalty        = 0.9 // response time above slowThresholdMS
	verySlowPenalty    = 0.8 // response time above verySlowThresholdMS
	warningPenaltyStep = 0.1
	breakerPenalty     = 0.5

	slowThresholdMS     = 5000
	verySlowThresholdMS = 10000
)

// MergeCases merges primary-adapter records with fallback-derived records
// into one deduplicated, normalized case list. Records are scanned primary
// first, so for a duplicated (case_number, jurisdiction) key the primary
// source's fields win. Each surviving record is normalized to the
// canonical mapping and returned as a generic record.
func MergeCases(primary, fallback []model.CaseRecord, fallbackJurisdiction string) []model.CaseRecord {
	seen := make(map[model.CaseKey]struct{}, len(primary)+len(fallback))
	out := make([]model.CaseRecord, 0, len(primary)+len(fallback))

	appendUnique := func(records []model.CaseRecord) {
		for _, rec := range records {
			if rec == nil {
				continue
			}
			key := rec.Key(fallbackJurisdiction)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, &model.GenericCase{Fields: rec.Normalize()})
		}
	}

	appendUnique(primary)
	appendUnique(fallback)
	return out
}

// ScoreConfidence computes the overall confidence for an aggregated
// response. The score starts at 1.0 and independent multiplicative
// penalties are applied for fallback usage, latency (only the
// larger-threshold penalty when both would apply), accumulated warnings
// and any warning about an open circuit breaker. The warning penalty can
// drive the intermediate value negative for ten or more warnings; only the
// final clamp bounds it.
func ScoreConfidence(fallbackUsed bool, responseTimeMS int64, warnings []string) float64 {
	score := 1.0

	if fallbackUsed {
		score *= fallbackPenalty
	}

	switch {
	case responseTimeMS > verySlowThresholdMS:
		score *= verySlowPenalty
	case responseTimeMS > slowThresholdMS:
		score *= slowPenalty
	}

	score *= 1.0 - warningPenaltyStep*float64(len(warnings))

	for _, w := range warnings {
		if strings.Contains(strings.ToLower(w), "circuit breaker") {
			score *= breakerPenalty
			break
		}
	}

	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
