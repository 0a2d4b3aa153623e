package model

import "time"

// CaseKey is the identity of a case for deduplication: two records sharing
// the same (case number, jurisdiction) pair are the same case regardless of
// which source produced them.
type CaseKey struct {
	CaseNumber   string
	Jurisdiction string
}

// CaseRecord is the tagged-variant view over heterogeneous case data.
// Adapters return their native record types; fallback collectors return
// generic mappings. Normalize flattens any variant into the canonical
// mapping shape used by the aggregation engine.
type CaseRecord interface {
	// Key returns the deduplication identity. Records that cannot name
	// their own jurisdiction use fallbackJurisdiction.
	Key(fallbackJurisdiction string) CaseKey

	// Normalize returns the canonical JSON-serializable mapping for this
	// record (case_number, case_name, filing_date, case_type, status,
	// judge, parties, attorneys, court_system plus system-specific fields).
	Normalize() map[string]any
}

// DocketEntry is one line of a case docket.
type DocketEntry struct {
	Number      int       `json:"number"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// FederalCase is a record from a federal district court (PACER-style).
type FederalCase struct {
	CaseNumber    string        `json:"case_number"`
	CaseName      string        `json:"case_name"`
	District      string        `json:"district"`
	FilingDate    time.Time     `json:"filing_date"`
	CaseType      string        `json:"case_type"`
	Status        string        `json:"status"`
	Judge         string        `json:"judge"`
	Parties       []string      `json:"parties"`
	Attorneys     []string      `json:"attorneys"`
	DocketEntries []DocketEntry `json:"docket_entries,omitempty"`
}

func (c *FederalCase) Key(fallbackJurisdiction string) CaseKey {
	j := c.District
	if j == "" {
		j = fallbackJurisdiction
	}
	return CaseKey{CaseNumber: c.CaseNumber, Jurisdiction: j}
}

func (c *FederalCase) Normalize() map[string]any {
	return map[string]any{
		"case_number":  c.CaseNumber,
		"case_name":    c.CaseName,
		"filing_date":  isoDate(c.FilingDate),
		"case_type":    c.CaseType,
		"status":       c.Status,
		"judge":        c.Judge,
		"parties":      copyStrings(c.Parties),
		"attorneys":    copyStrings(c.Attorneys),
		"court_system": string(CourtSystemFederal),
		"district":     c.District,
	}
}

// StateCase is a record from a state, county or municipal court.
type StateCase struct {
	CaseNumber    string        `json:"case_number"`
	CaseName      string        `json:"case_name"`
	StateCode     string        `json:"state_code"`
	CourtLevel    string        `json:"court_level"`
	County        string        `json:"county"`
	FilingDate    time.Time     `json:"filing_date"`
	CaseType      string        `json:"case_type"`
	Status        string        `json:"status"`
	Judge         string        `json:"judge"`
	Parties       []string      `json:"parties"`
	Attorneys     []string      `json:"attorneys"`
	DocketEntries []DocketEntry `json:"docket_entries,omitempty"`
}

func (c *StateCase) Key(fallbackJurisdiction string) CaseKey {
	j := c.StateCode
	if j == "" {
		j = fallbackJurisdiction
	}
	return CaseKey{CaseNumber: c.CaseNumber, Jurisdiction: j}
}

func (c *StateCase) Normalize() map[string]any {
	return map[string]any{
		"case_number":  c.CaseNumber,
		"case_name":    c.CaseName,
		"filing_date":  isoDate(c.FilingDate),
		"case_type":    c.CaseType,
		"status":       c.Status,
		"judge":        c.Judge,
		"parties":      copyStrings(c.Parties),
		"attorneys":    copyStrings(c.Attorneys),
		"court_system": string(CourtSystemState),
		"state_code":   c.StateCode,
		"court_level":  c.CourtLevel,
		"county":       c.County,
	}
}

// GenericCase wraps a plain mapping, typically assembled by a fallback
// collector. Field names follow the canonical mapping where known.
type GenericCase struct {
	Fields map[string]any `json:"fields"`
}

func (c *GenericCase) Key(fallbackJurisdiction string) CaseKey {
	key := CaseKey{Jurisdiction: fallbackJurisdiction}
	if v, ok := c.Fields["case_number"].(string); ok {
		key.CaseNumber = v
	}
	if v, ok := c.Fields["jurisdiction"].(string); ok && v != "" {
		key.Jurisdiction = v
	}
	return key
}

func (c *GenericCase) Normalize() map[string]any {
	out := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		out[k] = v
	}
	if _, ok := out["court_system"]; !ok {
		out["court_system"] = "unknown"
	}
	return out
}

func isoDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func copyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
