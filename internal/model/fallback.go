package model

import "time"

// FallbackResult is the outcome of one fallback collection attempt.
// Collectors never raise for expected failures; unavailability is encoded
// as Confidence == 0 plus explanatory Errors.
type FallbackResult struct {
	Method             FallbackMethod `json:"method"`
	SourceType         string         `json:"source_type"`
	Data               map[string]any `json:"data,omitempty"`
	Confidence         float64        `json:"confidence"`
	Timestamp          time.Time      `json:"timestamp"`
	VerificationNeeded bool           `json:"verification_needed"`
	Errors             []string       `json:"errors,omitempty"`
}

// CourtContact is directory information for a court, used by the manual
// entry and phone verification collectors.
type CourtContact struct {
	CourtID    string `json:"court_id"`
	CourtName  string `json:"court_name"`
	Phone      string `json:"phone"`
	ClerkEmail string `json:"clerk_email"`
}
