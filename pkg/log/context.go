package log

import (
	"context"
	"math/rand"
	"time"
)

type contextKey struct{}

// RequestContext carries per-request identifiers through the call chain so
// log lines from different layers can be correlated.
type RequestContext struct {
	RequestID    string
	CourtSystem  string
	Jurisdiction string
}

// WithRequestContext injects request identifiers into the context.
func WithRequestContext(ctx context.Context, requestID, courtSystem, jurisdiction string) context.Context {
	return context.WithValue(ctx, contextKey{}, RequestContext{
		RequestID:    requestID,
		CourtSystem:  courtSystem,
		Jurisdiction: jurisdiction,
	})
}

// GetRequestContext extracts request identifiers from the context.
func GetRequestContext(ctx context.Context) RequestContext {
	if rc, ok := ctx.Value(contextKey{}).(RequestContext); ok {
		return rc
	}
	return RequestContext{RequestID: "unknown"}
}

const requestIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateRequestID returns a short random identifier for request tracing.
func GenerateRequestID() string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	b := make([]byte, 10)
	for i := range b {
		b[i] = requestIDAlphabet[r.Intn(len(requestIDAlphabet))]
	}
	return string(b)
}
