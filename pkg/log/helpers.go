package log

import (
	"context"
	"fmt"

	"github.com/go-kratos/kratos/v2/log"
)

// LogHelper extends the Kratos log.Helper with request-aware logging used
// by the HTTP middleware.
type LogHelper struct {
	*log.Helper
}

// NewLogHelper creates an enhanced log helper.
func NewLogHelper(logger log.Logger) *LogHelper {
	return &LogHelper{
		Helper: log.NewHelper(logger),
	}
}

// Request logs one HTTP request with method, path, status and latency.
func (h *LogHelper) Request(method, path string, status int, durationMs int64, kvs ...interface{}) {
	msg := fmt.Sprintf("%s %s - %d (%dms)", method, path, status, durationMs)
	allKvs := append([]interface{}{"msg", msg}, kvs...)
	allKvs = append(allKvs,
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", durationMs,
	)
	h.Infow(allKvs...)
}

// RequestWithContext logs one HTTP request including the correlation id
// carried in the context.
func (h *LogHelper) RequestWithContext(ctx context.Context, method, path string, status int, durationMs int64, kvs ...interface{}) {
	rc := GetRequestContext(ctx)
	allKvs := append(kvs, "request_id", rc.RequestID)
	h.Request(method, path, status, durationMs, allKvs...)
}
