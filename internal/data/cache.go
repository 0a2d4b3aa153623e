package data

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"CourtGate/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

const (
	responseCachePrefix = "courtgate:response:"
	responseCacheTTL    = 5 * time.Minute
)

// ResponseCache caches successful court search responses in Redis so
// repeated queries do not hit upstream court systems. Fallback-sourced
// responses are never cached since their data may still be pending
// verification.
type ResponseCache struct {
	rdb    *redis.Client
	helper *log.Helper
}

func NewResponseCache(rdb *redis.Client, logger log.Logger) *ResponseCache {
	return &ResponseCache{
		rdb:    rdb,
		helper: log.NewHelper(logger),
	}
}

// cacheKey builds a deterministic key from the request. Criteria are
// sorted so two requests with the same fields in different map order
// share an entry.
func cacheKey(req *model.CourtDataRequest) string {
	keys := make([]string, 0, len(req.SearchCriteria))
	for k := range req.SearchCriteria {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(responseCachePrefix)
	b.WriteString(string(req.CourtSystem))
	b.WriteString("|")
	b.WriteString(req.Jurisdiction)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(fmt.Sprint(req.SearchCriteria[k]))
	}
	return b.String()
}

// cachedResponse is the stored form of a response. Case records are
// flattened to generic field maps because interface values do not
// round-trip through JSON.
type cachedResponse struct {
	Success         bool             `json:"success"`
	CourtSystem     string           `json:"court_system"`
	Jurisdiction    string           `json:"jurisdiction"`
	DataSource      string           `json:"data_source"`
	ResponseTimeMS  int64            `json:"response_time_ms"`
	Data            []map[string]any `json:"data"`
	Metadata        map[string]any   `json:"metadata,omitempty"`
	Warnings        []string         `json:"warnings,omitempty"`
	FallbackUsed    bool             `json:"fallback_used"`
	ConfidenceScore float64          `json:"confidence_score"`
}

func (c *ResponseCache) Get(ctx context.Context, req *model.CourtDataRequest) (*model.CourtAPIResponse, bool) {
	if c.rdb == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, cacheKey(req)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.helper.Warnw("response cache read failed", "error", err)
		return nil, false
	}

	var stored cachedResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		c.helper.Warnw("response cache entry corrupt", "error", err)
		return nil, false
	}

	resp := &model.CourtAPIResponse{
		Success:         stored.Success,
		CourtSystem:     model.CourtSystem(stored.CourtSystem),
		Jurisdiction:    stored.Jurisdiction,
		DataSource:      model.DataSourceCache,
		ResponseTimeMS:  stored.ResponseTimeMS,
		Metadata:        stored.Metadata,
		Warnings:        stored.Warnings,
		FallbackUsed:    stored.FallbackUsed,
		ConfidenceScore: stored.ConfidenceScore,
	}
	for _, fields := range stored.Data {
		resp.Data = append(resp.Data, &model.GenericCase{Fields: fields})
	}
	return resp, true
}

func (c *ResponseCache) Set(ctx context.Context, req *model.CourtDataRequest, resp *model.CourtAPIResponse) {
	if c.rdb == nil || resp == nil {
		return
	}

	stored := cachedResponse{
		Success:         resp.Success,
		CourtSystem:     string(resp.CourtSystem),
		Jurisdiction:    resp.Jurisdiction,
		DataSource:      resp.DataSource,
		ResponseTimeMS:  resp.ResponseTimeMS,
		Metadata:        resp.Metadata,
		Warnings:        resp.Warnings,
		FallbackUsed:    resp.FallbackUsed,
		ConfidenceScore: resp.ConfidenceScore,
	}
	for _, rec := range resp.Data {
		stored.Data = append(stored.Data, rec.Normalize())
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		c.helper.Warnw("response cache marshal failed", "error", err)
		return
	}

	if err := c.rdb.Set(ctx, cacheKey(req), raw, responseCacheTTL).Err(); err != nil {
		c.helper.Warnw("response cache write failed", "error", err)
	}
}
