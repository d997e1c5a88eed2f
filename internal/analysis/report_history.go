package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const (
	reportHistoryKeyPrefix = "report_history:"
	reportHistoryTTL       = 30 * 24 * time.Hour
)

// ReportHistory keeps a per-client list of past analysis reports in Redis so
// clients can review previous results.
type ReportHistory struct {
	redis      *redis.Client
	tracer     trace.Tracer
	maxReports int64
}

func NewReportHistory(redisClient *redis.Client) *ReportHistory {
	if redisClient == nil {
		return nil
	}
	return &ReportHistory{
		redis:      redisClient,
		tracer:     otel.Tracer("healthsignal.internal.analysis.report_history"),
		maxReports: 100,
	}
}

// Append stores a report at the tail of the client's history.
func (h *ReportHistory) Append(ctx context.Context, clientID string, report Report) error {
	if h == nil || h.redis == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if clientID == "" {
		return errors.New("analysis: report history clientID required")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("analysis: marshal report: %w", err)
	}

	ctx, span := h.tracer.Start(ctx, "analysis.report_history.append")
	defer span.End()

	key := reportHistoryKey(clientID)
	pipe := h.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, reportHistoryTTL)
	if h.maxReports > 0 {
		pipe.LTrim(ctx, key, -h.maxReports, -1)
	}
	_, err = pipe.Exec(ctx)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("analysis: append report history: %w", err)
	}
	return nil
}

// List returns the client's most recent reports, oldest first. limit <= 0
// returns everything retained.
func (h *ReportHistory) List(ctx context.Context, clientID string, limit int64) ([]Report, error) {
	if h == nil || h.redis == nil {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if clientID == "" {
		return nil, errors.New("analysis: report history clientID required")
	}

	ctx, span := h.tracer.Start(ctx, "analysis.report_history.list")
	defer span.End()

	start := int64(0)
	end := int64(-1)
	if limit > 0 {
		start = -limit
	}

	key := reportHistoryKey(clientID)
	raw, err := h.redis.LRange(ctx, key, start, end).Result()
	if err != nil {
		span.RecordError(err)
		if err == redis.Nil {
			return []Report{}, nil
		}
		return nil, fmt.Errorf("analysis: list report history: %w", err)
	}

	out := make([]Report, 0, len(raw))
	for _, item := range raw {
		var report Report
		if err := json.Unmarshal([]byte(item), &report); err != nil {
			span.RecordError(err)
			continue
		}
		out = append(out, report)
	}
	return out, nil
}

func reportHistoryKey(clientID string) string {
	return reportHistoryKeyPrefix + clientID
}
