package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/flashcoder237/oapet-schedule-api/internal/models"
)

// EventPublisherConfig names the channels and bounds publish latency.
type EventPublisherConfig struct {
	ConflictPrefix string
	WeekPrefix     string
	PublishTimeout time.Duration
}

// EventPublisher pushes editor events onto Redis channels so host
// dashboards can react without polling. Publishing is best-effort:
// a failed publish is logged, never surfaced to the editor.
type EventPublisher struct {
	client  *redis.Client
	cfg     EventPublisherConfig
	logger  *zap.Logger
	metrics *MetricsService
}

// NewEventPublisher wires the publisher.
func NewEventPublisher(client *redis.Client, metrics *MetricsService, logger *zap.Logger, cfg EventPublisherConfig) *EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ConflictPrefix == "" {
		cfg.ConflictPrefix = "schedule:conflicts:"
	}
	if cfg.WeekPrefix == "" {
		cfg.WeekPrefix = "schedule:week:"
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = 2 * time.Second
	}
	return &EventPublisher{client: client, cfg: cfg, logger: logger, metrics: metrics}
}

// PublishConflicts announces the new conflict id set for a schedule.
func (p *EventPublisher) PublishConflicts(scheduleID string, ids []string) {
	if p == nil || p.client == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"scheduleId": scheduleID,
		"sessionIds": ids,
		"emittedAt":  time.Now().UTC(),
	})
	if err != nil {
		return
	}
	p.publish(p.cfg.ConflictPrefix+scheduleID, payload)
	if p.metrics != nil {
		p.metrics.ObserveNotification()
	}
}

// PublishWeek announces the newly visible week bounds.
func (p *EventPublisher) PublishWeek(scheduleID string, weekStart, weekEnd time.Time) {
	if p == nil || p.client == nil {
		return
	}
	payload, err := json.Marshal(map[string]interface{}{
		"scheduleId": scheduleID,
		"weekStart":  weekStart.Format(models.DateLayout),
		"weekEnd":    weekEnd.Format(models.DateLayout),
	})
	if err != nil {
		return
	}
	p.publish(p.cfg.WeekPrefix+scheduleID, payload)
}

func (p *EventPublisher) publish(channel string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.PublishTimeout)
	defer cancel()
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		p.logger.Sugar().Warnw("event publish failed", "channel", channel, "error", err)
	}
}
