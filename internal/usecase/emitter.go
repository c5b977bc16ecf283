package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/ratewatch/rates-service/internal/domain"
	"github.com/ratewatch/rates-service/internal/infrastructure/logger"
	"github.com/ratewatch/rates-service/internal/infrastructure/metrics"
)

const (
	originLocal      = "local"
	originReplicated = "replicated"
)

// EventEmitter is the single fan-out point for rate events. Emit feeds both
// channels for locally committed changes, Forward feeds only the push hub
// for bus-origin events so replications can never loop back onto the bus.
type EventEmitter struct {
	Publisher domain.PublisherPort
	Hub       domain.Broadcaster
	EventLog  logger.RateEventLogger
	Metrics   *metrics.RateMetrics
	Topic     string
}

func (e *EventEmitter) Emit(ctx context.Context, event domain.RateEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal rate event", "type", event.Type, "error", err)
		return
	}

	key := []byte(event.ID)
	if event.Item != nil {
		key = []byte(event.Item.Currency)
	}

	if err := e.Publisher.Publish(e.Topic, domain.Message{Key: key, Value: payload}); err != nil {
		slog.Error("kafka publish failed", "topic", e.Topic, "error", err)
		e.Metrics.PublishErrorsTotal.Inc()
	} else {
		e.Metrics.EventsPublishedTotal.WithLabelValues(event.Type).Inc()
	}

	e.Hub.Broadcast(event)
	e.logEvent(ctx, event, originLocal)
}

func (e *EventEmitter) Forward(ctx context.Context, event domain.RateEvent) {
	e.Hub.Broadcast(event)
	e.logEvent(ctx, event, originReplicated)
}

func (e *EventEmitter) logEvent(ctx context.Context, event domain.RateEvent, origin string) {
	if e.EventLog == nil {
		return
	}

	record := logger.RateEventRecord{
		EventType: event.Type,
		Origin:    origin,
		Timestamp: time.Now().UTC(),
	}
	if event.Item != nil {
		record.Currency = event.Item.Currency
		record.Rate = event.Item.Rate
		record.Platform = event.Item.Platform
	}

	if err := e.EventLog.LogRateEvent(ctx, record); err != nil {
		slog.Warn("rate event audit log failed", "type", event.Type, "error", err)
	}
}
