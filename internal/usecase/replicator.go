package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/ratewatch/rates-service/internal/domain"
)

// Replicator consumes rate events published by other process instances,
// mirrors them into local storage and re-broadcasts them to local push
// subscribers. It never publishes back to the bus.
type Replicator struct {
	Sync       *DefaultRateSyncUsecase
	Subscriber domain.SubscriberPort
	Emitter    *EventEmitter
	Topic      string
	GroupID    string

	done chan struct{}
}

func NewReplicator(
	sync *DefaultRateSyncUsecase,
	subscriber domain.SubscriberPort,
	emitter *EventEmitter,
	topic, groupID string) *Replicator {

	return &Replicator{
		Sync:       sync,
		Subscriber: subscriber,
		Emitter:    emitter,
		Topic:      topic,
		GroupID:    groupID,
	}
}

func (r *Replicator) Start(ctx context.Context) error {
	msgs, err := r.Subscriber.Subscribe(r.Topic, r.GroupID)
	if err != nil {
		return err
	}

	r.done = make(chan struct{})
	go func() {
		defer close(r.done)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				r.handleMessage(ctx, msg.Value)
			}
		}
	}()
	return nil
}

// Wait blocks until the consume loop has drained, used on shutdown after
// the subscriber is closed.
func (r *Replicator) Wait() {
	if r.done != nil {
		<-r.done
	}
}

func (r *Replicator) handleMessage(ctx context.Context, payload []byte) {
	var event domain.RateEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		slog.Warn("discarding malformed bus event", "error", err)
		return
	}

	if event.Item == nil || event.Item.Currency == "" {
		slog.Warn("discarding bus event without item currency", "type", event.Type)
		return
	}

	// apply the received record verbatim, including the crypto flag
	record := domain.RateRecord{
		Rate:     event.Item.Rate,
		Amount:   event.Item.Amount,
		Platform: event.Item.Platform,
		IsCrypto: event.Item.CryptoCurrency,
	}
	if _, err := r.Sync.applyRecord(event.Item.Currency, record); err != nil {
		slog.Error("replicated upsert failed", "currency", event.Item.Currency, "error", err)
		return
	}

	slog.Info("item replicated from bus", "type", event.Type, "currency", event.Item.Currency)

	// local push subscribers only, never back onto the bus
	r.Emitter.Forward(ctx, event)
}
