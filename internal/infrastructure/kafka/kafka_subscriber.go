package publisher

import (
	"context"
	"sync"

	"github.com/ratewatch/rates-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

type DefaultKafkaSubscriber struct {
	brokers []string

	mu      sync.Mutex
	readers []*kafka.Reader
}

func NewDefaultKafkaSubscriber(brokers []string) *DefaultKafkaSubscriber {
	return &DefaultKafkaSubscriber{brokers: brokers}
}

func (k *DefaultKafkaSubscriber) Subscribe(topic, groupID string) (<-chan domain.Message, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: k.brokers,
		Topic:   topic,
		GroupID: groupID,
	})

	k.mu.Lock()
	k.readers = append(k.readers, reader)
	k.mu.Unlock()

	out := make(chan domain.Message)
	go func() {
		defer close(out)
		for {
			m, err := reader.ReadMessage(context.Background())
			if err != nil {
				// reader closed or the group rebalanced away
				return
			}
			out <- domain.Message{Key: m.Key, Value: m.Value}
		}
	}()
	return out, nil
}

// Close shuts every reader down; in-flight deliveries finish because the
// pump goroutine only exits once ReadMessage unblocks and the channel closes.
func (k *DefaultKafkaSubscriber) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	var firstErr error
	for _, r := range k.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	k.readers = nil
	return firstErr
}
