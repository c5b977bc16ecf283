package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ratewatch/rates-service/internal/domain"
	"github.com/ratewatch/rates-service/internal/infrastructure/metrics"
)

type fakeItemRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Item
	creates int
	updates int
	deletes int

	failCurrencies map[string]struct{}
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{
		byID:           make(map[string]*domain.Item),
		failCurrencies: make(map[string]struct{}),
	}
}

func (r *fakeItemRepo) failOn(currency string) {
	r.failCurrencies[currency] = struct{}{}
}

func (r *fakeItemRepo) CreateItem(item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.failCurrencies[item.Currency]; ok {
		return fmt.Errorf("storage write failed for %s", item.Currency)
	}
	for _, existing := range r.byID {
		if existing.Currency == item.Currency {
			return domain.ErrItemExists
		}
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	stored := *item
	r.byID[item.ID] = &stored
	r.creates++
	return nil
}

func (r *fakeItemRepo) UpdateItem(item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.failCurrencies[item.Currency]; ok {
		return fmt.Errorf("storage write failed for %s", item.Currency)
	}
	if _, ok := r.byID[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	stored := *item
	r.byID[item.ID] = &stored
	r.updates++
	return nil
}

func (r *fakeItemRepo) DeleteItem(itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[itemID]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.byID, itemID)
	r.deletes++
	return nil
}

func (r *fakeItemRepo) GetItemByID(itemID string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.byID[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) GetItemByCurrency(currency string) (*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.byID {
		if item.Currency == currency {
			copied := *item
			return &copied, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (r *fakeItemRepo) GetItems() ([]*domain.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]*domain.Item, 0, len(r.byID))
	for _, item := range r.byID {
		copied := *item
		items = append(items, &copied)
	}
	return items, nil
}

func (r *fakeItemRepo) writeCount() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.creates, r.updates
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []domain.Message
	err      error
}

func (p *fakePublisher) Publish(topic string, msgs ...domain.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msgs...)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) published() []domain.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Message(nil), p.messages...)
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []domain.RateEvent
}

func (b *fakeBroadcaster) Broadcast(event domain.RateEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *fakeBroadcaster) broadcasted() []domain.RateEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.RateEvent(nil), b.events...)
}

type stubFixedProvider struct {
	rates map[string]domain.RateRecord
}

func (p *stubFixedProvider) FetchRates(ctx context.Context, wanted []string) map[string]domain.RateRecord {
	out := make(map[string]domain.RateRecord, len(p.rates))
	for currency, record := range p.rates {
		out[currency] = record
	}
	return out
}

func (p *stubFixedProvider) GetName() string { return "cbr" }

type stubCryptoProvider struct {
	rates map[string]domain.RateRecord

	mu            sync.Mutex
	seenQuoteRate float64
}

func (p *stubCryptoProvider) FetchRates(ctx context.Context, symbols []string, quoteRate float64) map[string]domain.RateRecord {
	p.mu.Lock()
	p.seenQuoteRate = quoteRate
	p.mu.Unlock()

	out := make(map[string]domain.RateRecord, len(p.rates))
	for currency, record := range p.rates {
		out[currency] = record
	}
	return out
}

func (p *stubCryptoProvider) GetName() string { return "binance" }

func (p *stubCryptoProvider) lastQuoteRate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seenQuoteRate
}

type fakeSubscriber struct {
	msgs chan domain.Message
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{msgs: make(chan domain.Message, 16)}
}

func (s *fakeSubscriber) Subscribe(topic, groupID string) (<-chan domain.Message, error) {
	return s.msgs, nil
}

func (s *fakeSubscriber) Close() error {
	close(s.msgs)
	return nil
}

func testMetrics() *metrics.RateMetrics {
	return metrics.NewRateMetrics(prometheus.NewRegistry())
}

func testEmitter(pub *fakePublisher, hub *fakeBroadcaster) *EventEmitter {
	return &EventEmitter{
		Publisher: pub,
		Hub:       hub,
		Metrics:   testMetrics(),
		Topic:     "items.updates",
	}
}
