package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratewatch/rates-service/internal/domain"
)

func newReplicatorFixture(t *testing.T) (*Replicator, *fakeItemRepo, *fakePublisher, *fakeBroadcaster, *fakeSubscriber) {
	t.Helper()

	repo := newFakeItemRepo()
	pub := &fakePublisher{}
	hub := &fakeBroadcaster{}
	sub := newFakeSubscriber()
	emitter := testEmitter(pub, hub)

	sync := NewDefaultRateSyncUsecase(
		repo,
		&stubFixedProvider{},
		&stubCryptoProvider{},
		emitter,
		testMetrics(),
		testSource(),
	)
	return NewReplicator(sync, sub, emitter, "items.updates", "rates-service"), repo, pub, hub, sub
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestReplicator_AppliesBusEventVerbatim(t *testing.T) {
	replicator, repo, _, hub, sub := newReplicatorFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, replicator.Start(ctx))

	event := domain.RateEvent{
		Type: domain.EventUpdated,
		Item: &domain.ItemPayload{
			Currency: "DOGE",
			Rate:     12.5,
			Amount:   1,
			Platform: "binance",
			// crypto flag carried from the payload even though DOGE is
			// not in the local crypto set
			CryptoCurrency: true,
		},
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	sub.msgs <- domain.Message{Key: []byte("DOGE"), Value: payload}

	waitFor(t, func() bool {
		_, err := repo.GetItemByCurrency("DOGE")
		return err == nil
	})

	item, err := repo.GetItemByCurrency("DOGE")
	require.NoError(t, err)
	assert.InDelta(t, 12.5, item.Rate, 1e-12)
	assert.True(t, item.CryptoCurrency)
	assert.Equal(t, "binance", item.Platform)

	waitFor(t, func() bool { return len(hub.broadcasted()) == 1 })
	assert.Equal(t, domain.EventUpdated, hub.broadcasted()[0].Type)
}

func TestReplicator_NeverRepublishes(t *testing.T) {
	replicator, repo, pub, _, sub := newReplicatorFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, replicator.Start(ctx))

	event := domain.NewItemEvent(domain.EventCreated, &domain.Item{
		Currency: "USD", Rate: 81.5, Amount: 1, Platform: "cbr",
	})
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	sub.msgs <- domain.Message{Value: payload}

	waitFor(t, func() bool {
		_, err := repo.GetItemByCurrency("USD")
		return err == nil
	})

	assert.Empty(t, pub.published())
}

func TestReplicator_DiscardsMalformedPayload(t *testing.T) {
	replicator, repo, _, hub, sub := newReplicatorFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, replicator.Start(ctx))

	sub.msgs <- domain.Message{Value: []byte("not json")}

	good := domain.NewItemEvent(domain.EventCreated, &domain.Item{
		Currency: "EUR", Rate: 92.75, Amount: 1, Platform: "cbr",
	})
	payload, err := json.Marshal(good)
	require.NoError(t, err)
	sub.msgs <- domain.Message{Value: payload}

	waitFor(t, func() bool {
		_, err := repo.GetItemByCurrency("EUR")
		return err == nil
	})

	items, err := repo.GetItems()
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Len(t, hub.broadcasted(), 1)
}

func TestReplicator_DiscardsEventWithoutCurrency(t *testing.T) {
	replicator, repo, _, hub, sub := newReplicatorFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, replicator.Start(ctx))

	deleted, err := json.Marshal(domain.NewDeletedEvent("some-id"))
	require.NoError(t, err)
	sub.msgs <- domain.Message{Value: deleted}

	good, err := json.Marshal(domain.NewItemEvent(domain.EventCreated, &domain.Item{
		Currency: "CNY", Rate: 11.2, Amount: 1, Platform: "cbr",
	}))
	require.NoError(t, err)
	sub.msgs <- domain.Message{Value: good}

	waitFor(t, func() bool {
		_, err := repo.GetItemByCurrency("CNY")
		return err == nil
	})

	events := hub.broadcasted()
	require.Len(t, events, 1)
	assert.Equal(t, "CNY", events[0].Item.Currency)
}

func TestReplicator_ForwardsUnchangedEventToPush(t *testing.T) {
	replicator, repo, _, hub, sub := newReplicatorFixture(t)

	seed := &domain.Item{Currency: "USD", Rate: 81.5, Amount: 1, Platform: "cbr"}
	require.NoError(t, repo.CreateItem(seed))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, replicator.Start(ctx))

	// same rate, the upsert is a no-op but push clients still get it
	payload, err := json.Marshal(domain.NewItemEvent(domain.EventUpdated, seed))
	require.NoError(t, err)
	sub.msgs <- domain.Message{Value: payload}

	waitFor(t, func() bool { return len(hub.broadcasted()) == 1 })

	_, updates := repo.writeCount()
	assert.Equal(t, 0, updates)
}

func TestReplicator_StopsOnClosedChannel(t *testing.T) {
	replicator, _, _, _, sub := newReplicatorFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, replicator.Start(ctx))

	require.NoError(t, sub.Close())
	replicator.Wait()
}
