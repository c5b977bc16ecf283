package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/ratewatch/rates-service/internal/config"
	"github.com/ratewatch/rates-service/internal/domain"
	"github.com/ratewatch/rates-service/internal/infrastructure/metrics"
)

// rateEpsilon is the change-detection tolerance: rate moves below it are
// treated as noise and produce no write and no event.
const rateEpsilon = 1e-9

type RateSyncUsecase interface {
	RunCycle(ctx context.Context) error
}

type DefaultRateSyncUsecase struct {
	ItemRepo domain.ItemRepository
	Fixed    domain.FixedIncomeProvider
	Crypto   domain.CryptoProvider
	Emitter  *EventEmitter
	Metrics  *metrics.RateMetrics
	Source   config.RatesSource

	cryptoSet map[string]struct{}

	// serializes manual triggers against the recurring driver, interleaved
	// partial cycles could emit spurious intermediate events
	cycleMu sync.Mutex
}

func NewDefaultRateSyncUsecase(
	itemRepo domain.ItemRepository,
	fixed domain.FixedIncomeProvider,
	crypto domain.CryptoProvider,
	emitter *EventEmitter,
	m *metrics.RateMetrics,
	source config.RatesSource) *DefaultRateSyncUsecase {

	cryptoSet := make(map[string]struct{}, len(source.CryptoCurrencies))
	for _, code := range source.CryptoCurrencies {
		cryptoSet[code] = struct{}{}
	}

	return &DefaultRateSyncUsecase{
		ItemRepo:  itemRepo,
		Fixed:     fixed,
		Crypto:    crypto,
		Emitter:   emitter,
		Metrics:   m,
		Source:    source,
		cryptoSet: cryptoSet,
	}
}

// RunCycle executes one fetch-merge-upsert pass over all configured codes.
// Per-code storage failures are logged and skipped, only cancellation stops
// the cycle early.
func (uc *DefaultRateSyncUsecase) RunCycle(ctx context.Context) error {
	uc.cycleMu.Lock()
	defer uc.cycleMu.Unlock()

	start := time.Now()

	fixed := uc.Fixed.FetchRates(ctx, uc.Source.Currencies)

	quoteRate := uc.Source.FallbackQuoteRate
	if record, ok := fixed[uc.Source.QuoteCurrency]; ok {
		quoteRate = record.Rate
	}

	crypto := uc.Crypto.FetchRates(ctx, uc.Source.CryptoCurrencies, quoteRate)

	// map union, fixed-income entries win on a shared code
	combined := make(map[string]domain.RateRecord, len(fixed)+len(crypto))
	for currency, record := range crypto {
		combined[currency] = record
	}
	for currency, record := range fixed {
		combined[currency] = record
	}

	failed := 0
	for currency, record := range combined {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		record.IsCrypto = uc.isCrypto(currency)
		event, err := uc.applyRecord(currency, record)
		if err != nil {
			slog.Error("item upsert failed", "currency", currency, "error", err)
			failed++
			continue
		}
		if event != nil {
			uc.Emitter.Emit(ctx, *event)
		}
	}

	uc.Metrics.CyclesTotal.Inc()
	uc.Metrics.CycleDuration.Observe(time.Since(start).Seconds())
	if failed > 0 {
		uc.Metrics.CycleErrorsTotal.Inc()
	}

	return nil
}

// applyRecord is the single create-or-update primitive shared by the poll
// cycle and bus replication, so the two paths cannot drift on the change
// threshold. It returns the event to emit, or nil when nothing changed.
func (uc *DefaultRateSyncUsecase) applyRecord(currency string, record domain.RateRecord) (*domain.RateEvent, error) {
	if record.Amount < 1 {
		record.Amount = 1
	}

	item, err := uc.ItemRepo.GetItemByCurrency(currency)
	if errors.Is(err, domain.ErrItemNotFound) {
		item = &domain.Item{
			Currency:       currency,
			Rate:           record.Rate,
			Amount:         record.Amount,
			Platform:       record.Platform,
			CryptoCurrency: record.IsCrypto,
			LastUpdated:    time.Now().UTC(),
		}
		if err := uc.ItemRepo.CreateItem(item); err != nil {
			return nil, err
		}
		uc.Metrics.ItemsCreatedTotal.WithLabelValues(item.Platform).Inc()

		event := domain.NewItemEvent(domain.EventCreated, item)
		return &event, nil
	}
	if err != nil {
		return nil, err
	}

	if math.Abs(item.Rate-record.Rate) < rateEpsilon {
		return nil, nil
	}

	item.Rate = record.Rate
	item.Amount = record.Amount
	item.Platform = record.Platform
	item.CryptoCurrency = record.IsCrypto
	item.LastUpdated = time.Now().UTC()

	if err := uc.ItemRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	uc.Metrics.ItemsUpdatedTotal.WithLabelValues(item.Platform).Inc()

	event := domain.NewItemEvent(domain.EventUpdated, item)
	return &event, nil
}

func (uc *DefaultRateSyncUsecase) isCrypto(currency string) bool {
	_, ok := uc.cryptoSet[currency]
	return ok
}
