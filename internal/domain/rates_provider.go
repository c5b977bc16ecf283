package domain

import "context"

// FixedIncomeProvider fetches reference rates for traditional currencies.
// Implementations degrade to a fallback map instead of failing: the poll
// cycle must never block on this source being healthy.
type FixedIncomeProvider interface {
	FetchRates(ctx context.Context, wanted []string) map[string]RateRecord
	GetName() string
}

// CryptoProvider fetches spot prices for crypto symbols, converted into the
// base unit system via quoteRate. Symbols that fail are omitted from the
// result, partial maps are expected.
type CryptoProvider interface {
	FetchRates(ctx context.Context, symbols []string, quoteRate float64) map[string]RateRecord
	GetName() string
}
