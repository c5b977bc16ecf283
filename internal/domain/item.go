package domain

import "time"

// RateRecord is one normalized quote fetched from an external source or
// received from another instance over the event bus.
type RateRecord struct {
	Rate     float64
	Amount   int
	Platform string
	IsCrypto bool
}

// Item is the persisted record holding the current rate of one currency.
// Currency is the natural key, unique and immutable once created.
type Item struct {
	ID             string
	Currency       string
	Rate           float64
	Amount         int
	Platform       string
	CryptoCurrency bool
	LastUpdated    time.Time
}
