package domain

const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// ItemPayload is the wire shape of an item inside a rate event. The field
// names are shared with other instances and push clients, do not rename.
type ItemPayload struct {
	Currency       string  `json:"currency"`
	Rate           float64 `json:"rate"`
	Amount         int     `json:"amount"`
	Platform       string  `json:"platform"`
	CryptoCurrency bool    `json:"crypto_currency"`
}

// RateEvent describes one committed item change. Deleted events carry the
// item ID only.
type RateEvent struct {
	Type string       `json:"type"`
	Item *ItemPayload `json:"item,omitempty"`
	ID   string       `json:"id,omitempty"`
}

func NewItemEvent(eventType string, item *Item) RateEvent {
	return RateEvent{
		Type: eventType,
		Item: &ItemPayload{
			Currency:       item.Currency,
			Rate:           item.Rate,
			Amount:         item.Amount,
			Platform:       item.Platform,
			CryptoCurrency: item.CryptoCurrency,
		},
	}
}

func NewDeletedEvent(itemID string) RateEvent {
	return RateEvent{
		Type: EventDeleted,
		ID:   itemID,
	}
}
