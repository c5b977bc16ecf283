package dto

import (
	"time"

	"github.com/ratewatch/rates-service/internal/domain"
)

type CreateItemRequest struct {
	Currency       string  `json:"currency" validate:"required,alpha"`
	Rate           float64 `json:"rate" validate:"gte=0"`
	Amount         int     `json:"amount" validate:"omitempty,gte=1"`
	Platform       string  `json:"platform" validate:"required"`
	CryptoCurrency bool    `json:"crypto_currency"`
}

type UpdateItemRequest struct {
	Rate           *float64 `json:"rate" validate:"omitempty,gte=0"`
	Amount         *int     `json:"amount" validate:"omitempty,gte=1"`
	Platform       *string  `json:"platform" validate:"omitempty,min=1"`
	CryptoCurrency *bool    `json:"crypto_currency"`
}

type ItemResponse struct {
	ID             string    `json:"id"`
	Currency       string    `json:"currency"`
	Rate           float64   `json:"rate"`
	Amount         int       `json:"amount"`
	Platform       string    `json:"platform"`
	CryptoCurrency bool      `json:"crypto_currency"`
	LastUpdated    time.Time `json:"last_updated_time"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func ToItemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:             item.ID,
		Currency:       item.Currency,
		Rate:           item.Rate,
		Amount:         item.Amount,
		Platform:       item.Platform,
		CryptoCurrency: item.CryptoCurrency,
		LastUpdated:    item.LastUpdated,
	}
}
