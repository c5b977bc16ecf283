package postgres

import (
	"time"

	"github.com/ratewatch/rates-service/internal/domain"
)

type ItemModel struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	Currency       string    `gorm:"uniqueIndex;not null"`
	Rate           float64   `gorm:"not null"`
	Amount         int       `gorm:"not null;default:1"`
	Platform       string    `gorm:"not null;default:''"`
	CryptoCurrency bool      `gorm:"not null;default:false"`
	LastUpdated    time.Time `gorm:"not null"`
}

func (ItemModel) TableName() string {
	return "items"
}

func toItemModel(item *domain.Item) ItemModel {
	return ItemModel{
		ID:             item.ID,
		Currency:       item.Currency,
		Rate:           item.Rate,
		Amount:         item.Amount,
		Platform:       item.Platform,
		CryptoCurrency: item.CryptoCurrency,
		LastUpdated:    item.LastUpdated,
	}
}

func toDomainItem(model *ItemModel) *domain.Item {
	return &domain.Item{
		ID:             model.ID,
		Currency:       model.Currency,
		Rate:           model.Rate,
		Amount:         model.Amount,
		Platform:       model.Platform,
		CryptoCurrency: model.CryptoCurrency,
		LastUpdated:    model.LastUpdated,
	}
}
