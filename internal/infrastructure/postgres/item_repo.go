package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ratewatch/rates-service/internal/domain"
	"gorm.io/gorm"
)

type DefaultItemRepository struct {
	DB *gorm.DB
}

func NewDefaultItemRepository(db *gorm.DB) *DefaultItemRepository {
	return &DefaultItemRepository{DB: db}
}

func (r *DefaultItemRepository) CreateItem(item *domain.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.LastUpdated.IsZero() {
		item.LastUpdated = time.Now().UTC()
	}

	model := toItemModel(item)
	if err := r.DB.Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrItemExists
		}
		return err
	}
	*item = *toDomainItem(&model)
	return nil
}

func (r *DefaultItemRepository) UpdateItem(item *domain.Item) error {
	model := toItemModel(item)
	return r.DB.Save(&model).Error
}

func (r *DefaultItemRepository) DeleteItem(itemID string) error {
	return r.DB.Delete(&ItemModel{}, "id = ?", itemID).Error
}

func (r *DefaultItemRepository) GetItemByID(itemID string) (*domain.Item, error) {
	var model ItemModel
	if err := r.DB.First(&model, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return toDomainItem(&model), nil
}

func (r *DefaultItemRepository) GetItemByCurrency(currency string) (*domain.Item, error) {
	var model ItemModel
	if err := r.DB.First(&model, "currency = ?", currency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return toDomainItem(&model), nil
}

func (r *DefaultItemRepository) GetItems() ([]*domain.Item, error) {
	var models []ItemModel
	if err := r.DB.Order("currency asc").Find(&models).Error; err != nil {
		return nil, err
	}

	items := make([]*domain.Item, 0, len(models))
	for i := range models {
		items = append(items, toDomainItem(&models[i]))
	}
	return items, nil
}
