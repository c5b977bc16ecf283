package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ratewatch/rates-service/internal/domain"
	itemdto "github.com/ratewatch/rates-service/internal/usecase/dto/item"
)

type ItemUsecase interface {
	GetItems() ([]*domain.Item, error)
	GetItemByID(itemID string) (*domain.Item, error)
	CreateItem(input *itemdto.CreateItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, itemID string, patch *itemdto.UpdateItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, itemID string) error
}

// DefaultItemUsecase exposes the thin record accessors around the store.
// Updates and deletions go through the same emit contract as the sync
// pipeline so every consumer sees them.
type DefaultItemUsecase struct {
	ItemRepo domain.ItemRepository
	Emitter  *EventEmitter
}

func NewDefaultItemUsecase(itemRepo domain.ItemRepository, emitter *EventEmitter) *DefaultItemUsecase {
	return &DefaultItemUsecase{
		ItemRepo: itemRepo,
		Emitter:  emitter,
	}
}

func (uc *DefaultItemUsecase) GetItems() ([]*domain.Item, error) {
	return uc.ItemRepo.GetItems()
}

func (uc *DefaultItemUsecase) GetItemByID(itemID string) (*domain.Item, error) {
	return uc.ItemRepo.GetItemByID(itemID)
}

func (uc *DefaultItemUsecase) CreateItem(input *itemdto.CreateItemInput) (*domain.Item, error) {
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))

	_, err := uc.ItemRepo.GetItemByCurrency(currency)
	if err == nil {
		return nil, domain.ErrItemExists
	}
	if !errors.Is(err, domain.ErrItemNotFound) {
		return nil, err
	}

	amount := input.Amount
	if amount < 1 {
		amount = 1
	}

	item := &domain.Item{
		Currency:       currency,
		Rate:           input.Rate,
		Amount:         amount,
		Platform:       input.Platform,
		CryptoCurrency: input.CryptoCurrency,
		LastUpdated:    time.Now().UTC(),
	}
	if err := uc.ItemRepo.CreateItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *DefaultItemUsecase) UpdateItem(ctx context.Context, itemID string, patch *itemdto.UpdateItemInput) (*domain.Item, error) {
	item, err := uc.ItemRepo.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}

	changed := false
	if patch.Rate != nil {
		item.Rate = *patch.Rate
		changed = true
	}
	if patch.Amount != nil {
		item.Amount = *patch.Amount
		changed = true
	}
	if patch.Platform != nil {
		item.Platform = *patch.Platform
		changed = true
	}
	if patch.CryptoCurrency != nil {
		item.CryptoCurrency = *patch.CryptoCurrency
		changed = true
	}
	if !changed {
		return item, nil
	}

	item.LastUpdated = time.Now().UTC()
	if err := uc.ItemRepo.UpdateItem(item); err != nil {
		return nil, err
	}

	uc.Emitter.Emit(ctx, domain.NewItemEvent(domain.EventUpdated, item))
	return item, nil
}

func (uc *DefaultItemUsecase) DeleteItem(ctx context.Context, itemID string) error {
	if _, err := uc.ItemRepo.GetItemByID(itemID); err != nil {
		return err
	}
	if err := uc.ItemRepo.DeleteItem(itemID); err != nil {
		return err
	}

	uc.Emitter.Emit(ctx, domain.NewDeletedEvent(itemID))
	return nil
}
