package domain

type ItemRepository interface {
	CreateItem(item *Item) error
	UpdateItem(item *Item) error
	DeleteItem(itemID string) error
	GetItemByID(itemID string) (*Item, error)
	GetItemByCurrency(currency string) (*Item, error)
	GetItems() ([]*Item, error)
}
