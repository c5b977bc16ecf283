package domain

import "errors"

var (
	ErrItemNotFound = errors.New("item not found")
	ErrItemExists   = errors.New("item with this currency already exists")
)
