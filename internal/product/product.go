package product

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Product represents a catalogue entry and maps to the `products` table.
// Price is a decimal so money arithmetic stays exact end to end.
type Product struct {
	ID          int             `json:"productId"`
	Name        string          `json:"productName"`
	Description string          `json:"productDesc"`
	Price       decimal.Decimal `json:"price"`
	Inventory   int             `json:"inventory"`
	CreatedAt   *string         `json:"createdAt,omitempty"`
	UpdatedAt   *string         `json:"updatedAt,omitempty"`
}

// InsufficientInventoryError is returned when a stock change would drive a
// product's inventory below zero. The row is left untouched.
type InsufficientInventoryError struct {
	ProductID int
	Name      string
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("not enough inventory for product %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}
