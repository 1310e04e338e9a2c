package order

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Order represents a placed order. Orders are created atomically with their
// items and never modified afterwards.
type Order struct {
	ID            int             `json:"orderId"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ShippingFee   decimal.Decimal `json:"shippingFee"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CreatedAt     string          `json:"createdAt"`
	Items         []Item          `json:"items"`
}

// Item is one product-quantity line within an order. UnitPrice snapshots the
// product's price at order time; the discount is recorded as a flag rather
// than folded into the snapshot.
type Item struct {
	ID              int             `json:"orderItemId"`
	OrderID         int             `json:"orderId"`
	ProductID       int             `json:"productId"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountApplied bool            `json:"discountApplied"`
}

// LineRequest is one requested product-quantity pairing in a new order.
type LineRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

// ProductNotFoundError aborts order placement when a requested product id
// does not exist.
type ProductNotFoundError struct {
	ProductID int
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with ID %d not found", e.ProductID)
}
