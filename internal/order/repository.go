package order

import (
	"errors"
	"sync"

	"github.com/minishop/order-backend/internal/pricing"
	"github.com/minishop/order-backend/internal/product"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("order not found")

// Repository defines persistence operations for orders. PlaceOrder runs the
// whole stock-check / pricing / decrement / insert sequence atomically: either
// the order and all inventory changes become visible together, or none do.
type Repository interface {
	PlaceOrder(customerName, customerEmail string, lines []LineRequest) (Order, error)
	List(offset, limit int) ([]Order, error)
	GetByID(id int) (Order, error)
}

// InMemoryRepository places orders against an in-memory product repository.
// Used by handler and service tests.
type InMemoryRepository struct {
	mu       sync.Mutex
	products *product.InMemoryRepository
	rules    pricing.Rules
	orders   []Order
	nextID   int
}

func NewInMemoryRepository(products *product.InMemoryRepository, rules pricing.Rules) *InMemoryRepository {
	return &InMemoryRepository{products: products, rules: rules, nextID: 1}
}

func (r *InMemoryRepository) PlaceOrder(customerName, customerEmail string, lines []LineRequest) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ord := Order{
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		CreatedAt:     nowRFC3339(),
	}

	// validate every line before touching any stock so a late failure cannot
	// leave earlier decrements behind
	subtotal := decimal.Zero
	for _, line := range lines {
		p, err := r.products.GetByID(line.ProductID)
		if err != nil {
			return Order{}, &ProductNotFoundError{ProductID: line.ProductID}
		}
		if line.Quantity > p.Inventory {
			return Order{}, &product.InsufficientInventoryError{
				ProductID: p.ID,
				Name:      p.Name,
				Requested: line.Quantity,
				Available: p.Inventory,
			}
		}

		lineTotal, discounted := r.rules.PriceLine(p.Price, line.Quantity)
		subtotal = subtotal.Add(lineTotal)
		ord.Items = append(ord.Items, Item{
			ProductID:       p.ID,
			Quantity:        line.Quantity,
			UnitPrice:       p.Price,
			DiscountApplied: discounted,
		})
	}

	ord.Subtotal = subtotal
	ord.ShippingFee = r.rules.ShippingFor(subtotal)
	ord.TotalAmount = subtotal.Add(ord.ShippingFee)

	ord.ID = r.nextID
	r.nextID++
	for i := range ord.Items {
		ord.Items[i].ID = i + 1
		ord.Items[i].OrderID = ord.ID
		if _, err := r.products.AdjustInventory(ord.Items[i].ProductID, -ord.Items[i].Quantity); err != nil {
			return Order{}, err
		}
	}

	r.orders = append(r.orders, ord)
	return ord, nil
}

func (r *InMemoryRepository) List(offset, limit int) ([]Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(r.orders) {
		return []Order{}, nil
	}
	end := len(r.orders)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]Order, end-offset)
	copy(out, r.orders[offset:end])
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ord := range r.orders {
		if ord.ID == id {
			return ord, nil
		}
	}
	return Order{}, ErrNotFound
}
