package order

import (
	"errors"
	"time"
)

// Service provides business logic for orders.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) Place(customerName, customerEmail string, lines []LineRequest) (Order, error) {
	// basic validation already performed by handler, but double-check
	if customerName == "" || customerEmail == "" {
		return Order{}, errors.New("customer name and email are required")
	}
	if len(lines) == 0 {
		return Order{}, errors.New("order has no items")
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return Order{}, errors.New("quantity must be positive")
		}
	}
	return s.repo.PlaceOrder(customerName, customerEmail, lines)
}

func (s *Service) List(offset, limit int) ([]Order, error) {
	return s.repo.List(offset, limit)
}

func (s *Service) GetByID(id int) (Order, error) {
	return s.repo.GetByID(id)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
