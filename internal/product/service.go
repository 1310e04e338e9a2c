package product

import "time"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(offset, limit int) []Product {
	return s.repo.List(offset, limit)
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	return s.repo.Create(p)
}

// AdjustInventory adds delta to the product's stock; negative deltas remove
// stock and fail without touching the row if they would go below zero.
func (s *Service) AdjustInventory(id, delta int) (Product, error) {
	return s.repo.AdjustInventory(id, delta)
}

// ResetProducts replaces all products with the given list (used for dev / seeding).
func (s *Service) ResetProducts(products []Product) error {
	return s.repo.Reset(products)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
