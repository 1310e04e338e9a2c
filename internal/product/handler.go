package product

import (
	"errors"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/products", h.getProducts)
	app.Get("/product/:id", h.getProduct)

	// dev-only endpoint to reseed products — enabled when ALLOW_SEED_PRODUCTS=1
	app.Post("/dev/seed-products", h.seedProducts)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/products", h.createProduct)
	app.Patch("/product/:id/inventory", h.adjustInventory)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)
	return c.JSON(h.service.List(offset, limit))
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Product not found")
	}
	return c.JSON(p)
}

func validateProductPayload(p *Product) map[string]string {
	errs := map[string]string{}
	if p.Name == "" {
		errs["productName"] = "productName is required"
	}
	if p.Price.IsNegative() {
		errs["price"] = "price must be >= 0"
	}
	if p.Inventory < 0 {
		errs["inventory"] = "inventory must be >= 0"
	}
	return errs
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	p := new(Product)
	if err := c.BodyParser(p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	// validate payload and return all validation errors together
	if ves := validateProductPayload(p); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	now := nowRFC3339()
	if p.CreatedAt == nil {
		p.CreatedAt = &now
	}
	if p.UpdatedAt == nil {
		p.UpdatedAt = &now
	}

	created, err := h.service.Create(*p)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

type adjustInventoryRequest struct {
	// positive to add stock, negative to remove
	Quantity int `json:"quantity"`
}

func (h *Handler) adjustInventory(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	payload := new(adjustInventoryRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Quantity == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": map[string]string{"quantity": "quantity must be non-zero"}})
	}

	updated, err := h.service.AdjustInventory(id, payload.Quantity)
	if err != nil {
		var insufficient *InsufficientInventoryError
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).SendString("Product not found")
		case errors.As(err, &insufficient):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": insufficient.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(updated)
}

// seedProducts clears the catalogue and inserts the provided list (or a default
// sample list). Protected by the ALLOW_SEED_PRODUCTS environment variable.
func (h *Handler) seedProducts(c *fiber.Ctx) error {
	if os.Getenv("ALLOW_SEED_PRODUCTS") != "1" {
		return c.Status(fiber.StatusForbidden).SendString("seeding not allowed")
	}

	var products []Product
	err := c.BodyParser(&products)
	now := nowRFC3339()
	// If body parsing fails, fall back to the default sample catalogue.
	// If parsing succeeds and the client sends an empty array, treat it as
	// "delete all" (no re-seeding).
	if err != nil {
		products = sampleCatalogue(now)
	}

	if err := h.service.ResetProducts(products); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}
	return c.JSON(products)
}

func sampleCatalogue(now string) []Product {
	mk := func(name, desc, price string, inventory int) Product {
		return Product{
			Name:        name,
			Description: desc,
			Price:       decimal.RequireFromString(price),
			Inventory:   inventory,
			CreatedAt:   &now,
			UpdatedAt:   &now,
		}
	}
	return []Product{
		mk("Laptop", "High-performance laptop with 16GB RAM and 512GB SSD", "1299.99", 25),
		mk("Smartphone", "Latest smartphone with 128GB storage and 48MP camera", "799.99", 50),
		mk("Wireless Headphones", "Noise-cancelling wireless headphones with 30-hour battery life", "249.99", 100),
		mk("Tablet", "10-inch tablet with 64GB storage and HD display", "399.99", 35),
		mk("Smart Watch", "Fitness tracker with heart rate monitor and GPS", "199.99", 70),
		mk("Bluetooth Speaker", "Portable waterproof bluetooth speaker", "89.99", 120),
		mk("Wireless Mouse", "Ergonomic wireless mouse with long battery life", "49.99", 150),
		mk("USB-C Cable", "6ft braided USB-C charging cable", "15.99", 200),
		mk("External Hard Drive", "2TB USB 3.0 external hard drive", "79.99", 60),
		mk("Wireless Charger", "Fast wireless charging pad compatible with all Qi devices", "29.99", 90),
	}
}
