package order

import (
	"errors"
	"fmt"
	"net/mail"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/minishop/order-backend/internal/product"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/orders", h.createOrder)
	app.Get("/orders", h.getOrders)
	app.Get("/order/:id", h.getOrder)
}

type createOrderRequest struct {
	CustomerName  string        `json:"customerName"`
	CustomerEmail string        `json:"customerEmail"`
	Items         []LineRequest `json:"items"`
}

func validateOrderPayload(payload *createOrderRequest) map[string]string {
	errs := map[string]string{}
	if payload.CustomerName == "" {
		errs["customerName"] = "customerName is required"
	}
	if payload.CustomerEmail == "" {
		errs["customerEmail"] = "customerEmail is required"
	} else if _, err := mail.ParseAddress(payload.CustomerEmail); err != nil {
		errs["customerEmail"] = "customerEmail must be a valid email address"
	}
	if len(payload.Items) == 0 {
		errs["items"] = "items must not be empty"
	}
	seen := map[int]bool{}
	for i, line := range payload.Items {
		if line.Quantity <= 0 {
			errs[fmt.Sprintf("items[%d].quantity", i)] = "quantity must be positive"
		}
		if seen[line.ProductID] {
			errs[fmt.Sprintf("items[%d].productId", i)] = "duplicate productId in order"
		}
		seen[line.ProductID] = true
	}
	return errs
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	if ves := validateOrderPayload(payload); len(ves) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": ves})
	}

	created, err := h.service.Place(payload.CustomerName, payload.CustomerEmail, payload.Items)
	if err != nil {
		var notFound *ProductNotFoundError
		var insufficient *product.InsufficientInventoryError
		switch {
		case errors.As(err, &notFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": notFound.Error()})
		case errors.As(err, &insufficient):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": insufficient.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) getOrders(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", 100)

	orders, err := h.service.List(offset, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	ord, err := h.service.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Order not found")
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(ord)
}
