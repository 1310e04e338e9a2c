package order

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/minishop/order-backend/internal/pricing"
	"github.com/minishop/order-backend/internal/product"
	"github.com/shopspring/decimal"
)

func setupApp() (*fiber.App, *product.InMemoryRepository) {
	products := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Widget", Price: decimal.RequireFromString("10.00"), Inventory: 10},
		{ID: 2, Name: "Gadget", Price: decimal.RequireFromString("25.00"), Inventory: 4},
	})
	repo := NewInMemoryRepository(products, pricing.DefaultRules())
	h := NewHandler(NewService(repo))

	a := fiber.New()
	h.RegisterPublicRoutes(a)
	return a, products
}

func postOrder(t *testing.T, a *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := a.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestCreateOrder_BulkDiscountFreeShipping(t *testing.T) {
	a, products := setupApp()

	// 6 x $10.00 => 10% off => $54.00, free shipping at/above $50.00
	res := postOrder(t, a, `{"customerName":"Ada","customerEmail":"ada@example.com","items":[{"productId":1,"quantity":6}]}`)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}

	var ord Order
	json.NewDecoder(res.Body).Decode(&ord)
	if !ord.Subtotal.Equal(decimal.RequireFromString("54")) {
		t.Errorf("expected subtotal 54, got %s", ord.Subtotal)
	}
	if !ord.ShippingFee.IsZero() {
		t.Errorf("expected free shipping, got %s", ord.ShippingFee)
	}
	if !ord.TotalAmount.Equal(decimal.RequireFromString("54")) {
		t.Errorf("expected total 54, got %s", ord.TotalAmount)
	}
	if len(ord.Items) != 1 || !ord.Items[0].DiscountApplied {
		t.Fatalf("expected one discounted item, got %+v", ord.Items)
	}
	if !ord.Items[0].UnitPrice.Equal(decimal.RequireFromString("10")) {
		t.Errorf("unit price must snapshot the product price, got %s", ord.Items[0].UnitPrice)
	}

	p, _ := products.GetByID(1)
	if p.Inventory != 4 {
		t.Errorf("expected inventory 4 after order, got %d", p.Inventory)
	}
}

func TestCreateOrder_SmallOrderPaysShipping(t *testing.T) {
	a, _ := setupApp()

	// 3 x $10.00 => no discount, $5.00 shipping under $50.00
	res := postOrder(t, a, `{"customerName":"Ada","customerEmail":"ada@example.com","items":[{"productId":1,"quantity":3}]}`)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}

	var ord Order
	json.NewDecoder(res.Body).Decode(&ord)
	if !ord.Subtotal.Equal(decimal.RequireFromString("30")) {
		t.Errorf("expected subtotal 30, got %s", ord.Subtotal)
	}
	if !ord.ShippingFee.Equal(decimal.RequireFromString("5")) {
		t.Errorf("expected shipping 5, got %s", ord.ShippingFee)
	}
	if !ord.TotalAmount.Equal(decimal.RequireFromString("35")) {
		t.Errorf("expected total 35, got %s", ord.TotalAmount)
	}
	if ord.Items[0].DiscountApplied {
		t.Errorf("no discount expected for quantity 3")
	}
}

func TestCreateOrder_InsufficientInventory(t *testing.T) {
	a, products := setupApp()

	res := postOrder(t, a, `{"customerName":"Ada","customerEmail":"ada@example.com","items":[{"productId":1,"quantity":15}]}`)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "Widget") {
		t.Errorf("error must name the offending product: %s", body)
	}

	p, _ := products.GetByID(1)
	if p.Inventory != 10 {
		t.Errorf("inventory must be unchanged, got %d", p.Inventory)
	}

	// no order row must exist
	req := httptest.NewRequest("GET", "/orders", nil)
	listRes, _ := a.Test(req, -1)
	var orders []Order
	json.NewDecoder(listRes.Body).Decode(&orders)
	if len(orders) != 0 {
		t.Errorf("expected no orders, got %d", len(orders))
	}
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	a, _ := setupApp()

	res := postOrder(t, a, `{"customerName":"Ada","customerEmail":"ada@example.com","items":[{"productId":99,"quantity":1}]}`)
	if res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 got %d", res.StatusCode)
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	a, _ := setupApp()

	cases := []struct {
		name string
		body string
	}{
		{"empty items", `{"customerName":"Ada","customerEmail":"ada@example.com","items":[]}`},
		{"missing name", `{"customerEmail":"ada@example.com","items":[{"productId":1,"quantity":1}]}`},
		{"bad email", `{"customerName":"Ada","customerEmail":"not-an-email","items":[{"productId":1,"quantity":1}]}`},
		{"zero quantity", `{"customerName":"Ada","customerEmail":"ada@example.com","items":[{"productId":1,"quantity":0}]}`},
		{"duplicate product", `{"customerName":"Ada","customerEmail":"ada@example.com","items":[{"productId":1,"quantity":1},{"productId":1,"quantity":2}]}`},
	}
	for _, tc := range cases {
		res := postOrder(t, a, tc.body)
		if res.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: expected 400 got %d", tc.name, res.StatusCode)
		}
	}
}

func TestGetOrder(t *testing.T) {
	a, _ := setupApp()

	res := postOrder(t, a, `{"customerName":"Ada","customerEmail":"ada@example.com","items":[{"productId":2,"quantity":2}]}`)
	var created Order
	json.NewDecoder(res.Body).Decode(&created)

	req := httptest.NewRequest("GET", "/order/1", nil)
	getRes, _ := a.Test(req, -1)
	if getRes.StatusCode != 200 {
		t.Fatalf("expected 200 got %d", getRes.StatusCode)
	}
	var fetched Order
	json.NewDecoder(getRes.Body).Decode(&fetched)
	if fetched.ID != created.ID || len(fetched.Items) != 1 {
		t.Errorf("unexpected order %+v", fetched)
	}

	req = httptest.NewRequest("GET", "/order/42", nil)
	getRes, _ = a.Test(req, -1)
	if getRes.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 got %d", getRes.StatusCode)
	}
}
