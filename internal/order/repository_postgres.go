package order

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/minishop/order-backend/internal/pricing"
	"github.com/minishop/order-backend/internal/product"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db    *sql.DB
	rules pricing.Rules
}

const (
	// FOR UPDATE locks the product rows for the duration of the transaction so
	// concurrent orders against the same product serialize on the stock check
	lockProductsQuery = `
		SELECT product_id, product_name, price, inventory
		FROM products
		WHERE product_id = ANY($1::int[])
		FOR UPDATE
	`
	insertOrderQuery = `
		INSERT INTO orders (customer_name, customer_email, subtotal, shipping_fee, total_amount, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING order_id
	`
	insertOrderItemQuery = `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price, discount_applied)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING order_item_id
	`
	decrementInventoryQuery = `
		UPDATE products SET inventory = inventory - $1 WHERE product_id = $2
	`
	listOrdersQuery = `
		SELECT order_id, customer_name, customer_email, subtotal, shipping_fee, total_amount, created_at
		FROM orders
		ORDER BY order_id
		OFFSET $1 LIMIT $2
	`
	getOrderByIDQuery = `
		SELECT order_id, customer_name, customer_email, subtotal, shipping_fee, total_amount, created_at
		FROM orders
		WHERE order_id = $1
	`
	listItemsByOrderIDsQuery = `
		SELECT order_item_id, order_id, product_id, quantity, unit_price, discount_applied
		FROM order_items
		WHERE order_id = ANY($1::int[])
		ORDER BY order_item_id
	`
)

func NewPostgresRepository(db *sql.DB, rules pricing.Rules) *PostgresRepository {
	return &PostgresRepository{db: db, rules: rules}
}

// PlaceOrder runs the whole placement inside one transaction: lock the product
// rows, verify stock, price each line, decrement inventory and insert the
// order with its items. Any failure rolls the transaction back in full.
func (r *PostgresRepository) PlaceOrder(customerName, customerEmail string, lines []LineRequest) (Order, error) {
	ids := make([]int, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	type lockedRow struct {
		name      string
		price     decimal.Decimal
		inventory int
	}
	locked := map[int]lockedRow{}

	rows, err := tx.Query(lockProductsQuery, pq.Array(ids))
	if err != nil {
		return Order{}, err
	}
	for rows.Next() {
		var id int
		var lr lockedRow
		if err := rows.Scan(&id, &lr.name, &lr.price, &lr.inventory); err != nil {
			rows.Close()
			return Order{}, err
		}
		locked[id] = lr
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return Order{}, err
	}
	rows.Close()

	ord := Order{
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		CreatedAt:     nowRFC3339(),
	}
	subtotal := decimal.Zero
	for _, line := range lines {
		p, ok := locked[line.ProductID]
		if !ok {
			return Order{}, &ProductNotFoundError{ProductID: line.ProductID}
		}
		if line.Quantity > p.inventory {
			return Order{}, &product.InsufficientInventoryError{
				ProductID: line.ProductID,
				Name:      p.name,
				Requested: line.Quantity,
				Available: p.inventory,
			}
		}

		lineTotal, discounted := r.rules.PriceLine(p.price, line.Quantity)
		subtotal = subtotal.Add(lineTotal)
		ord.Items = append(ord.Items, Item{
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			UnitPrice:       p.price,
			DiscountApplied: discounted,
		})
	}

	ord.Subtotal = subtotal
	ord.ShippingFee = r.rules.ShippingFor(subtotal)
	ord.TotalAmount = subtotal.Add(ord.ShippingFee)

	if err := tx.QueryRow(
		insertOrderQuery,
		ord.CustomerName,
		ord.CustomerEmail,
		ord.Subtotal,
		ord.ShippingFee,
		ord.TotalAmount,
		ord.CreatedAt,
	).Scan(&ord.ID); err != nil {
		return Order{}, err
	}

	for i := range ord.Items {
		item := &ord.Items[i]
		item.OrderID = ord.ID
		if err := tx.QueryRow(
			insertOrderItemQuery,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
			item.DiscountApplied,
		).Scan(&item.ID); err != nil {
			return Order{}, err
		}
		if _, err := tx.Exec(decrementInventoryQuery, item.Quantity, item.ProductID); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) List(offset, limit int) ([]Order, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(listOrdersQuery, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	ids := make([]int, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
		ids = append(ids, ord.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(orders, ids); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	row := r.db.QueryRow(getOrderByIDQuery, id)
	ord, err := scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}

	orders := []Order{ord}
	if err := r.attachItems(orders, []int{id}); err != nil {
		return Order{}, err
	}
	return orders[0], nil
}

// attachItems loads the items for the given order ids in one query and folds
// them into the matching orders.
func (r *PostgresRepository) attachItems(orders []Order, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	rows, err := r.db.Query(listItemsByOrderIDsQuery, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	byOrder := map[int][]Item{}
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.DiscountApplied); err != nil {
			return err
		}
		byOrder[item.OrderID] = append(byOrder[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(scanner rowScanner) (Order, error) {
	var ord Order
	var createdAt sql.NullString
	if err := scanner.Scan(
		&ord.ID,
		&ord.CustomerName,
		&ord.CustomerEmail,
		&ord.Subtotal,
		&ord.ShippingFee,
		&ord.TotalAmount,
		&createdAt,
	); err != nil {
		return Order{}, err
	}
	if createdAt.Valid {
		ord.CreatedAt = createdAt.String
	}
	return ord, nil
}
