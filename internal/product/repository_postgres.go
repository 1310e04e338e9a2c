package product

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listProductsQuery = `
		SELECT product_id, product_name, product_desc, price, inventory, created_at, updated_at
		FROM products
		ORDER BY product_id
		OFFSET $1 LIMIT $2
	`
	getProductByIDQuery = `
		SELECT product_id, product_name, product_desc, price, inventory, created_at, updated_at
		FROM products
		WHERE product_id = $1
	`
	insertProductQuery = `
		INSERT INTO products (product_name, product_desc, price, inventory, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING product_id
	`
	// the inventory guard in the WHERE clause makes check-then-write a single
	// atomic statement, so concurrent adjustments cannot drive stock negative
	adjustInventoryQuery = `
		UPDATE products
		SET inventory = inventory + $1, updated_at = $2
		WHERE product_id = $3 AND inventory + $1 >= 0
		RETURNING product_id, product_name, product_desc, price, inventory, created_at, updated_at
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(offset, limit int) []Product {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(listProductsQuery, offset, limit)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	var id int
	err := r.db.QueryRow(
		insertProductQuery,
		p.Name,
		p.Description,
		p.Price,
		p.Inventory,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	return p, nil
}

// AdjustInventory applies delta to the product's stock in one conditional
// update. When the update matches no row the follow-up read distinguishes an
// unknown product from an adjustment that would go negative.
func (r *PostgresRepository) AdjustInventory(id, delta int) (Product, error) {
	now := nowRFC3339()
	row := r.db.QueryRow(adjustInventoryQuery, delta, now, id)
	p, err := scanProduct(row)
	if err == nil {
		return p, nil
	}
	if err != sql.ErrNoRows {
		return Product{}, err
	}

	current, err := r.GetByID(id)
	if err != nil {
		return Product{}, err
	}
	return Product{}, &InsufficientInventoryError{
		ProductID: id,
		Name:      current.Name,
		Requested: delta,
		Available: current.Inventory,
	}
}

// Reset deletes all products and inserts the provided list in a single transaction.
func (r *PostgresRepository) Reset(products []Product) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM order_items`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM orders`); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM products`); err != nil {
		return err
	}

	for _, p := range products {
		var id int
		err := tx.QueryRow(insertProductQuery,
			p.Name,
			p.Description,
			p.Price,
			p.Inventory,
			p.CreatedAt,
			p.UpdatedAt,
		).Scan(&id)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var desc sql.NullString
	var createdAt sql.NullString
	var updatedAt sql.NullString

	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&desc,
		&p.Price,
		&p.Inventory,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Product{}, err
	}

	if desc.Valid {
		p.Description = desc.String
	}
	if createdAt.Valid {
		p.CreatedAt = &createdAt.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.String
	}

	return p, nil
}
