package product

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

var productColumns = []string{"product_id", "product_name", "product_desc", "price", "inventory", "created_at", "updated_at"}

func TestPostgresAdjustInventory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(productColumns).
		AddRow(1, "Laptop", "High-performance laptop", "1299.99", 20, "t", "u")
	mock.ExpectQuery("UPDATE products").
		WithArgs(-5, sqlmock.AnyArg(), 1).
		WillReturnRows(rows)

	p, err := repo.AdjustInventory(1, -5)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if p.Inventory != 20 {
		t.Errorf("unexpected inventory %d", p.Inventory)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresAdjustInventory_Insufficient(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// conditional update matches nothing
	mock.ExpectQuery("UPDATE products").
		WithArgs(-5, sqlmock.AnyArg(), 2).
		WillReturnRows(sqlmock.NewRows(productColumns))

	// follow-up read shows the product exists with too little stock
	rows := sqlmock.NewRows(productColumns).
		AddRow(2, "Wireless Mouse", "Ergonomic wireless mouse", "49.99", 3, "t", "u")
	mock.ExpectQuery("FROM products").WithArgs(2).WillReturnRows(rows)

	_, err = repo.AdjustInventory(2, -5)
	insufficient, ok := err.(*InsufficientInventoryError)
	if !ok {
		t.Fatalf("expected InsufficientInventoryError, got %v", err)
	}
	if insufficient.Available != 3 || insufficient.Requested != -5 {
		t.Errorf("unexpected error details %+v", insufficient)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresAdjustInventory_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE products").
		WithArgs(1, sqlmock.AnyArg(), 99).
		WillReturnRows(sqlmock.NewRows(productColumns))
	mock.ExpectQuery("FROM products").WithArgs(99).WillReturnRows(sqlmock.NewRows(productColumns))

	_, err = repo.AdjustInventory(99, 1)
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO products").
		WillReturnRows(sqlmock.NewRows([]string{"product_id"}).AddRow(7))

	created, err := repo.Create(Product{Name: "Tablet", Inventory: 35})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if created.ID != 7 {
		t.Errorf("expected id 7, got %d", created.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(productColumns).
		AddRow(1, "Laptop", "d", "1299.99", 25, "t", "u").
		AddRow(2, "Tablet", "d2", "399.99", 35, "t2", "u2")
	mock.ExpectQuery("FROM products").WithArgs(0, 100).WillReturnRows(rows)

	all := repo.List(0, 100)
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}
	if all[1].Name != "Tablet" {
		t.Errorf("unexpected product %q", all[1].Name)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
