package restaurante

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dadosloja/restaurante/migrations"
)

type Repository struct {
	conn *pgx.Conn
}

func NewRepository(ctx context.Context, connStr string) (*Repository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &Repository{conn: conn}, nil
}

func (r Repository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r Repository) Name() string {
	return "postgres"
}

// Load reads the four tables into memory.
func (r Repository) Load(ctx context.Context) (*Dataset, error) {
	var (
		ds  Dataset
		err error
	)
	if ds.Orders, err = r.GetOrders(ctx); err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if ds.OrderItems, err = r.GetOrderItems(ctx); err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	if ds.Products, err = r.GetProducts(ctx); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if ds.Customers, err = r.GetCustomers(ctx); err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	return &ds, nil
}

func (r Repository) GetOrders(ctx context.Context) ([]Order, error) {
	rows, err := r.conn.Query(ctx, "SELECT order_id, customer_id, status FROM orders ORDER BY order_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.OrderId, &o.CustomerId, &o.Status); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r Repository) GetOrderItems(ctx context.Context) ([]OrderItem, error) {
	rows, err := r.conn.Query(ctx, "SELECT order_id, product_id, quantity FROM order_items")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.OrderId, &it.ProductId, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r Repository) GetProducts(ctx context.Context) ([]Product, error) {
	// numeric is read as text so no precision is lost on the way to decimal
	rows, err := r.conn.Query(ctx, "SELECT product_id, name, selling_price::text FROM products ORDER BY product_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var (
			p     Product
			price string
		)
		if err := rows.Scan(&p.ProductId, &p.Name, &price); err != nil {
			return nil, err
		}
		if p.SellingPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("product %d: invalid selling_price %q: %w", p.ProductId, price, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r Repository) GetCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := r.conn.Query(ctx, "SELECT customer_id, name FROM customers ORDER BY customer_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.CustomerId, &c.Name); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

// GetProductQuantities aggregates units sold per product straight from
// completed_sales_view, using the same ordering as BestSellers.
func (r Repository) GetProductQuantities(ctx context.Context) ([]ProductQuantity, error) {
	query := `
    SELECT product_name, SUM(quantity) AS total_sold
    FROM completed_sales_view
    GROUP BY product_name
    ORDER BY total_sold DESC, product_name COLLATE "C";
    `
	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductQuantity
	for rows.Next() {
		var pq ProductQuantity
		if err := rows.Scan(&pq.Name, &pq.Quantity); err != nil {
			return nil, err
		}
		out = append(out, pq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ImportDataset replaces the content of the four tables with ds in a single
// transaction.
func (r Repository) ImportDataset(ctx context.Context, ds *Dataset) error {
	tx, err := r.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin import: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(ctx, "TRUNCATE order_items, orders, products, customers"); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	copies := []struct {
		table   string
		columns []string
		src     pgx.CopyFromSource
	}{
		{"customers", []string{"customer_id", "name"}, pgx.CopyFromSlice(len(ds.Customers), func(i int) ([]any, error) {
			c := ds.Customers[i]
			return []any{c.CustomerId, c.Name}, nil
		})},
		{"products", []string{"product_id", "name", "selling_price"}, pgx.CopyFromSlice(len(ds.Products), func(i int) ([]any, error) {
			p := ds.Products[i]
			return []any{p.ProductId, p.Name, toNumeric(p.SellingPrice)}, nil
		})},
		{"orders", []string{"order_id", "customer_id", "status"}, pgx.CopyFromSlice(len(ds.Orders), func(i int) ([]any, error) {
			o := ds.Orders[i]
			return []any{o.OrderId, o.CustomerId, o.Status}, nil
		})},
		{"order_items", []string{"order_id", "product_id", "quantity"}, pgx.CopyFromSlice(len(ds.OrderItems), func(i int) ([]any, error) {
			it := ds.OrderItems[i]
			return []any{it.OrderId, it.ProductId, it.Quantity}, nil
		})},
	}
	for _, c := range copies {
		if _, err := tx.CopyFrom(ctx, pgx.Identifier{c.table}, c.columns, c.src); err != nil {
			return fmt.Errorf("failed to copy %s: %w", c.table, err)
		}
	}

	return tx.Commit(ctx)
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

// Migrate applies the embedded schema to the database at dsn. dsn must be a
// postgres:// or postgresql:// URL.
func Migrate(dsn string) error {
	dbURL, err := migrateURL(dsn)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func migrateURL(dsn string) (string, error) {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if rest, ok := strings.CutPrefix(dsn, scheme); ok {
			return "pgx5://" + rest, nil
		}
	}
	return "", errors.New("database url must start with postgres:// or postgresql://")
}
