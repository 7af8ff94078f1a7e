package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(config SQLiteConfig) (*SQLiteStore, error) {
	path := config.Path
	if path == "" {
		path = ":memory:"
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db, path: path}

	if err := store.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// createTables creates the order ledger schema
func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		total REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'complete',
		created_at DATETIME NOT NULL,
		recounted INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_orders_recounted ON orders(recounted);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CountOrders reports the total number of orders
func (s *SQLiteStore) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// OrderPage returns one page of orders ordered by id
func (s *SQLiteStore) OrderPage(ctx context.Context, offset, limit int64) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, total, status, created_at, recounted
		FROM orders ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Total, &o.Status, &o.CreatedAt, &o.Recounted); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// InsertOrders adds orders to the ledger
func (s *SQLiteStore) InsertOrders(ctx context.Context, orders []Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, o := range orders {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (id, customer_id, total, status, created_at, recounted)
			VALUES (?, ?, ?, ?, ?, ?)`,
			o.ID, o.CustomerID, o.Total, o.Status, o.CreatedAt, o.Recounted)
		if err != nil {
			return fmt.Errorf("failed to insert order %s: %w", o.ID, err)
		}
	}

	return tx.Commit()
}

// ApplyRecount marks the given orders as recounted
func (s *SQLiteStore) ApplyRecount(ctx context.Context, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(orderIDs)), ",")
	args := make([]any, len(orderIDs))
	for i, id := range orderIDs {
		args[i] = id
	}

	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE orders SET recounted = 1 WHERE id IN (%s)`, placeholders), args...)
	if err != nil {
		return fmt.Errorf("failed to apply recount: %w", err)
	}
	return nil
}

// EarningsTotal sums the totals of all recounted orders
func (s *SQLiteStore) EarningsTotal(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM orders WHERE recounted = 1`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum earnings: %w", err)
	}
	return total, nil
}

// Close releases the underlying connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
