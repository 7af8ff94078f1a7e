package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store instance
func NewPostgresStore(config PostgresConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.Username, config.Password, config.Database, config.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open PostgreSQL connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	store := &PostgresStore{db: db}

	if err := store.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// createTables creates the order ledger schema
func (s *PostgresStore) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS orders (
		id VARCHAR(255) PRIMARY KEY,
		customer_id VARCHAR(255) NOT NULL,
		total DOUBLE PRECISION NOT NULL DEFAULT 0,
		status VARCHAR(64) NOT NULL DEFAULT 'complete',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL,
		recounted BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_orders_recounted ON orders(recounted);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// CountOrders reports the total number of orders
func (s *PostgresStore) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// OrderPage returns one page of orders ordered by id
func (s *PostgresStore) OrderPage(ctx context.Context, offset, limit int64) ([]Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_id, total, status, created_at, recounted
		FROM orders ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
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
func (s *PostgresStore) InsertOrders(ctx context.Context, orders []Order) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, o := range orders {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO orders (id, customer_id, total, status, created_at, recounted)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			o.ID, o.CustomerID, o.Total, o.Status, o.CreatedAt, o.Recounted)
		if err != nil {
			return fmt.Errorf("failed to insert order %s: %w", o.ID, err)
		}
	}

	return tx.Commit()
}

// ApplyRecount marks the given orders as recounted
func (s *PostgresStore) ApplyRecount(ctx context.Context, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(orderIDs))
	args := make([]any, len(orderIDs))
	for i, id := range orderIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE orders SET recounted = TRUE WHERE id IN (%s)`,
			strings.Join(placeholders, ",")), args...)
	if err != nil {
		return fmt.Errorf("failed to apply recount: %w", err)
	}
	return nil
}

// EarningsTotal sums the totals of all recounted orders
func (s *PostgresStore) EarningsTotal(ctx context.Context) (float64, error) {
	var total float64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(total), 0) FROM orders WHERE recounted = TRUE`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum earnings: %w", err)
	}
	return total, nil
}

// Close releases the underlying connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
