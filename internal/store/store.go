// Package store provides the order data the shipped recount tools page
// through. The batch adapter itself is storage-agnostic; this package backs
// the built-in tools and the demo host surface.
package store

import (
	"context"
	"fmt"
	"time"
)

// Order is one row of the platform's order ledger.
type Order struct {
	ID         string
	CustomerID string
	Total      float64
	Status     string
	CreatedAt  time.Time
	Recounted  bool
}

// Store is the order access layer recount callbacks run against.
type Store interface {
	// CountOrders reports the total number of orders.
	CountOrders(ctx context.Context) (int64, error)

	// OrderPage returns one page of orders ordered by id.
	OrderPage(ctx context.Context, offset, limit int64) ([]Order, error)

	// InsertOrders adds orders to the ledger.
	InsertOrders(ctx context.Context, orders []Order) error

	// ApplyRecount marks the given orders as recounted.
	ApplyRecount(ctx context.Context, orderIDs []string) error

	// EarningsTotal sums the totals of all recounted orders.
	EarningsTotal(ctx context.Context) (float64, error)

	// Close releases the underlying connection.
	Close() error
}

// Config selects and configures a Store backend.
type Config struct {
	Type     string         `yaml:"type"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig contains SQLite connection settings
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
}

// NewStore creates a Store for the configured backend
func NewStore(config Config) (Store, error) {
	switch config.Type {
	case "sqlite", "":
		return NewSQLiteStore(config.SQLite)
	case "postgres":
		return NewPostgresStore(config.Postgres)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
