// Package persist mirrors saved layouts to an optional remote database so a
// book's pages can be edited from more than one machine. The local SQLite
// store stays authoritative; the mirror is fire-and-forget on save.
package persist

import (
	"context"
	"fmt"

	"pageforge/internal/domain"
)

// Backend replicates layouts to one remote database.
type Backend interface {
	// TestConnection verifies connectivity.
	TestConnection(ctx context.Context) error

	// UpsertLayout writes the layout for a key, last write wins.
	UpsertLayout(ctx context.Context, key domain.LayoutKey, layout *domain.PageSideLayout) error

	// LoadLayout reads a layout back, nil when the key has none.
	LoadLayout(ctx context.Context, key domain.LayoutKey) (*domain.PageSideLayout, error)

	// DeleteLayout removes the layout for a key.
	DeleteLayout(ctx context.Context, key domain.LayoutKey) error

	// Close releases the connection.
	Close() error
}

// Open creates a Backend for the configured driver.
func Open(ctx context.Context, driver, dsn string) (Backend, error) {
	switch driver {
	case "postgres":
		return newSQLBackend("postgres", dsn, postgresDialect)
	case "mysql":
		return newSQLBackend("mysql", dsn, mysqlDialect)
	case "mongodb":
		return newMongoBackend(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported mirror driver: %s", driver)
	}
}
