package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"pageforge/internal/domain"
)

// dialect carries the SQL that differs between Postgres and MySQL: the
// placeholder style and the upsert clause.
type dialect struct {
	createTable string
	upsert      string
	selectOne   string
	deleteOne   string
}

var postgresDialect = dialect{
	createTable: `CREATE TABLE IF NOT EXISTS pageforge_layouts (
		book_key TEXT NOT NULL,
		page_index INTEGER NOT NULL,
		side TEXT NOT NULL,
		layout_json TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (book_key, page_index, side)
	)`,
	upsert: `INSERT INTO pageforge_layouts (book_key, page_index, side, layout_json, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (book_key, page_index, side)
		DO UPDATE SET layout_json = EXCLUDED.layout_json, updated_at = EXCLUDED.updated_at`,
	selectOne: `SELECT layout_json FROM pageforge_layouts
		WHERE book_key = $1 AND page_index = $2 AND side = $3`,
	deleteOne: `DELETE FROM pageforge_layouts
		WHERE book_key = $1 AND page_index = $2 AND side = $3`,
}

var mysqlDialect = dialect{
	createTable: `CREATE TABLE IF NOT EXISTS pageforge_layouts (
		book_key VARCHAR(255) NOT NULL,
		page_index INT NOT NULL,
		side VARCHAR(8) NOT NULL,
		layout_json MEDIUMTEXT NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (book_key, page_index, side)
	)`,
	upsert: `INSERT INTO pageforge_layouts (book_key, page_index, side, layout_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE layout_json = VALUES(layout_json), updated_at = VALUES(updated_at)`,
	selectOne: `SELECT layout_json FROM pageforge_layouts
		WHERE book_key = ? AND page_index = ? AND side = ?`,
	deleteOne: `DELETE FROM pageforge_layouts
		WHERE book_key = ? AND page_index = ? AND side = ?`,
}

// sqlBackend is the shared implementation for Postgres and MySQL.
type sqlBackend struct {
	driverName string
	db         *sql.DB
	d          dialect
	migrated   bool
}

func newSQLBackend(driverName, dsn string, d dialect) (*sqlBackend, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	// Sensible pool settings for a desktop app
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &sqlBackend{driverName: driverName, db: db, d: d}, nil
}

func (b *sqlBackend) TestConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return b.db.PingContext(ctx)
}

// ensureTable runs the create-table migration once per process.
func (b *sqlBackend) ensureTable(ctx context.Context) error {
	if b.migrated {
		return nil
	}
	if _, err := b.db.ExecContext(ctx, b.d.createTable); err != nil {
		return fmt.Errorf("create mirror table: %w", err)
	}
	b.migrated = true
	return nil
}

func (b *sqlBackend) UpsertLayout(ctx context.Context, key domain.LayoutKey, layout *domain.PageSideLayout) error {
	if err := b.ensureTable(ctx); err != nil {
		return err
	}
	data, err := json.Marshal(layout)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	_, err = b.db.ExecContext(ctx, b.d.upsert,
		key.BookKey, key.PageIndex, string(key.Side), string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mirror upsert: %w", err)
	}
	return nil
}

func (b *sqlBackend) LoadLayout(ctx context.Context, key domain.LayoutKey) (*domain.PageSideLayout, error) {
	if err := b.ensureTable(ctx); err != nil {
		return nil, err
	}
	var raw string
	err := b.db.QueryRowContext(ctx, b.d.selectOne,
		key.BookKey, key.PageIndex, string(key.Side)).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mirror load: %w", err)
	}
	var layout domain.PageSideLayout
	if err := json.Unmarshal([]byte(raw), &layout); err != nil {
		return nil, fmt.Errorf("unmarshal layout: %w", err)
	}
	return &layout, nil
}

func (b *sqlBackend) DeleteLayout(ctx context.Context, key domain.LayoutKey) error {
	if err := b.ensureTable(ctx); err != nil {
		return err
	}
	_, err := b.db.ExecContext(ctx, b.d.deleteOne,
		key.BookKey, key.PageIndex, string(key.Side))
	if err != nil {
		return fmt.Errorf("mirror delete: %w", err)
	}
	return nil
}

func (b *sqlBackend) Close() error {
	return b.db.Close()
}
