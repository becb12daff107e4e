package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/RahulVervebot/pims-sub002/store/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Backend is a store.Backend over a SQLite database file.
type Backend struct {
	sqlDB *sql.DB
}

// Open opens and migrates a SQLite collection database.
func Open(path string) (*Backend, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := upgradeSchema(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("upgrade schema: %w", err)
	}
	return &Backend{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (b *Backend) Close() error {
	if b == nil || b.sqlDB == nil {
		return nil
	}
	return b.sqlDB.Close()
}

// Get loads the encoded collection stored under key.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if b == nil || b.sqlDB == nil {
		return nil, false, fmt.Errorf("storage is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, fmt.Errorf("collection key is required")
	}

	var payload []byte
	err := b.sqlDB.QueryRowContext(
		ctx,
		`SELECT payload FROM collections WHERE collection_key = ?`,
		key,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get collection: %w", err)
	}
	return payload, true, nil
}

// Set upserts the encoded collection stored under key.
func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if b == nil || b.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("collection key is required")
	}
	if value == nil {
		value = []byte{}
	}

	_, err := b.sqlDB.ExecContext(
		ctx,
		`INSERT INTO collections (collection_key, payload, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(collection_key) DO UPDATE SET
		    payload = excluded.payload,
		    updated_at = excluded.updated_at`,
		key,
		value,
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put collection: %w", err)
	}
	return nil
}
