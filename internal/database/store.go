// Package database provides storage backends for the link page documents.
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when no document exists under the key.
var ErrNotFound = errors.New("document not found")

// Store is a durable map from string key to JSON document.
// SQLite, PostgreSQL and in-memory implementations satisfy this interface.
//
// There are no transactions and no versioning: every Put replaces the
// whole document and the last Put wins.
type Store interface {
	Close() error

	// DatabaseType returns the name of the backend ("SQLite", "PostgreSQL" or "Memory").
	DatabaseType() string

	// Get returns the raw JSON stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (json.RawMessage, error)

	// Put marshals value to JSON and stores it under key.
	Put(ctx context.Context, key string, value any) error
}

// Open selects a backend by driver name.
// driver is "sqlite", "postgres" or "memory"; dsn is a file path or a
// connection string accordingly.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return New(ctx, dsn)
	case "postgres", "postgresql":
		return NewPostgres(ctx, dsn)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

// GetJSON loads the document under key into v.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func marshal(key string, value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	return data, nil
}
