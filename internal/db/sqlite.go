package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/thesavant42/quakewatch/internal/models"

	_ "modernc.org/sqlite"
)

// Preference keys
const (
	KeyOrderBy      = "order_by"
	KeyMinMagnitude = "min_magnitude"
	KeyLimit        = "limit"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createPreferencesTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create preferences schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetPreference returns the stored value for key, or def when unset
func (db *DB) GetPreference(key, def string) (string, error) {
	var value string
	err := db.conn.QueryRow(selectPreference, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, nil
}

// SetPreference stores value under key, replacing any previous value
func (db *DB) SetPreference(key, value string) error {
	if _, err := db.conn.Exec(upsertPreference, key, value); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}

// ClearPreference removes key so the default applies again
func (db *DB) ClearPreference(key string) error {
	if _, err := db.conn.Exec(deletePreference, key); err != nil {
		return fmt.Errorf("failed to clear preference %s: %w", key, err)
	}
	return nil
}

// LoadFilter reads the saved filter preferences, falling back to defaults per key
func (db *DB) LoadFilter(defaults models.Filter) (models.Filter, error) {
	orderBy, err := db.GetPreference(KeyOrderBy, string(defaults.OrderBy))
	if err != nil {
		return defaults, err
	}
	minMag, err := db.GetPreference(KeyMinMagnitude, defaults.MinMagnitude)
	if err != nil {
		return defaults, err
	}
	limit, err := db.GetPreference(KeyLimit, defaults.Limit)
	if err != nil {
		return defaults, err
	}

	return models.Filter{
		OrderBy:      models.SortOrder(orderBy),
		MinMagnitude: minMag,
		Limit:        limit,
	}, nil
}

// SaveFilter stores all filter preferences in one transaction
func (db *DB) SaveFilter(f models.Filter) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(upsertPreference)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	values := [][2]string{
		{KeyOrderBy, string(f.OrderBy)},
		{KeyMinMagnitude, f.MinMagnitude},
		{KeyLimit, f.Limit},
	}
	for _, kv := range values {
		if _, err := stmt.Exec(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to save preference %s: %w", kv[0], err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
