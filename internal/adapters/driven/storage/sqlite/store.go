package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/leadcache/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/leadcache/internal/core/domain"
	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// Store is a SQLite-backed snapshot store. It is the durable layer of
// the cache: snapshots survive process restarts through it, but every
// failure it can produce is treated as soft by the engines.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.leadcache/data/cache.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".leadcache", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "cache.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save stores or replaces the state for a list.
func (s *Store) Save(ctx context.Context, state domain.ListState) error {
	itemsJSON, err := json.Marshal(state.Items)
	if err != nil {
		return fmt.Errorf("marshalling items: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO list_snapshots (list_id, cursor, items, last_sync)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(list_id) DO UPDATE SET
			cursor = excluded.cursor,
			items = excluded.items,
			last_sync = excluded.last_sync
	`, state.ListID, state.Cursor, string(itemsJSON), state.LastSync.UTC())

	if err != nil {
		return fmt.Errorf("%w: saving snapshot: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Get retrieves the state for a list.
func (s *Store) Get(ctx context.Context, listID string) (*domain.ListState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT list_id, cursor, items, last_sync
		FROM list_snapshots WHERE list_id = ?
	`, listID)

	var state domain.ListState
	var itemsJSON string
	var lastSync sql.NullTime
	if err := row.Scan(&state.ListID, &state.Cursor, &itemsJSON, &lastSync); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning snapshot: %v", domain.ErrStorageUnavailable, err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &state.Items); err != nil {
		return nil, fmt.Errorf("%w: unmarshalling items: %v", domain.ErrStorageUnavailable, err)
	}
	if lastSync.Valid {
		state.LastSync = lastSync.Time
	}

	return &state, nil
}

// Delete removes the state for a list.
func (s *Store) Delete(ctx context.Context, listID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM list_snapshots WHERE list_id = ?`, listID); err != nil {
		return fmt.Errorf("%w: deleting snapshot: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, time.Now().UTC(),
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
