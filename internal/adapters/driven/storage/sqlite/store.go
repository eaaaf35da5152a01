package sqlite

import (
	"context"
	"database/sql"
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

	"github.com/custodia-labs/signin/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/signin/internal/core/domain"
	"github.com/custodia-labs/signin/internal/core/ports/driven"
)

// dbFile is the database file name inside the data directory.
const dbFile = "sessions.db"

// Store is a SQLite-based storage that provides access to the
// session store interface through a wrapper type.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.signin/data/sessions.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".signin", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

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

// SessionStore returns a SessionStore interface backed by this store.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_sessions.up.sql" -> 1)
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
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// =============================================================================
// SessionStore Implementation
// =============================================================================

type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Save stores or updates a session.
func (s *sessionStore) Save(ctx context.Context, session domain.Session) error {
	if session.ID == "" {
		return domain.ErrInvalidInput
	}

	var tokenJSON sql.NullString
	if session.Token != nil {
		data, err := json.Marshal(session.Token)
		if err != nil {
			return fmt.Errorf("marshalling session token: %w", err)
		}
		tokenJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sessions
			(id, token, state, code_verifier, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			state = excluded.state,
			code_verifier = excluded.code_verifier,
			updated_at = excluded.updated_at
	`, session.ID, tokenJSON, session.State, session.CodeVerifier,
		session.CreatedAt.UTC(), session.UpdatedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID.
func (s *sessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, token, state, code_verifier, created_at, updated_at
		FROM sessions WHERE id = ?
	`, id)

	return scanSession(row)
}

// Delete removes a session by ID.
func (s *sessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteIdle removes sessions not updated since cutoff and returns how many were removed.
func (s *Store) DeleteIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE updated_at < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting idle sessions: %w", err)
	}
	return res.RowsAffected()
}

// scanSession scans a single session row.
func scanSession(row *sql.Row) (*domain.Session, error) {
	var session domain.Session
	var tokenJSON sql.NullString

	if err := row.Scan(&session.ID, &tokenJSON, &session.State, &session.CodeVerifier,
		&session.CreatedAt, &session.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	if tokenJSON.Valid && tokenJSON.String != "" {
		var token domain.SessionToken
		if err := json.Unmarshal([]byte(tokenJSON.String), &token); err != nil {
			return nil, fmt.Errorf("unmarshalling session token: %w", err)
		}
		session.Token = &token
	}

	return &session, nil
}
