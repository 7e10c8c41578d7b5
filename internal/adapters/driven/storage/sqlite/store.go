package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// dbFile is the database file name inside the data directory.
const dbFile = "sessions.db"

// pragmas are applied on every connection.
const pragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

// Store is the SQLite database holding the session log.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) dataDir/sessions.db and brings its
// schema up to date. An empty dataDir means ~/.medexpert/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".medexpert", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite", path+pragmas)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	applied, err := s.migrate(context.Background(), migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	if applied > 0 {
		logger.Debug("sqlite: applied %d migration(s) to %s", applied, path)
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

// SessionStore returns the session log backed by this database.
func (s *Store) SessionStore() driven.SessionStore {
	return &sessionStore{store: s}
}

// migration is one numbered *.up.sql file.
type migration struct {
	version int
	name    string
}

// pendingMigrations lists the up migrations newer than current, oldest first.
// Files without a leading version number are ignored.
func pendingMigrations(fsys fs.FS, current int) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading migrations: %w", err)
	}

	var out []migration
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		var version int
		if _, err := fmt.Sscanf(e.Name(), "%d_", &version); err != nil {
			continue
		}
		if version > current {
			out = append(out, migration{version: version, name: e.Name()})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// migrate applies pending migrations, each in its own transaction, and
// returns how many ran. Migration files record their own version.
func (s *Store) migrate(ctx context.Context, fsys fs.FS) (int, error) {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return 0, fmt.Errorf("creating schema_migrations table: %w", err)
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return 0, err
	}
	pending, err := pendingMigrations(fsys, current)
	if err != nil {
		return 0, err
	}

	for i, m := range pending {
		body, err := fs.ReadFile(fsys, m.name)
		if err != nil {
			return i, fmt.Errorf("reading migration %s: %w", m.name, err)
		}
		if err := s.apply(ctx, m, string(body)); err != nil {
			return i, err
		}
	}
	return len(pending), nil
}

func (s *Store) apply(ctx context.Context, m migration, body string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration %s: %w", m.name, err)
	}
	if _, err := tx.ExecContext(ctx, body); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("executing migration %s: %w", m.name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %s: %w", m.name, err)
	}
	return nil
}

// schemaVersion returns the newest applied migration, or 0.
func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return v, nil
}
