package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

// schemaVersion is the kv schema version. The store refuses to run against a
// newer schema than it understands.
const schemaVersion = 1

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_meta (
  version    INTEGER PRIMARY KEY,
  applied_ms INTEGER NOT NULL
);
`

var errSetFailed = errors.New("store: set failed")

// SQLite is a Store backed by a single-file SQLite database. A database that
// fails to open due to corruption is rotated aside and recreated empty; the
// engine treats persisted state as rebuildable, so losing it is degraded
// service, not an error.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	db, err := openAndMigrate(path)
	if err != nil {
		if !isCorruptionError(err) {
			return nil, err
		}
		backup, rotErr := rotateCorrupt(path)
		if rotErr != nil {
			return nil, fmt.Errorf("rotate corrupt store: %w", rotErr)
		}
		logger.Warn("store corrupt, starting empty",
			"path", path, "backup", backup, "error", err)
		db, err = openAndMigrate(path)
		if err != nil {
			return nil, err
		}
	}

	return &SQLite{db: db, path: path, logger: logger}, nil
}

func openAndMigrate(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// The engine is single-writer; one connection avoids lock churn.
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	if _, err := db.Exec(kvSchema); err != nil {
		return err
	}

	var version sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_meta`).Scan(&version); err != nil {
		return err
	}
	switch {
	case !version.Valid:
		_, err := db.Exec(`INSERT INTO schema_meta (version, applied_ms) VALUES (?, ?)`,
			schemaVersion, time.Now().UnixMilli())
		return err
	case version.Int64 > schemaVersion:
		return fmt.Errorf("store schema version %d is newer than supported %d", version.Int64, schemaVersion)
	default:
		return nil
	}
}

// rotateCorrupt moves the damaged database (and its WAL sidecars) out of the
// way and returns the backup path.
func rotateCorrupt(path string) (string, error) {
	backup := fmt.Sprintf("%s.corrupt-%d", path, time.Now().UnixMilli())
	if err := os.Rename(path, backup); err != nil && !os.IsNotExist(err) {
		return "", err
	}
	for _, sidecar := range []string{path + "-wal", path + "-shm"} {
		os.Remove(sidecar)
	}
	return backup, nil
}

// isCorruptionError reports whether err looks like SQLite file corruption
// rather than an environmental failure such as permissions.
func isCorruptionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"database disk image is malformed",
		"file is not a database",
		"file is encrypted or is not a database",
		"sqlite_corrupt",
		"sqlite_notadb",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Get implements Store.
func (s *SQLite) Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	placeholders := strings.Repeat("?,", len(keys))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE key IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		out[key] = json.RawMessage(value)
	}
	return out, rows.Err()
}

// Set implements Store. The batch is written in one transaction.
func (s *SQLite) Set(ctx context.Context, entries map[string]json.RawMessage) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // best-effort after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO kv (key, value, updated_ms) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_ms = excluded.updated_ms
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UnixMilli()
	for k, v := range entries {
		if _, err := stmt.ExecContext(ctx, k, []byte(v), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}
