package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/blindcheck/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "blindcheck.db"

// ErrNotFound is returned when a database that must exist does not.
var ErrNotFound = errors.New("database not found")

// ResultDB provides SQLite-based storage for check runs.
//
// Design decision: Results are stored as JSON next to a few indexed columns
// (file name, fingerprint, tags) rather than fully normalized, because:
// 1. Results are only ever read back whole
// 2. New result fields need no schema migration
// 3. The indexed columns cover every query the history command makes
type ResultDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ResultDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ResultDB in the given directory.
// If CreateIfNotExists is false and the database doesn't exist, ErrNotFound is returned.
func Open(dbDir string, opts Options) (*ResultDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw prevents creating new files, mode=rwc allows it.
	// busy_timeout lets a check and a history command share the file.
	mode := "rw"
	if opts.CreateIfNotExists {
		mode = "rwc"
	}
	dsn := dbPath + "?mode=" + mode + "&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ResultDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the database file path.
func (rdb *ResultDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *ResultDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ResultDB) createTables() error {
	schema := `
	-- One row per invocation of the check command
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started DATETIME NOT NULL,
		settings_json TEXT NOT NULL
	);

	-- One row per checked file
	CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		file_name TEXT NOT NULL,
		paper_id TEXT,
		fingerprint TEXT,
		tags TEXT,
		failed INTEGER NOT NULL DEFAULT 0,
		checked_at DATETIME,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_results_file ON results(file_name);
	CREATE INDEX IF NOT EXISTS idx_results_fingerprint ON results(fingerprint);
	CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a run and all of its results in one transaction.
func (rdb *ResultDB) SaveRun(ctx context.Context, run *model.CheckRun) (err error) {
	settingsJSON, err := json.Marshal(run.Settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started, settings_json) VALUES (?, ?, ?)`,
		run.ID, run.Started.UTC().Format(time.RFC3339Nano), string(settingsJSON),
	); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, result := range run.Results {
		resultJSON, marshalErr := json.Marshal(result)
		if marshalErr != nil {
			err = fmt.Errorf("failed to serialize result of %s: %w", result.FileName, marshalErr)
			return err
		}

		if _, err = tx.ExecContext(ctx, `
		INSERT INTO results (run_id, file_name, paper_id, fingerprint, tags, failed, checked_at, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			result.FileName,
			result.PaperID,
			result.Fingerprint,
			strings.Join(result.Tags(), ","),
			result.Failed(),
			result.CheckedAt.UTC().Format(time.RFC3339Nano),
			string(resultJSON),
		); err != nil {
			return fmt.Errorf("failed to save result of %s: %w", result.FileName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// StoredResult is a paper result read back from the database.
type StoredResult struct {
	// ID is the unique identifier of the result in the database.
	ID int64

	// RunID is the check run the result belongs to.
	RunID string

	// Result is the stored paper result.
	Result *model.PaperResult
}

// LatestResults returns up to n results for a file name, newest first.
// A non-positive n returns the whole history.
func (rdb *ResultDB) LatestResults(ctx context.Context, fileName string, n int) ([]StoredResult, error) {
	query := `
	SELECT id, run_id, result_json FROM results
	WHERE file_name = ?
	ORDER BY id DESC
	`
	args := []any{fileName}
	if n > 0 {
		query += " LIMIT ?"
		args = append(args, n)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	results := make([]StoredResult, 0)
	for rows.Next() {
		var stored StoredResult
		var resultJSON string
		if err := rows.Scan(&stored.ID, &stored.RunID, &resultJSON); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		var result model.PaperResult
		if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
			return nil, fmt.Errorf("failed to parse result %d: %w", stored.ID, err)
		}
		stored.Result = &result
		results = append(results, stored)
	}

	return results, rows.Err()
}

// ListFiles returns the names of all files with stored results.
func (rdb *ResultDB) ListFiles(ctx context.Context) ([]string, error) {
	rows, err := rdb.db.QueryContext(ctx, `SELECT DISTINCT file_name FROM results ORDER BY file_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := make([]string, 0)
	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			return nil, fmt.Errorf("failed to scan file name: %w", err)
		}
		files = append(files, file)
	}

	return files, rows.Err()
}

// FindByFingerprint returns the file names whose stored text has the given
// fingerprint. It tells a resubmitted identical file apart from a revision.
func (rdb *ResultDB) FindByFingerprint(ctx context.Context, fingerprint string) ([]string, error) {
	rows, err := rdb.db.QueryContext(ctx,
		`SELECT DISTINCT file_name FROM results WHERE fingerprint = ? ORDER BY file_name`, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("failed to find fingerprint: %w", err)
	}
	defer rows.Close()

	files := make([]string, 0)
	for rows.Next() {
		var file string
		if err := rows.Scan(&file); err != nil {
			return nil, fmt.Errorf("failed to scan file name: %w", err)
		}
		files = append(files, file)
	}

	return files, rows.Err()
}
