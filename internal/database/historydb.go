package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/fnmetrics/internal/model"
)

// FileName is the name of the history database inside the data directory.
const FileName = "fnmetrics.db"

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNilExtraction is returned when SaveExtraction is called without an extraction.
var ErrNilExtraction = errors.New("extraction is nil")

// HistoryDB stores extraction runs in SQLite.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Run is the metadata of one saved extraction.
type Run struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source"`
	SHA256      string    `json:"sha256"`
	Encoding    string    `json:"encoding"`
	Timestamp   time.Time `json:"timestamp"`
	RecordCount int       `json:"record_count"`
}

// Open opens or creates the history database inside dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run with --save first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		sha256 TEXT,
		encoding TEXT,
		timestamp DATETIME NOT NULL,
		record_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp);

	-- seq keeps document order within a run
	CREATE TABLE IF NOT EXISTS records (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		file TEXT NOT NULL,
		function TEXT NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY(run_id, seq)
	);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveExtraction stores the extraction and its records in one transaction
// and returns the new run ID.
func (hdb *HistoryDB) SaveExtraction(ctx context.Context, e *model.Extraction) (int64, error) {
	if e == nil {
		return 0, ErrNilExtraction
	}

	ts := e.FinishedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (source, sha256, encoding, timestamp, record_count)
	VALUES (?, ?, ?, ?, ?)
	`, e.Source, e.SHA256, e.Encoding, ts.UTC().Format(timestampLayout), e.Len())
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO records (run_id, seq, file, function, value)
	VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range e.Records {
		if _, err := stmt.ExecContext(ctx, runID, i, r.File, r.Function, r.Value); err != nil {
			return 0, fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// ListRuns returns run metadata, newest first.
// An empty source lists the runs of every report.
func (hdb *HistoryDB) ListRuns(ctx context.Context, source string) ([]Run, error) {
	return hdb.queryRuns(ctx, source, -1)
}

// LatestRuns returns at most n runs of source, newest first.
func (hdb *HistoryDB) LatestRuns(ctx context.Context, source string, n int) ([]Run, error) {
	if n <= 0 {
		return []Run{}, nil
	}
	return hdb.queryRuns(ctx, source, n)
}

// queryRuns lists runs filtered by source. A negative limit means no limit.
func (hdb *HistoryDB) queryRuns(ctx context.Context, source string, limit int) ([]Run, error) {
	query := `
	SELECT id, source, sha256, encoding, timestamp, record_count
	FROM runs
	`
	args := []any{}

	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}

	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetRun returns a run and its records in document order.
// It returns nil, nil, nil when no run has the given ID.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*Run, []model.Record, error) {
	row := hdb.db.QueryRowContext(ctx, `
	SELECT id, source, sha256, encoding, timestamp, record_count
	FROM runs
	WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := hdb.db.QueryContext(ctx, `
	SELECT file, function, value
	FROM records
	WHERE run_id = ?
	ORDER BY seq
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()

	records := make([]model.Record, 0, run.RecordCount)
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.File, &r.Function, &r.Value); err != nil {
			return nil, nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read records: %w", err)
	}

	return run, records, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var sha, enc sql.NullString
	var timestamp string

	if err := row.Scan(&run.ID, &run.Source, &sha, &enc, &timestamp, &run.RecordCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	run.SHA256 = sha.String
	run.Encoding = enc.String
	run.Timestamp = parseTimestamp(timestamp)

	return &run, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp parses a stored timestamp, returning zero time when no
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
