package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rassist/rassist-mcp/pkg/types"
)

var (
	// ErrNotFound is returned when a requested record doesn't exist
	ErrNotFound = errors.New("not found")
)

// Record is one assistant interaction: which tool ran, over which span
// of which file, and what the model answered.
type Record struct {
	ID               string
	Tool             string
	FilePath         string
	Span             types.Span
	FunctionName     string
	PromptHash       string
	Response         string
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	CreatedAt        time.Time
}

// Stats summarizes the stored history.
type Stats struct {
	Records   int64
	Oldest    time.Time
	Newest    time.Time
	ByTool    map[string]int64
	SizeBytes int64
}

// Store persists interaction records in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Open creates or opens a history store at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save inserts a record, assigning ID and CreatedAt when unset.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO interactions (
			id, tool, file_path, span_start, span_end, function_name,
			prompt_hash, response, provider, model,
			prompt_tokens, completion_tokens, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Tool, rec.FilePath, rec.Span.Start, rec.Span.End,
		rec.FunctionName, rec.PromptHash, rec.Response, rec.Provider,
		rec.Model, rec.PromptTokens, rec.CompletionTokens, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

const recordColumns = `id, tool, file_path, span_start, span_end, function_name,
	prompt_hash, response, provider, model, prompt_tokens, completion_tokens, created_at`

func scanRecord(row interface{ Scan(...interface{}) error }) (*Record, error) {
	rec := &Record{}
	err := row.Scan(
		&rec.ID, &rec.Tool, &rec.FilePath, &rec.Span.Start, &rec.Span.End,
		&rec.FunctionName, &rec.PromptHash, &rec.Response, &rec.Provider,
		&rec.Model, &rec.PromptTokens, &rec.CompletionTokens, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Get retrieves a record by ID.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM interactions WHERE id = ?`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Record, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + recordColumns + ` FROM interactions ORDER BY created_at DESC, id LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Prune deletes records older than the given age and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.db.ExecContext(ctx, `DELETE FROM interactions WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune records: %w", err)
	}
	return result.RowsAffected()
}

// GetStats summarizes the store contents.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByTool: make(map[string]int64)}

	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(MIN(created_at), ''),
		       COALESCE(MAX(created_at), '')
		FROM interactions`)

	var oldest, newest string
	if err := row.Scan(&stats.Records, &oldest, &newest); err != nil {
		return nil, fmt.Errorf("failed to read stats: %w", err)
	}
	if oldest != "" {
		stats.Oldest, _ = parseDBTime(oldest)
	}
	if newest != "" {
		stats.Newest, _ = parseDBTime(newest)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT tool, COUNT(*) FROM interactions GROUP BY tool`)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool stats: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var tool string
		var count int64
		if err := rows.Scan(&tool, &count); err != nil {
			return nil, err
		}
		stats.ByTool[tool] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// page_count * page_size is accurate enough for a status display.
	var pages, pageSize int64
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pages); err == nil {
		if err := s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize); err == nil {
			stats.SizeBytes = pages * pageSize
		}
	}

	return stats, nil
}

// parseDBTime parses the timestamp formats the two drivers hand back.
func parseDBTime(v string) (time.Time, error) {
	for _, layout := range []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
	} {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
}
