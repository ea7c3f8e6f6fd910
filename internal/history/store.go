package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record appends one outcome row, filling in the entry's ID and CreatedAt.
func (s *Store) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return errors.New("entry is nil")
	}
	entry.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO conversions (
            run_id, activity_id, activity_type, activity_date,
            source_file, output_file, outcome, detail, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID,
		entry.ActivityID,
		entry.ActivityType,
		entry.ActivityDate.UTC().Format(time.RFC3339),
		nullableString(entry.SourceFile),
		nullableString(entry.OutputFile),
		string(entry.Outcome),
		nullableString(entry.Detail),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	entry.ID = id
	return nil
}

// Recent returns the newest ledger rows, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, run_id, activity_id, activity_type, activity_date,
                source_file, output_file, outcome, detail, created_at
         FROM conversions ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent conversions: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// LastOutcome returns the most recent ledger row for an activity, or nil if
// the activity has never been dispatched.
func (s *Store) LastOutcome(ctx context.Context, activityID string) (*Entry, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, run_id, activity_id, activity_type, activity_date,
                source_file, output_file, outcome, detail, created_at
         FROM conversions WHERE activity_id = ? ORDER BY id DESC LIMIT 1`,
		activityID,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query last outcome: %w", err)
	}
	return entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		entry      Entry
		date       string
		sourceFile sql.NullString
		outputFile sql.NullString
		detail     sql.NullString
		outcome    string
		createdAt  string
	)
	if err := row.Scan(
		&entry.ID,
		&entry.RunID,
		&entry.ActivityID,
		&entry.ActivityType,
		&date,
		&sourceFile,
		&outputFile,
		&outcome,
		&detail,
		&createdAt,
	); err != nil {
		return nil, err
	}

	entry.SourceFile = sourceFile.String
	entry.OutputFile = outputFile.String
	entry.Detail = detail.String
	entry.Outcome = Outcome(outcome)

	if parsed, err := time.Parse(time.RFC3339, date); err == nil {
		entry.ActivityDate = parsed
	}
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		entry.CreatedAt = parsed
	}
	return &entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
