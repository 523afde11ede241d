package memory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/easeaico/kb-chatbot/internal/knowledge"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
// The whole snapshot lives in one table ordered by position; Save replaces
// it in a single transaction.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLiteStore connected to the given database path.
// The path should be a file path (e.g., "./knowledge.db") or ":memory:" for an in-memory database.
// It opens the database connection and verifies connectivity with a ping.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database, and a single
	// writer is all the snapshot needs.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// InitSchema creates the necessary tables if they don't exist.
func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS knowledge_entries (
			position INTEGER PRIMARY KEY,
			intent TEXT NOT NULL,
			entity TEXT NOT NULL,
			answer TEXT NOT NULL
		);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Load reads every stored pair in position order and merges it into kb.
func (s *SQLiteStore) Load(ctx context.Context, kb *knowledge.Base) (int, error) {
	query := `
		SELECT position, intent, entity, answer
		FROM knowledge_entries
		ORDER BY position
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to query knowledge: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Position, &r.Intent, &r.Entity, &r.Answer); err != nil {
			return 0, fmt.Errorf("failed to scan entry: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating entries: %w", err)
	}

	return apply(kb, records), nil
}

// Save replaces the stored snapshot with the contents of kb.
func (s *SQLiteStore) Save(ctx context.Context, kb *knowledge.Base) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM knowledge_entries`); err != nil {
		return fmt.Errorf("failed to clear knowledge: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO knowledge_entries (position, intent, entity, answer)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range recordsOf(kb) {
		if _, err := stmt.ExecContext(ctx, r.Position, r.Intent, r.Entity, r.Answer); err != nil {
			return fmt.Errorf("failed to save entry %s/%s: %w", r.Intent, r.Entity, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit knowledge: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
