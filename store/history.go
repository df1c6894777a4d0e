// Package store persists a history of QR generations in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Generation is one recorded QR generation.
type Generation struct {
	ID         string `json:"id"`
	Payload    string `json:"payload"`
	Level      string `json:"level"`
	Format     string `json:"format"`
	SVGMethod  string `json:"svg_method,omitempty"`
	BoxSize    int    `json:"box_size"`
	Border     int    `json:"border"`
	Side       int    `json:"side"`
	OutputPath string `json:"output_path,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}

// HistoryStore manages SQLite storage for generation records.
type HistoryStore struct {
	db *sql.DB
}

const createGenerationsTable = `
CREATE TABLE IF NOT EXISTS generations (
    id TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    level TEXT NOT NULL,
    format TEXT NOT NULL,
    svg_method TEXT NOT NULL DEFAULT '',
    box_size INTEGER NOT NULL,
    border INTEGER NOT NULL,
    side INTEGER NOT NULL,
    output_path TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations(created_at);
`

// NewHistoryStore opens (or creates) the SQLite database at dbPath,
// initialises the schema, and returns a ready-to-use HistoryStore.
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range []string{createGenerationsTable, createIndexes} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return &HistoryStore{db: db}, nil
}

// Add inserts a generation record. A missing ID or timestamp is filled in.
func (s *HistoryStore) Add(g *Generation) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt == 0 {
		g.CreatedAt = time.Now().Unix()
	}

	const query = `
		INSERT INTO generations
			(id, payload, level, format, svg_method, box_size, border, side, output_path, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		g.ID, g.Payload, g.Level, g.Format, g.SVGMethod,
		g.BoxSize, g.Border, g.Side, g.OutputPath, g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *HistoryStore) Recent(limit int) ([]Generation, error) {
	const query = `
		SELECT id, payload, level, format, svg_method, box_size, border, side, output_path, created_at
		FROM generations
		ORDER BY created_at DESC, id
		LIMIT ?
	`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()
	return scanGenerations(rows)
}

// Search returns up to limit records whose payload contains substr,
// newest first.
func (s *HistoryStore) Search(substr string, limit int) ([]Generation, error) {
	const query = `
		SELECT id, payload, level, format, svg_method, box_size, border, side, output_path, created_at
		FROM generations
		WHERE payload LIKE ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`
	rows, err := s.db.Query(query, "%"+substr+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search generations: %w", err)
	}
	defer rows.Close()
	return scanGenerations(rows)
}

// Prune deletes everything but the keep most recent records.
func (s *HistoryStore) Prune(keep int) error {
	const query = `
		DELETE FROM generations WHERE id NOT IN (
			SELECT id FROM generations ORDER BY created_at DESC, id LIMIT ?
		)
	`
	if _, err := s.db.Exec(query, keep); err != nil {
		return fmt.Errorf("prune generations: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func scanGenerations(rows *sql.Rows) ([]Generation, error) {
	var out []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(
			&g.ID, &g.Payload, &g.Level, &g.Format, &g.SVGMethod,
			&g.BoxSize, &g.Border, &g.Side, &g.OutputPath, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
