package historyrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS prediction_history (
		id         TEXT PRIMARY KEY,
		created_at INTEGER NOT NULL,
		gi_band    TEXT NOT NULL,
		ppgi       REAL NOT NULL,
		payload    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_prediction_history_created_at ON prediction_history(created_at);
`

// SQLiteRepository persists prediction history in a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at path and creates the schema.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return &SQLiteRepository{db: db}, nil
}

// Close releases the database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Save upserts a record.
func (r *SQLiteRepository) Save(ctx context.Context, record prediction.Record) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO prediction_history (id, created_at, gi_band, ppgi, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload
	`, record.ID, record.CreatedAt.UnixNano(), string(record.Interpretation.GIBand), record.Interpretation.PPGI, payload)
	return err
}

// Get fetches by primary key.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (prediction.Record, bool, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM prediction_history WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return prediction.Record{}, false, nil
	}
	if err != nil {
		return prediction.Record{}, false, err
	}
	record, err := decodeRecord(payload)
	if err != nil {
		return prediction.Record{}, false, err
	}
	return record, true, nil
}

// Recent returns up to limit records, newest first.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]prediction.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload FROM prediction_history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []prediction.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		record, err := decodeRecord(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

var _ prediction.HistoryRepository = (*SQLiteRepository)(nil)
