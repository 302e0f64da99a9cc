package historyrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS prediction_history (
		id         TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL,
		gi_band    TEXT NOT NULL,
		ppgi       DOUBLE PRECISION NOT NULL,
		payload    JSONB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_prediction_history_created_at ON prediction_history (created_at DESC);
`

// PostgresRepository persists prediction history using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the history table when missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return err
}

// Close releases the connection pool.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// Save upserts a record.
func (r *PostgresRepository) Save(ctx context.Context, record prediction.Record) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO prediction_history (id, created_at, gi_band, ppgi, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload
	`, record.ID, record.CreatedAt, string(record.Interpretation.GIBand), record.Interpretation.PPGI, payload)
	return err
}

// Get fetches by primary key.
func (r *PostgresRepository) Get(ctx context.Context, id string) (prediction.Record, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT payload
		FROM prediction_history
		WHERE id = $1
	`, id)
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return prediction.Record{}, false, nil
	}
	if err != nil {
		return prediction.Record{}, false, err
	}
	return record, true, nil
}

// Recent returns up to limit records, newest first.
func (r *PostgresRepository) Recent(ctx context.Context, limit int) ([]prediction.Record, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT payload
		FROM prediction_history
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []prediction.Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (prediction.Record, error) {
	var payload string
	if err := row.Scan(&payload); err != nil {
		return prediction.Record{}, err
	}
	return decodeRecord(payload)
}

var _ prediction.HistoryRepository = (*PostgresRepository)(nil)
