package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTier is the durable tier, backed by a single keyed table.
type PostgresTier struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a pgx pool and verifies the connection.
func ConnectPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// NewPostgresTier wraps an existing pool.
func NewPostgresTier(pool *pgxpool.Pool) *PostgresTier {
	return &PostgresTier{pool: pool}
}

// EnsureSchema creates the cache table if it does not exist.
func (p *PostgresTier) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS parsed_candidates (
			id          TEXT PRIMARY KEY,
			fingerprint TEXT NOT NULL,
			payload     BYTEA NOT NULL,
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create cache table: %w", err)
	}
	return nil
}

// Name identifies the tier in logs.
func (p *PostgresTier) Name() string { return "postgres" }

// Get fetches the stored entry for the id, or (nil, nil) when absent.
func (p *PostgresTier) Get(ctx context.Context, id string) (*Entry, error) {
	var entry Entry
	err := p.pool.QueryRow(ctx,
		`SELECT fingerprint, payload, updated_at FROM parsed_candidates WHERE id = $1`,
		id,
	).Scan(&entry.Fingerprint, &entry.Payload, &entry.StoredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return &entry, nil
}

// Put upserts the entry for the id.
func (p *PostgresTier) Put(ctx context.Context, id string, entry *Entry) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO parsed_candidates (id, fingerprint, payload, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET fingerprint = $2, payload = $3, updated_at = $4`,
		id, entry.Fingerprint, entry.Payload, entry.StoredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to put cache entry: %w", err)
	}
	return nil
}
