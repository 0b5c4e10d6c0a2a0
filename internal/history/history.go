package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maltedev/amazon-product-api/internal/models"
)

// Entry is one journaled scrape outcome. The journal is write-only from the
// service's point of view; it never serves cached product data.
type Entry struct {
	ID        string
	ASIN      string
	Success   bool
	ErrorCode models.ErrorCode
	Duration  time.Duration
}

// Store journals scrape outcomes to Postgres for operational auditing.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func New(ctx context.Context, databaseURL string, logger *slog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{
		pool:   pool,
		logger: logger.With("component", "history"),
	}

	if err := store.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scrape_history (
			id          UUID PRIMARY KEY,
			asin        TEXT NOT NULL,
			success     BOOLEAN NOT NULL,
			error_code  TEXT,
			duration_ms BIGINT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create scrape_history table: %w", err)
	}
	return nil
}

// Record inserts one outcome. Called on the request path with a short
// deadline; failures are logged and swallowed so journaling can never fail a
// scrape.
func (s *Store) Record(ctx context.Context, entry Entry) {
	if s == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO scrape_history (id, asin, success, error_code, duration_ms)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5)`,
		entry.ID, entry.ASIN, entry.Success, string(entry.ErrorCode),
		entry.Duration.Milliseconds(),
	)
	if err != nil {
		s.logger.Warn("failed to record scrape outcome", "asin", entry.ASIN, "error", err)
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}
