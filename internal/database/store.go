package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the journal operations.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveExchange inserts an exchange and sets its ID.
	SaveExchange(ctx context.Context, exchange *Exchange) error

	// CountExchanges returns the number of journaled exchanges.
	CountExchanges(ctx context.Context) (int64, error)

	// DeleteExchangesBefore removes exchanges created before cutoff.
	DeleteExchangesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// RunSQLMaintenance optimizes and compacts the database file.
	RunSQLMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a new Store backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
		now:    time.Now,
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveExchange(ctx context.Context, exchange *Exchange) error {
	if exchange == nil {
		return errors.New("cannot save nil exchange")
	}
	if exchange.ChannelID == 0 {
		return errors.New("exchange must have a non-zero channel_id")
	}
	if exchange.Outcome == "" {
		return errors.New("exchange must have an outcome")
	}
	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = s.now()
	}
	exchange.CreatedAt = exchange.CreatedAt.UTC()

	query := `
        INSERT INTO exchanges (created_at, channel_id, trigger_message_id, reply_message_id, author_id, prompt, reply, outcome, latency_ms)
        VALUES (:created_at, :channel_id, :trigger_message_id, :reply_message_id, :author_id, :prompt, :reply, :outcome, :latency_ms);
    `

	result, err := s.db.NamedExecContext(ctx, query, exchange)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving exchange", "channel_id", exchange.ChannelID, "error", err)
		return fmt.Errorf("failed to save exchange (channel %d): %w", exchange.ChannelID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		//nolint:gosec // ids are positive
		exchange.ID = uint(id)
	} else {
		s.logger.WarnContext(ctx, "Could not retrieve last insert ID after saving exchange", "error", err)
	}

	s.logger.DebugContext(ctx, "Exchange saved", "channel_id", exchange.ChannelID, "exchange_id", exchange.ID)
	return nil
}

func (s *sqlxStore) CountExchanges(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM exchanges;"); err != nil {
		return 0, fmt.Errorf("failed to count exchanges: %w", err)
	}
	return count, nil
}

func (s *sqlxStore) DeleteExchangesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM exchanges WHERE created_at < ?;", cutoff.UTC())
	if err != nil {
		s.logger.ErrorContext(ctx, "Error deleting old exchanges", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to delete exchanges before %s: %w", cutoff.Format(time.RFC3339), err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted exchange count: %w", err)
	}

	s.logger.InfoContext(ctx, "Deleted old exchanges", "cutoff", cutoff, "deleted", deleted)
	return deleted, nil
}

// RunSQLMaintenance runs PRAGMA optimize followed by VACUUM. VACUUM must run
// outside a transaction.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled or timed out before starting maintenance", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (optimize, VACUUM)...")

	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize;"); err != nil {
		s.logger.WarnContext(ctx, "PRAGMA optimize failed", "error", err)
	}

	_, err := s.db.ExecContext(ctx, "VACUUM;")
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)
	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance completed successfully")
	return nil
}
