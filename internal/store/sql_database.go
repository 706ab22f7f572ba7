package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/MKhiriev/go-vault-sync/migrations"
	"github.com/cenkalti/backoff/v5"
)

const (
	retryInitialInterval = 50 * time.Millisecond
	retryMaxInterval     = time.Second
)

// DB wraps a *sql.DB with everything the SQL repositories share: the
// dialect-aware query builder, the driver error classifier, the retry policy
// and the clock used to stamp created_at, updated_at and deleted_at.
type DB struct {
	*sql.DB
	driver             string
	builder            sq.StatementBuilderType
	errorClassificator ErrorClassificator
	maxTries           uint
	newBackOff         func() backoff.BackOff
	now                func() time.Time
	logger             *logger.Logger
}

func newDB(conn *sql.DB, driver string, placeholder sq.PlaceholderFormat, classifier ErrorClassificator, maxRetries int, log *logger.Logger) *DB {
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &DB{
		DB:                 conn,
		driver:             driver,
		builder:            sq.StatementBuilder.PlaceholderFormat(placeholder),
		errorClassificator: classifier,
		maxTries:           uint(maxRetries),
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = retryInitialInterval
			b.MaxInterval = retryMaxInterval
			return b
		},
		now:    utcNow,
		logger: log,
	}
}

// Migrate applies the embedded migrations of the connection's dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.driver)
}

// withRetry runs op until it succeeds, fails with a non-retryable error or
// the attempts run out. A retryable error that survives every attempt is
// reported as [ErrStorageUnavailable].
func (db *DB) withRetry(ctx context.Context, op func() error) error {
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		opErr := op()
		if opErr == nil {
			return struct{}{}, nil
		}
		if db.errorClassificator.Classify(opErr) == NonRetryable {
			return struct{}{}, backoff.Permanent(opErr)
		}
		return struct{}{}, opErr
	}, backoff.WithBackOff(db.newBackOff()), backoff.WithMaxTries(db.maxTries))
	if err == nil {
		return nil
	}

	if db.errorClassificator.Classify(err) == Retryable {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return err
}

// utcNow is the store clock. Timestamps are truncated to microseconds so they
// survive a round trip through PostgreSQL unchanged.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
