package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells the retry loop in [DB] what to do with a failed
// statement.
type ErrorClassification int

const (
	// NonRetryable errors are returned to the caller as is. Unknown errors
	// fall here.
	NonRetryable ErrorClassification = iota

	// Retryable errors may go away on their own: lost connections,
	// serialization failures, deadlocks.
	Retryable
)

// retryablePgCodes lists the SQLSTATE codes worth another attempt: class 08
// connection exceptions, class 40 transaction rollbacks and 57P03.
// https://www.postgresql.org/docs/current/errcodes-appendix.html
var retryablePgCodes = map[string]struct{}{
	pgerrcode.ConnectionException:    {},
	pgerrcode.ConnectionDoesNotExist: {},
	pgerrcode.ConnectionFailure:      {},
	pgerrcode.TransactionRollback:    {},
	pgerrcode.SerializationFailure:   {},
	pgerrcode.DeadlockDetected:       {},
	pgerrcode.CannotConnectNow:       {},
}

// PostgresErrorClassifier implements [ErrorClassificator] for errors coming
// from the pgx driver.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	if err == nil {
		return NonRetryable
	}

	if code, ok := pgCode(err); ok {
		if _, retry := retryablePgCodes[code]; retry {
			return Retryable
		}
		return NonRetryable
	}

	return classifyConnectionError(err)
}

func (c *PostgresErrorClassifier) IsUniqueViolation(err error) bool {
	code, ok := pgCode(err)
	return ok && code == pgerrcode.UniqueViolation
}

func pgCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	return pgErr.Code, true
}

// classifyConnectionError retries broken connections and network failures
// but never a canceled or expired context.
func classifyConnectionError(err error) ErrorClassification {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NonRetryable
	case errors.Is(err, driver.ErrBadConn):
		return Retryable
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Retryable
	}
	return NonRetryable
}
