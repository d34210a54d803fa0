package circuitbreaker

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// DatabaseWrapper guards a sqlx database handle with a circuit breaker.
type DatabaseWrapper struct {
	db *sqlx.DB
	cb *Breaker
}

// NewDatabaseWrapper wraps db with a breaker named "postgres".
func NewDatabaseWrapper(db *sqlx.DB, logger *zap.Logger) *DatabaseWrapper {
	return &DatabaseWrapper{
		db: db,
		cb: New("postgres", DefaultConfig(), logger),
	}
}

// PingContext wraps Ping.
func (dw *DatabaseWrapper) PingContext(ctx context.Context) error {
	return dw.cb.Execute(ctx, func() error {
		return dw.db.PingContext(ctx)
	})
}

// ExecContext wraps Exec.
func (dw *DatabaseWrapper) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	var res sql.Result
	err := dw.cb.Execute(ctx, func() error {
		var execErr error
		res, execErr = dw.db.ExecContext(ctx, query, args...)
		return execErr
	})
	return res, err
}

// GetContext wraps sqlx Get (single-row struct scan). sql.ErrNoRows does not
// count as a breaker failure.
func (dw *DatabaseWrapper) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	var scanErr error
	err := dw.cb.Execute(ctx, func() error {
		scanErr = dw.db.GetContext(ctx, dest, query, args...)
		if scanErr == sql.ErrNoRows {
			return nil
		}
		return scanErr
	})
	if err != nil {
		return err
	}
	return scanErr
}

// SelectContext wraps sqlx Select (multi-row struct scan).
func (dw *DatabaseWrapper) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return dw.cb.Execute(ctx, func() error {
		return dw.db.SelectContext(ctx, dest, query, args...)
	})
}

// BeginTxx wraps transaction start.
func (dw *DatabaseWrapper) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	var tx *sqlx.Tx
	err := dw.cb.Execute(ctx, func() error {
		var txErr error
		tx, txErr = dw.db.BeginTxx(ctx, opts)
		return txErr
	})
	return tx, err
}

// DB returns the underlying handle for callers that need raw access.
func (dw *DatabaseWrapper) DB() *sqlx.DB { return dw.db }

// State exposes the breaker state for health checks.
func (dw *DatabaseWrapper) State() State { return dw.cb.State() }

// Close closes the underlying handle.
func (dw *DatabaseWrapper) Close() error { return dw.db.Close() }
