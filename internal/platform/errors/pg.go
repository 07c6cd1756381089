package errors

import (
	stderrs "errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error translation; repos call FromPG so services only ever see
// project error codes

// pg error classes we care about
const (
	pgUniqueViolation  = "23505"
	pgSerialization    = "40001"
	pgDeadlockDetected = "40P01"
)

// FromPG maps a postgres driver error into a project error.
// nil stays nil; non-pg errors become ErrorCodeDB wraps.
func FromPG(err error) error {
	if err == nil {
		return nil
	}
	// already classified upstream (e.g. ErrNotFound from store helpers)
	var perr *Error
	if stderrs.As(err, &perr) {
		return err
	}
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Wrap(err, ErrorCodeDuplicateKey, "duplicate key")
		case pgSerialization, pgDeadlockDetected:
			return Wrap(err, ErrorCodeUnavailable, "transient database conflict")
		}
		return Wrapf(err, ErrorCodeDB, "postgres error %s", pgErr.Code)
	}
	return Wrap(err, ErrorCodeDB, "database error")
}

// IsRetryable reports whether err is a transient postgres failure
// (serialization conflict, deadlock, or connection class 08xxx)
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return false
	}
	if pgErr.Code == pgSerialization || pgErr.Code == pgDeadlockDetected {
		return true
	}
	return len(pgErr.Code) == 5 && pgErr.Code[:2] == "08"
}
