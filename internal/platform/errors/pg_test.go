package errors

import (
	stderrs "errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pg(code string) *pgconn.PgError {
	return &pgconn.PgError{Code: code}
}

func TestFromPG_NilPassthrough(t *testing.T) {
	if FromPG(nil) != nil {
		t.Fatal("FromPG(nil) should be nil")
	}
}

func TestFromPG_AlreadyClassified(t *testing.T) {
	// errors that already carry a project code pass through unchanged
	if got := FromPG(ErrNotFound); got != ErrNotFound {
		t.Fatalf("FromPG reclassified ErrNotFound: %v", got)
	}
	orig := NotAvailablef("taken")
	if got := FromPG(orig); got != orig {
		t.Fatalf("FromPG reclassified a project error: %v", got)
	}
}

func TestFromPG_CodeMappings(t *testing.T) {
	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey}, // unique violation
		{"40001", ErrorCodeUnavailable},  // serialization failure
		{"40P01", ErrorCodeUnavailable},  // deadlock
		{"42P01", ErrorCodeDB},           // undefined table -> default branch
	}
	for _, c := range cases {
		got := FromPG(pg(c.code))
		if CodeOf(got) != c.want {
			t.Fatalf("FromPG(%s) code = %v, want %v", c.code, CodeOf(got), c.want)
		}
	}
}

func TestFromPG_NonPGError(t *testing.T) {
	err := FromPG(stderrs.New("socket closed"))
	if CodeOf(err) != ErrorCodeDB {
		t.Fatalf("non-pg error code = %v, want DB", CodeOf(err))
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(pg("40001")) {
		t.Fatal("serialization failure should be retryable")
	}
	if !IsRetryable(pg("40P01")) {
		t.Fatal("deadlock should be retryable")
	}
	if !IsRetryable(pg("08006")) {
		t.Fatal("connection failure class should be retryable")
	}
	if IsRetryable(pg("23505")) {
		t.Fatal("unique violation is not retryable")
	}
	if IsRetryable(stderrs.New("nope")) {
		t.Fatal("non-pg errors are not retryable")
	}
}
