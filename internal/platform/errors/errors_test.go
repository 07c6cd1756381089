package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeCommitmentNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeInvalidDuration, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeNotAvailable, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeCommitmentTooNew, http.StatusTooEarly},
		{ErrorCodeCommitmentTooOld, http.StatusGone},
		{ErrorCodeInsufficientPayment, http.StatusPaymentRequired},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestCodeOfAndIsCode(t *testing.T) {
	err := CommitmentTooNewf("wait %ds more", 30)
	if CodeOf(err) != ErrorCodeCommitmentTooNew {
		t.Fatalf("CodeOf = %v", CodeOf(err))
	}
	if !IsCode(err, ErrorCodeCommitmentTooNew) {
		t.Fatal("IsCode should match")
	}
	if IsCode(err, ErrorCodeCommitmentTooOld) {
		t.Fatal("IsCode should not match a different code")
	}

	// wrapped causes keep the outermost classification
	outer := Wrap(err, ErrorCodeDB, "storage sneeze")
	if CodeOf(outer) != ErrorCodeDB {
		t.Fatalf("outer CodeOf = %v, want DB", CodeOf(outer))
	}

	// plain errors classify as unknown
	if CodeOf(stderrs.New("plain")) != ErrorCodeUnknown {
		t.Fatal("plain errors should be unknown")
	}
	if CodeOf(nil) != ErrorCodeUnknown {
		t.Fatal("nil should be unknown")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrs.New("disk on fire")
	err := Wrap(cause, ErrorCodeDB, "save registration")
	if !stderrs.Is(err, cause) {
		t.Fatal("wrapped cause should survive errors.Is")
	}
	if Root(err) != cause {
		t.Fatalf("Root = %v, want the original cause", Root(err))
	}
}

func TestWithFieldAndWire(t *testing.T) {
	err := WithField(Newf(ErrorCodeValidation, "must be a base-unit amount"), "payment")
	e, ok := As(err)
	if !ok {
		t.Fatal("expected a project error")
	}
	if e.Field() != "payment" {
		t.Fatalf("Field = %q", e.Field())
	}
	w := WireFrom(err)
	if w.Code != ErrorCodeValidation || w.Field != "payment" {
		t.Fatalf("WireFrom = %+v", w)
	}
}

func TestWireFromPlainError(t *testing.T) {
	w := WireFrom(stderrs.New("boom"))
	if w.Code != ErrorCodeUnknown || w.Message == "" {
		t.Fatalf("WireFrom plain = %+v", w)
	}
}

func TestProtocolSugarConstructors(t *testing.T) {
	cases := []struct {
		err  error
		want ErrorCode
	}{
		{NotAvailablef("taken until %s", "2027-06-01"), ErrorCodeNotAvailable},
		{InvalidDurationf("below minimum"), ErrorCodeInvalidDuration},
		{CommitmentTooNewf("too new"), ErrorCodeCommitmentTooNew},
		{CommitmentTooOldf("too old"), ErrorCodeCommitmentTooOld},
		{CommitmentNotFoundf("no such commitment"), ErrorCodeCommitmentNotFound},
		{InsufficientPaymentf("need %s", "500"), ErrorCodeInsufficientPayment},
	}
	for _, c := range cases {
		if CodeOf(c.err) != c.want {
			t.Fatalf("CodeOf(%v) = %v, want %v", c.err, CodeOf(c.err), c.want)
		}
	}
}
