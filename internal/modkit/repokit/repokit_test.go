package repokit

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"monreg/internal/platform/store"
	"monreg/internal/platform/testkit"
)

// fakeQ is a minimal Queryer used only by this file
type fakeQ struct {
	execCalls int
	lastSQL   string
	lastArgs  []any
}

func (f *fakeQ) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.execCalls++
	f.lastSQL = sql
	f.lastArgs = append([]any(nil), args...)
	var zero store.CommandTag
	return zero, nil
}

func (f *fakeQ) Query(ctx context.Context, sql string, args ...any) (store.Rows, error) {
	f.lastSQL = sql
	var zero store.Rows
	return zero, nil
}

func (f *fakeQ) QueryRow(ctx context.Context, sql string, args ...any) store.Row {
	f.lastSQL = sql
	var zero store.Row
	return zero
}

var _ Queryer = (*fakeQ)(nil)

// fakeTxRunner binds every Tx callback to its fakeQ
type fakeTxRunner struct {
	q       *fakeQ
	txCalls int
}

func (f *fakeTxRunner) Tx(ctx context.Context, fn func(q Queryer) error) error {
	f.txCalls++
	return fn(f.q)
}

func (f *fakeTxRunner) Exec(ctx context.Context, sql string, args ...any) (store.CommandTag, error) {
	return f.q.Exec(ctx, sql, args...)
}

func (f *fakeTxRunner) Query(ctx context.Context, sql string, args ...any) (store.Rows, error) {
	return f.q.Query(ctx, sql, args...)
}

func (f *fakeTxRunner) QueryRow(ctx context.Context, sql string, args ...any) store.Row {
	return f.q.QueryRow(ctx, sql, args...)
}

func TestBindFunc_BindCallsFunc(t *testing.T) {
	t.Parallel()

	var q Queryer // nil is fine; BindFunc doesn't use it
	b := BindFunc[string](func(_ Queryer) string { return "ok" })

	if got := b.Bind(q); got != "ok" {
		t.Fatalf("BindFunc.Bind = %q, want %q", got, "ok")
	}
}

func TestRequireQueryer_PanicsOnNil(t *testing.T) {
	var q Queryer // nil interface
	testkit.MustPanic(t, func() { _ = RequireQueryer(q) })
}

func TestMustBind_PanicsOnNilQueryer(t *testing.T) {
	var q Queryer
	b := BindFunc[int](func(_ Queryer) int { return 42 })
	testkit.MustPanic(t, func() { _ = MustBind[int](b, q) })
}

func TestRequireQueryer_ReturnsSame(t *testing.T) {
	t.Parallel()

	var in Queryer = &fakeQ{}
	out := RequireQueryer(in)
	if out != in {
		t.Fatalf("RequireQueryer did not return the same instance")
	}
}

func TestWithTx_DelegatesToRunner(t *testing.T) {
	t.Parallel()

	inner := &fakeTxRunner{q: &fakeQ{}}
	var ran bool
	if err := WithTx(context.Background(), inner, func(q Queryer) error {
		ran = true
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ran || inner.txCalls != 1 {
		t.Fatalf("WithTx did not run fn inside a tx")
	}
}

func TestWithBeginHooks_TxRunsHooksInOrderAndThenFn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	q := &fakeQ{}
	inner := &fakeTxRunner{q: q}

	var seq []string
	h1 := func(ctx context.Context, gotQ Queryer) error {
		if gotQ != Queryer(q) {
			t.Fatalf("hook received different Queryer instance")
		}
		seq = append(seq, "hook1")
		return nil
	}
	h2 := func(ctx context.Context, _ Queryer) error {
		seq = append(seq, "hook2")
		return nil
	}

	runner := WithBeginHooks(inner, h1, h2)
	err := runner.Tx(ctx, func(_ Queryer) error {
		seq = append(seq, "fn")
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantSeq := []string{"hook1", "hook2", "fn"}
	if !reflect.DeepEqual(seq, wantSeq) {
		t.Fatalf("sequence mismatch want=%v got=%v", wantSeq, seq)
	}
	if inner.txCalls != 1 {
		t.Fatalf("inner Tx should be called once")
	}
}

func TestWithBeginHooks_HookErrorShortCircuitsBeforeFn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner := &fakeTxRunner{q: &fakeQ{}}

	testErr := errors.New("boom")
	var fnRan bool

	h1 := func(ctx context.Context, _ Queryer) error { return testErr }
	h2 := func(ctx context.Context, _ Queryer) error {
		t.Fatalf("second hook should not run when first fails")
		return nil
	}

	r := WithBeginHooks(inner, h1, h2)
	err := r.Tx(ctx, func(_ Queryer) error { fnRan = true; return nil })

	if !errors.Is(err, testErr) {
		t.Fatalf("expected error to propagate from hook got=%v", err)
	}
	if fnRan {
		t.Fatalf("fn should not have run when hook fails")
	}
}

func TestWithBeginHooks_DelegatesExec(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	q := &fakeQ{}
	inner := &fakeTxRunner{q: q}
	r := WithBeginHooks(inner) // no hooks needed to test delegation

	if _, err := r.Exec(ctx, "UPDATE x SET a=$1", 7); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
	if q.execCalls != 1 || q.lastSQL != "UPDATE x SET a=$1" || !reflect.DeepEqual(q.lastArgs, []any{7}) {
		t.Fatalf("Exec did not delegate correctly")
	}
}
