package pricing

import (
	"math/big"
	"testing"
)

func rates(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestNewOracleRejectsEmptyTable(t *testing.T) {
	t.Parallel()

	if _, err := NewOracle(nil); err == nil {
		t.Fatal("expected error for empty table")
	}
	if _, err := NewOracle(rates()); err == nil {
		t.Fatal("expected error for zero-length table")
	}
}

func TestPriceByLength(t *testing.T) {
	t.Parallel()

	// 1-char 100/s, 2-char 50/s, 3-char 20/s, floor 5/s
	o, err := NewOracle(rates(100, 50, 20, 5))
	if err != nil {
		t.Fatalf("NewOracle: %v", err)
	}

	cases := []struct {
		label   string
		seconds int64
		want    int64
	}{
		{"a", 10, 1000},
		{"ab", 10, 500},
		{"abc", 10, 200},
		{"abcd", 10, 50},          // exact floor index
		{"abcdefgh", 10, 50},      // beyond table hits floor
		{"monadns", 31556926, 5 * 31556926},
		{"abc", 0, 0},
	}

	for _, c := range cases {
		got := o.Price(c.label, c.seconds)
		if got.Cmp(big.NewInt(c.want)) != 0 {
			t.Errorf("Price(%q,%d)=%s want %d", c.label, c.seconds, got, c.want)
		}
	}
}

func TestSetRatesReplacesTable(t *testing.T) {
	t.Parallel()

	o, err := NewOracle(rates(10))
	if err != nil {
		t.Fatalf("NewOracle: %v", err)
	}

	if err := o.SetRates(rates(7, 3)); err != nil {
		t.Fatalf("SetRates: %v", err)
	}
	if got := o.Price("x", 2); got.Cmp(big.NewInt(14)) != 0 {
		t.Fatalf("Price after SetRates=%s want 14", got)
	}

	// invalid replacements leave the table untouched
	if err := o.SetRates(nil); err == nil {
		t.Fatal("expected error for empty replacement")
	}
	if err := o.SetRates([]*big.Int{big.NewInt(-1)}); err == nil {
		t.Fatal("expected error for negative rate")
	}
	if got := o.Price("x", 2); got.Cmp(big.NewInt(14)) != 0 {
		t.Fatalf("table mutated by rejected SetRates: %s", got)
	}
}

func TestPriceDoesNotAliasTable(t *testing.T) {
	t.Parallel()

	in := rates(10)
	o, err := NewOracle(in)
	if err != nil {
		t.Fatalf("NewOracle: %v", err)
	}

	// mutating the caller's slice must not change oracle state
	in[0].SetInt64(999)
	if got := o.Price("x", 1); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("oracle aliased caller rates: %s", got)
	}

	// mutating a returned price must not corrupt the table
	p := o.Price("x", 1)
	p.SetInt64(0)
	if got := o.Price("x", 1); got.Cmp(big.NewInt(10)) != 0 {
		t.Fatalf("price result aliased table: %s", got)
	}
}
