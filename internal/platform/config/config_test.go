package config

import (
	"testing"
	"time"

	kit "monreg/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	root := New()
	api := root.Prefix("REGISTRAR_API_")
	if got := api.key("PORT"); got != "REGISTRAR_API_PORT" {
		t.Fatalf("key() = %q, want %q", got, "REGISTRAR_API_PORT")
	}
	// nested prefix
	apiLog := api.Prefix("LOG_")
	if got := apiLog.key("LEVEL"); got != "REGISTRAR_API_LOG_LEVEL" {
		t.Fatalf("nested key() = %q, want %q", got, "REGISTRAR_API_LOG_LEVEL")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  monreg ")
	if got := c.MustString("NAME"); got != "monreg" {
		t.Fatalf("MustString = %q, want %q", got, "monreg")
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustInt(t *testing.T) {
	c := New().Prefix("SVC_")
	t.Setenv("SVC_WORKERS", "  8 ")
	if got := c.MustInt("WORKERS"); got != 8 {
		t.Fatalf("MustInt = %d, want %d", got, 8)
	}
	kit.MustPanic(t, func() { _ = c.MustInt("MISSING") })
	t.Setenv("SVC_BAD", "x")
	kit.MustPanic(t, func() { _ = c.MustInt("BAD") })
}

func TestMustDuration(t *testing.T) {
	c := New().Prefix("D_")
	t.Setenv("D_WINDOW", "90s")
	if got := c.MustDuration("WINDOW"); got != 90*time.Second {
		t.Fatalf("MustDuration = %v, want 90s", got)
	}
	t.Setenv("D_BAD", "ninety")
	kit.MustPanic(t, func() { _ = c.MustDuration("BAD") })
}

func TestMustPort(t *testing.T) {
	c := New().Prefix("P_")
	t.Setenv("P_PORT", "4000")
	if got := c.MustPort("PORT"); got != ":4000" {
		t.Fatalf("MustPort = %q, want %q", got, ":4000")
	}
	t.Setenv("P_HIGH", "70000")
	kit.MustPanic(t, func() { _ = c.MustPort("HIGH") })
	t.Setenv("P_WORDS", "http")
	kit.MustPanic(t, func() { _ = c.MustPort("WORDS") })
}

func TestRequire(t *testing.T) {
	c := New().Prefix("R_")
	t.Setenv("R_A", "1")
	t.Setenv("R_B", "2")
	kit.MustNotPanic(t, func() { c.Require("A", "B") })
	kit.MustPanic(t, func() { c.Require("A", "B", "C") })
}

func TestMayDefaults(t *testing.T) {
	c := New().Prefix("M_")

	if got := c.MayString("NOPE", "fallback"); got != "fallback" {
		t.Fatalf("MayString default = %q", got)
	}
	if got := c.MayInt("NOPE", 7); got != 7 {
		t.Fatalf("MayInt default = %d", got)
	}
	if got := c.MayBool("NOPE", true); got != true {
		t.Fatalf("MayBool default = %v", got)
	}
	if got := c.MayDuration("NOPE", time.Minute); got != time.Minute {
		t.Fatalf("MayDuration default = %v", got)
	}

	// invalid values fall back too
	t.Setenv("M_N", "notanint")
	if got := c.MayInt("N", 3); got != 3 {
		t.Fatalf("MayInt invalid = %d, want default 3", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")

	def := []string{"5"}
	if got := c.MayCSV("NOPE", def); len(got) != 1 || got[0] != "5" {
		t.Fatalf("MayCSV default = %v", got)
	}

	t.Setenv("CSV_RATES", " 100, 50 ,10 ,")
	got := c.MayCSV("RATES", def)
	want := []string{"100", "50", "10"}
	if len(got) != len(want) {
		t.Fatalf("MayCSV = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MayCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	t.Setenv("CSV_BLANK", " , ,")
	if got := c.MayCSV("BLANK", def); len(got) != 1 || got[0] != "5" {
		t.Fatalf("MayCSV blank = %v, want default", got)
	}
}
