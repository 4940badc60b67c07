package env

import "testing"

func TestFirstPrefersEarlierKeys(t *testing.T) {
	t.Setenv("COUNTERPOS_LOG_FORMAT", "console")
	t.Setenv("LOG_FORMAT", "json")
	if got := First("json", "COUNTERPOS_LOG_FORMAT", "LOG_FORMAT"); got != "console" {
		t.Fatalf("expected console, got %q", got)
	}
}

func TestFirstSkipsBlankValues(t *testing.T) {
	t.Setenv("COUNTERPOS_LOG_FORMAT", "  ")
	t.Setenv("LOG_FORMAT", "")
	if got := First("json", "COUNTERPOS_LOG_FORMAT", "LOG_FORMAT"); got != "json" {
		t.Fatalf("expected fallback, got %q", got)
	}
}
