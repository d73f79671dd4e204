package main

import "testing"

func TestParseTarget(t *testing.T) {
	got, err := parseTarget("")
	if err != nil || got != nil {
		t.Errorf("expected nil target for empty flag, got %v, %v", got, err)
	}

	got, err = parseTarget("320193")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || *got != 320193 {
		t.Errorf("expected 320193, got %v", got)
	}

	for _, bad := range []string{"abc", "-5", "0"} {
		if _, err := parseTarget(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
