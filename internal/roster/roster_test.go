package roster

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseRoster(t *testing.T) {
	data := []byte(`[
		{"CIK": 320193, "symbol": "AAPL", "company": "Apple Inc.", "rank": 1},
		{"CIK": "789019", "symbol": "MSFT", "company": "Microsoft Corp", "rank": 2},
		{"CIK": "0001652044", "symbol": "GOOGL", "company": "Alphabet Inc."}
	]`)

	r, err := parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Companies) != 3 {
		t.Fatalf("expected 3 companies, got %d", len(r.Companies))
	}
	if len(r.Invalid) != 0 {
		t.Errorf("expected no invalid entries, got %v", r.Invalid)
	}

	apple := r.Companies[0]
	if apple.CIK != 320193 || apple.Symbol != "AAPL" || apple.Name != "Apple Inc." || apple.Rank != 1 {
		t.Errorf("unexpected first company: %+v", apple)
	}
	if r.Companies[1].CIK != 789019 {
		t.Errorf("expected string CIK to parse as 789019, got %d", r.Companies[1].CIK)
	}
	if r.Companies[2].CIK != 1652044 {
		t.Errorf("expected zero-padded CIK to parse as 1652044, got %d", r.Companies[2].CIK)
	}
	if r.Companies[2].Rank != DefaultRank {
		t.Errorf("expected default rank %d, got %d", DefaultRank, r.Companies[2].Rank)
	}
}

func TestParseRosterInvalidEntries(t *testing.T) {
	data := []byte(`[
		{"symbol": "NOCIK", "company": "Missing CIK"},
		{"CIK": "abc", "symbol": "BAD", "company": "Bad CIK"},
		{"CIK": 1018724, "company": "No Symbol"},
		"not an object",
		{"CIK": 1045810, "symbol": "NVDA", "company": "NVIDIA", "rank": 3}
	]`)

	r, err := parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Companies) != 1 || r.Companies[0].Symbol != "NVDA" {
		t.Fatalf("expected only NVDA to survive, got %+v", r.Companies)
	}
	if len(r.Invalid) != 4 {
		t.Fatalf("expected 4 invalid entries, got %d", len(r.Invalid))
	}
	for i, e := range r.Invalid {
		if e.Index != i {
			t.Errorf("expected invalid index %d, got %d", i, e.Index)
		}
		if errors.Unwrap(e) == nil {
			t.Errorf("expected wrapped cause for entry %d", i)
		}
	}
}

func TestParseRosterNotArray(t *testing.T) {
	if _, err := parse([]byte(`{"CIK": 1}`)); err == nil {
		t.Error("expected error for non-array roster")
	}
}

func TestRankZeroIsTopTier(t *testing.T) {
	r, err := parse([]byte(`[
		{"CIK": 1, "symbol": "ZERO", "company": "Zero", "rank": 0},
		{"CIK": 2, "symbol": "NEG", "company": "Negative", "rank": -4},
		{"CIK": 3, "symbol": "NULL", "company": "Null", "rank": null}
	]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Companies) != 3 {
		t.Fatalf("expected 3 companies, got %d", len(r.Companies))
	}

	tests := []struct {
		rank int
		cap  int
	}{
		{0, 8},
		{-4, 8},
		{DefaultRank, 1},
	}
	for i, tt := range tests {
		c := r.Companies[i]
		if c.Rank != tt.rank {
			t.Errorf("%s: expected rank %d, got %d", c.Symbol, tt.rank, c.Rank)
		}
		if got := MaxFilings(c.Rank, 50, 8, 1); got != tt.cap {
			t.Errorf("%s: expected cap %d, got %d", c.Symbol, tt.cap, got)
		}
	}
}

func TestStringRank(t *testing.T) {
	r, err := parse([]byte(`[
		{"CIK": 2, "symbol": "STR", "company": "String Rank", "rank": "3"},
		{"CIK": 4, "symbol": "JUNK", "company": "Junk Rank", "rank": "high"}
	]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Invalid) != 0 {
		t.Fatalf("expected no invalid entries, got %v", r.Invalid)
	}
	if len(r.Companies) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(r.Companies))
	}
	if r.Companies[0].Rank != 3 {
		t.Errorf("expected rank 3, got %d", r.Companies[0].Rank)
	}
	if r.Companies[1].Rank != DefaultRank {
		t.Errorf("expected unusable rank to fall back to %d, got %d", DefaultRank, r.Companies[1].Rank)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.json")
	if err := os.WriteFile(path, []byte(`[{"CIK": 320193, "symbol": "AAPL", "company": "Apple Inc.", "rank": 1}]`), 0o644); err != nil {
		t.Fatalf("failed to write roster: %v", err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := r.Find(320193)
	if !ok {
		t.Fatal("expected to find CIK 320193")
	}
	if c.Symbol != "AAPL" {
		t.Errorf("expected AAPL, got %q", c.Symbol)
	}
	if _, ok := r.Find(42); ok {
		t.Error("expected CIK 42 to be absent")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing roster file")
	}
}

func TestMaxFilings(t *testing.T) {
	tests := []struct {
		rank int
		want int
	}{
		{1, 8},
		{50, 8},
		{51, 1},
		{DefaultRank, 1},
	}
	for _, tt := range tests {
		if got := MaxFilings(tt.rank, 50, 8, 1); got != tt.want {
			t.Errorf("rank %d: expected %d, got %d", tt.rank, tt.want, got)
		}
	}
}
