// Package roster loads the list of companies whose filings are collected.
package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// DefaultRank is assigned to companies without a usable rank.
const DefaultRank = 999

// Company is one roster entry.
type Company struct {
	CIK    int64
	Symbol string
	Name   string
	Rank   int // lower is more important
}

// EntryError describes a roster element that could not be used.
type EntryError struct {
	Index int
	Err   error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("roster entry %d: %v", e.Index, e.Err)
}

func (e EntryError) Unwrap() error { return e.Err }

// Roster is the parsed roster file. Invalid elements are kept aside so the
// remaining companies can still be processed.
type Roster struct {
	Companies []Company
	Invalid   []EntryError
}

// Find returns the company with the given CIK.
func (r *Roster) Find(cik int64) (Company, bool) {
	return lo.Find(r.Companies, func(c Company) bool { return c.CIK == cik })
}

type entry struct {
	CIK     json.RawMessage `json:"CIK"`
	Symbol  string          `json:"symbol"`
	Company string          `json:"company"`
	Rank    json.RawMessage `json:"rank"`
}

// Load reads a roster file: a JSON array of objects with CIK, symbol, company
// and an optional rank. CIK and rank may be numbers or numeric strings.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Roster, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}

	r := &Roster{}
	for i, msg := range raw {
		c, err := parseEntry(msg)
		if err != nil {
			r.Invalid = append(r.Invalid, EntryError{Index: i, Err: err})
			continue
		}
		r.Companies = append(r.Companies, c)
	}
	return r, nil
}

func parseEntry(msg json.RawMessage) (Company, error) {
	var e entry
	if err := json.Unmarshal(msg, &e); err != nil {
		return Company{}, err
	}

	cik, err := parseCIK(e.CIK)
	if err != nil {
		return Company{}, err
	}
	if e.Symbol == "" {
		return Company{}, errors.New("missing symbol")
	}

	rank, ok, err := parseInt(e.Rank)
	switch {
	case err != nil:
		log.Printf("%s: ignoring rank %s, using %d", e.Symbol, e.Rank, DefaultRank)
		rank = DefaultRank
	case !ok:
		rank = DefaultRank
	}

	return Company{
		CIK:    cik,
		Symbol: e.Symbol,
		Name:   e.Company,
		Rank:   rank,
	}, nil
}

func parseCIK(raw json.RawMessage) (int64, error) {
	n, ok, err := parseInt(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid CIK: %w", err)
	}
	if !ok {
		return 0, errors.New("missing CIK")
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid CIK %d", n)
	}
	return int64(n), nil
}

// parseInt decodes a JSON number or numeric string. ok is false when the
// value is absent or null.
func parseInt(raw json.RawMessage) (n int, ok bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false, nil
	}

	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false, err
		}
		s = strings.TrimSpace(s)
	}

	n, err = strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("not an integer: %s", raw)
	}
	return n, true, nil
}

// MaxFilings returns how many filings to fetch for a company of the given rank:
// topCap when rank is within threshold, restCap otherwise.
func MaxFilings(rank, threshold, topCap, restCap int) int {
	if rank <= threshold {
		return topCap
	}
	return restCap
}
