package collect

import (
	"context"
	"log"

	"github.com/TobiSchelling/secfetch/internal/config"
	"github.com/TobiSchelling/secfetch/internal/filing"
	"github.com/TobiSchelling/secfetch/internal/roster"
)

// Lookup returns a company's recent 10-Q/10-K filings, at most limit of them.
// *edgar.Client implements it.
type Lookup interface {
	RecentFilings(ctx context.Context, cik int64, limit int) ([]filing.Filing, error)
}

// CompanyResult is the outcome of looking up one company.
type CompanyResult struct {
	Company roster.Company
	Limit   int
	Filings int
	Err     error // non-nil when the lookup itself failed
}

// Result holds the results of a collection run.
type Result struct {
	Records        []filing.Record
	Companies      []CompanyResult
	LookupFailures int
}

// Collector looks up filings for roster companies, capping each company by rank.
type Collector struct {
	lookup    Lookup
	threshold int
	topCap    int
	restCap   int
}

// NewCollector creates a new filing collector.
func NewCollector(cfg *config.Config, lookup Lookup) *Collector {
	return &Collector{
		lookup:    lookup,
		threshold: cfg.Roster.RankThreshold,
		topCap:    cfg.Roster.TopCap,
		restCap:   cfg.Roster.RestCap,
	}
}

// Collect looks up filings for each company in order. When target is set only
// the company with that CIK is processed. A failed lookup is logged and counts
// as no filings.
func (c *Collector) Collect(ctx context.Context, companies []roster.Company, target *int64) *Result {
	r := &Result{}

	for _, company := range companies {
		if target != nil && company.CIK != *target {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		cr := c.collectCompany(ctx, company, r)
		r.Companies = append(r.Companies, cr)
		log.Printf("%s - %d filings collected", displayName(company), cr.Filings)

		if target != nil {
			break
		}
	}

	return r
}

func (c *Collector) collectCompany(ctx context.Context, company roster.Company, r *Result) CompanyResult {
	limit := roster.MaxFilings(company.Rank, c.threshold, c.topCap, c.restCap)
	cr := CompanyResult{Company: company, Limit: limit}

	filings, err := c.lookup.RecentFilings(ctx, company.CIK, limit)
	if err != nil {
		log.Printf("Error looking up filings for %s (CIK %d): %v", company.Symbol, company.CIK, err)
		cr.Err = err
		r.LookupFailures++
		return cr
	}

	for _, f := range filings {
		r.Records = append(r.Records, filing.Record{
			Symbol:  company.Symbol,
			Company: company.Name,
			CIK:     company.CIK,
			Filing:  f,
		})
	}
	cr.Filings = len(filings)
	return cr
}

// FromFile loads the roster at path and collects filings for it.
// Malformed roster entries are logged and skipped.
func (c *Collector) FromFile(ctx context.Context, path string, target *int64) (*Result, error) {
	rs, err := roster.Load(path)
	if err != nil {
		return nil, err
	}
	for _, e := range rs.Invalid {
		log.Printf("Skipping %v", e)
	}
	return c.Collect(ctx, rs.Companies, target), nil
}

func displayName(c roster.Company) string {
	if c.Name != "" {
		return c.Name
	}
	return c.Symbol
}
