package pipeline

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/TobiSchelling/secfetch/internal/collect"
	"github.com/TobiSchelling/secfetch/internal/config"
	"github.com/TobiSchelling/secfetch/internal/edgar"
	"github.com/TobiSchelling/secfetch/internal/fetch"
	"github.com/TobiSchelling/secfetch/internal/filing"
	"github.com/TobiSchelling/secfetch/internal/roster"
)

// Client is what the pipeline needs from EDGAR.
type Client interface {
	collect.Lookup
	fetch.Saver
}

// StepResult holds the outcome for a single company.
type StepResult struct {
	Name    string
	Summary string
	Err     error
}

// Result holds the results of a full pipeline run.
type Result struct {
	RunID          string
	Companies      int
	InvalidEntries int
	LookupFailures int
	Filings        int
	Saved          int
	Failed         int
	Records        []filing.Record
	Steps          []StepResult
}

// Pipeline looks up and downloads filings for every roster company, one
// company and one document at a time.
type Pipeline struct {
	cfg        *config.Config
	collector  *collect.Collector
	downloader *fetch.Downloader
}

// New creates a pipeline talking to EDGAR as configured.
func New(cfg *config.Config) *Pipeline {
	return NewWithClient(cfg, NewEDGARClient(cfg))
}

// NewWithClient creates a pipeline using the given client.
func NewWithClient(cfg *config.Config, client Client) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		collector:  collect.NewCollector(cfg, client),
		downloader: fetch.NewDownloader(cfg, client),
	}
}

// NewEDGARClient builds an EDGAR client from the configuration.
func NewEDGARClient(cfg *config.Config) *edgar.Client {
	return edgar.NewClient(
		edgar.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		edgar.WithUserAgent(cfg.GetUserAgent()),
		edgar.WithBaseURLs(cfg.EDGAR.SubmissionsURL, cfg.EDGAR.ArchiveURL),
		edgar.WithRateLimit(cfg.EDGAR.RequestsPerSecond),
		edgar.WithDebug(cfg.Debug()),
	)
}

func (p *Pipeline) loadRoster() (*roster.Roster, error) {
	rs, err := roster.Load(p.cfg.Roster.Path)
	if err != nil {
		return nil, err
	}
	for _, e := range rs.Invalid {
		log.Printf("Skipping %v", e)
	}
	return rs, nil
}

// Run processes every roster company, or only target when set. A company
// whose lookup fails, or a document that cannot be saved, is logged and
// skipped. Only an unreadable roster or a cancelled context ends the run early.
func (p *Pipeline) Run(ctx context.Context, target *int64) (*Result, error) {
	rs, err := p.loadRoster()
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}

	r := &Result{RunID: uuid.NewString(), InvalidEntries: len(rs.Invalid)}
	log.Printf("Run %s: %d companies in roster", r.RunID, len(rs.Companies))

	companies := rs.Companies
	if target != nil {
		companies = nil
		if company, ok := rs.Find(*target); ok {
			companies = []roster.Company{company}
		} else {
			log.Printf("CIK %d is not in the roster", *target)
		}
	}

	for _, company := range companies {
		if ctx.Err() != nil {
			break
		}

		log.Printf("Collecting filings for %s (CIK %d)", company.Symbol, company.CIK)
		cik := company.CIK
		collected := p.collector.Collect(ctx, rs.Companies, &cik)
		r.Companies++
		r.Records = append(r.Records, collected.Records...)
		r.Filings += len(collected.Records)
		r.LookupFailures += collected.LookupFailures

		if len(collected.Companies) == 1 && collected.Companies[0].Err != nil {
			r.Steps = append(r.Steps, StepResult{Name: company.Symbol, Err: collected.Companies[0].Err})
			continue
		}

		downloaded := p.downloader.Download(ctx, collected.Records)
		r.Saved += downloaded.Saved
		r.Failed += downloaded.Failed
		r.Steps = append(r.Steps, StepResult{
			Name:    company.Symbol,
			Summary: fmt.Sprintf("%d filings, %d saved, %d failed", len(collected.Records), downloaded.Saved, downloaded.Failed),
		})
	}

	p.writeSnapshot(r.Records)
	log.Printf("Run %s complete: %d saved, %d failed", r.RunID, r.Saved, r.Failed)
	return r, ctx.Err()
}

// DryRun looks up filings and reports where each would be written, without
// downloading anything.
func (p *Pipeline) DryRun(ctx context.Context, target *int64) (*Result, error) {
	rs, err := p.loadRoster()
	if err != nil {
		return nil, fmt.Errorf("loading roster: %w", err)
	}

	r := &Result{RunID: uuid.NewString(), InvalidEntries: len(rs.Invalid)}
	collected := p.collector.Collect(ctx, rs.Companies, target)
	r.Companies = len(collected.Companies)
	r.LookupFailures = collected.LookupFailures
	r.Records = collected.Records
	r.Filings = len(collected.Records)

	byCIK := make(map[int64][]string)
	for _, rec := range collected.Records {
		dest, err := p.downloader.Destination(rec)
		if err != nil {
			dest = "invalid report date " + rec.ReportDate
		}
		byCIK[rec.CIK] = append(byCIK[rec.CIK], filepath.Base(dest))
	}

	for _, cr := range collected.Companies {
		if cr.Err != nil {
			r.Steps = append(r.Steps, StepResult{Name: cr.Company.Symbol, Err: cr.Err})
			continue
		}
		summary := fmt.Sprintf("[dry-run] %d of max %d filings", cr.Filings, cr.Limit)
		if names := byCIK[cr.Company.CIK]; len(names) > 0 {
			summary += ": " + strings.Join(names, ", ")
		}
		r.Steps = append(r.Steps, StepResult{Name: cr.Company.Symbol, Summary: summary})
	}

	p.writeSnapshot(r.Records)
	return r, ctx.Err()
}

// DownloadSnapshot downloads every record of a filing list previously written
// by WriteSnapshot, without consulting the roster or the submissions index.
func (p *Pipeline) DownloadSnapshot(ctx context.Context, path string) (*fetch.Result, error) {
	records, err := collect.ReadSnapshot(path)
	if err != nil {
		return nil, err
	}
	log.Printf("Downloading %d filings from %s", len(records), path)
	return p.downloader.Download(ctx, records), ctx.Err()
}

func (p *Pipeline) writeSnapshot(records []filing.Record) {
	path := p.cfg.Output.SnapshotPath
	if path == "" {
		return
	}
	if err := collect.WriteSnapshot(path, records); err != nil {
		log.Printf("Error writing snapshot: %v", err)
		return
	}
	log.Printf("Wrote %d filings to %s", len(records), path)
}
