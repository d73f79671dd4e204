package fetch

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/TobiSchelling/secfetch/internal/config"
	"github.com/TobiSchelling/secfetch/internal/filing"
)

// Saver downloads one filing document to dest and reports success.
// *edgar.Client implements it.
type Saver interface {
	SaveDocument(ctx context.Context, cik int64, accession, filename, dest string) bool
}

// Result holds the results of a download run.
type Result struct {
	Saved  int
	Failed int
	Paths  []string
}

// Downloader stores filing documents under the output directory, pausing after
// every request.
type Downloader struct {
	saver     Saver
	outputDir string
	delay     time.Duration
}

// NewDownloader creates a new document downloader.
func NewDownloader(cfg *config.Config, saver Saver) *Downloader {
	return &Downloader{
		saver:     saver,
		outputDir: cfg.Output.Dir,
		delay:     cfg.Delay(),
	}
}

// Destination returns where a record's document is written.
func (d *Downloader) Destination(r filing.Record) (string, error) {
	p, err := filing.ParsePeriod(r.ReportDate)
	if err != nil {
		return "", err
	}
	return filing.OutputPath(d.outputDir, r.Symbol, p), nil
}

// Download saves each record's primary document. Failures are logged and
// counted; they never stop the run. It returns early only when ctx is done.
func (d *Downloader) Download(ctx context.Context, records []filing.Record) *Result {
	result := &Result{}

	for _, r := range records {
		if ctx.Err() != nil {
			break
		}

		dest, err := d.Destination(r)
		if err != nil {
			log.Printf("%s - skipping %s: %v", r.Symbol, r.Accession, err)
			result.Failed++
			continue
		}

		log.Printf("%s - saving %s as %s", r.Symbol, r.Accession, filepath.Base(dest))
		if d.saver.SaveDocument(ctx, r.CIK, r.Accession, r.PrimaryDocument, dest) {
			result.Saved++
			result.Paths = append(result.Paths, dest)
		} else {
			result.Failed++
		}

		if err := sleep(ctx, d.delay); err != nil {
			break
		}
	}

	return result
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
