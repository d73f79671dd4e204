package edgar

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// AccessionPath strips the dashes from an accession number, giving the
// directory name used by the archive.
func AccessionPath(accession string) string {
	return strings.ReplaceAll(accession, "-", "")
}

// ArchiveURL builds the archive URL of a filing document.
func ArchiveURL(base string, cik int64, accession, filename string) string {
	return fmt.Sprintf("%s/%d/%s/%s", strings.TrimRight(base, "/"), cik, AccessionPath(accession), filename)
}

// FetchDocument downloads a filing document.
func (c *Client) FetchDocument(ctx context.Context, cik int64, accession, filename string) ([]byte, error) {
	url := ArchiveURL(c.archiveURL, cik, accession, filename)
	if c.debug {
		log.Printf("Requesting %s", url)
	}
	return c.get(ctx, url)
}

// DownloadDocument fetches a filing document and writes it verbatim to dest,
// replacing any existing file. The destination is only touched once the whole
// body has been received.
func (c *Client) DownloadDocument(ctx context.Context, cik int64, accession, filename, dest string) error {
	body, err := c.FetchDocument(ctx, cik, accession, filename)
	if err != nil {
		return err
	}
	return writeFile(dest, body)
}

// SaveDocument is DownloadDocument reporting success as a bool.
// Failures are logged with the document filename.
func (c *Client) SaveDocument(ctx context.Context, cik int64, accession, filename, dest string) bool {
	if err := c.DownloadDocument(ctx, cik, accession, filename, dest); err != nil {
		log.Printf("Failed to save %s: %v", filename, err)
		return false
	}
	log.Printf("Saved %s", filepath.Base(dest))
	return true
}

// writeFile replaces dest atomically, so a failed write leaves it as it was.
func writeFile(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := renameio.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}
