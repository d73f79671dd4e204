package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/TobiSchelling/secfetch/internal/filing"
)

// DefaultMaxFilings is used when RecentFilings is called without a cap.
const DefaultMaxFilings = 8

type submissions struct {
	Filings struct {
		Recent recentFilings `json:"recent"`
	} `json:"filings"`
}

// recentFilings decodes the index's parallel arrays straight into filings.
type recentFilings []filing.Filing

func (r *recentFilings) UnmarshalJSON(data []byte) error {
	var arrays struct {
		Form            []string `json:"form"`
		AccessionNumber []string `json:"accessionNumber"`
		ReportDate      []string `json:"reportDate"`
		PrimaryDocument []string `json:"primaryDocument"`
	}
	if err := json.Unmarshal(data, &arrays); err != nil {
		return err
	}

	n := min(len(arrays.Form), len(arrays.AccessionNumber), len(arrays.ReportDate), len(arrays.PrimaryDocument))
	out := make(recentFilings, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, filing.Filing{
			Accession:       arrays.AccessionNumber[i],
			Form:            arrays.Form[i],
			ReportDate:      arrays.ReportDate[i],
			PrimaryDocument: arrays.PrimaryDocument[i],
		})
	}
	*r = out
	return nil
}

// IndexURL returns the submissions index URL for a CIK, zero-padded to 10 digits.
func IndexURL(base string, cik int64) string {
	return fmt.Sprintf("%s/CIK%010d.json", strings.TrimRight(base, "/"), cik)
}

// RecentFilings returns up to limit 10-Q/10-K filings from the company's recent
// submissions, in index order (most recent first).
func (c *Client) RecentFilings(ctx context.Context, cik int64, limit int) ([]filing.Filing, error) {
	if limit <= 0 {
		limit = DefaultMaxFilings
	}

	body, err := c.get(ctx, IndexURL(c.submissionsURL, cik))
	if err != nil {
		return nil, err
	}

	var sub submissions
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("decoding submissions for CIK %d: %w", cik, err)
	}

	periodic := lo.Filter(sub.Filings.Recent, func(f filing.Filing, _ int) bool {
		return f.IsPeriodicReport()
	})
	return lo.Subset(periodic, 0, uint(limit)), nil
}
