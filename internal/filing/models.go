package filing

// Accepted form types. Everything else in the submissions index is ignored.
const (
	FormQuarterly = "10-Q"
	FormAnnual    = "10-K"
)

// Filing is one entry from a company's recent submissions index.
type Filing struct {
	Accession       string `json:"accession"` // e.g. "0000320193-25-000057"
	Form            string `json:"form"`
	ReportDate      string `json:"reportDate"` // YYYY-MM-DD
	PrimaryDocument string `json:"filename"`
}

// IsPeriodicReport reports whether the filing is a 10-Q or 10-K.
func (f Filing) IsPeriodicReport() bool {
	return f.Form == FormQuarterly || f.Form == FormAnnual
}

// Record is a filing tagged with the company it belongs to.
type Record struct {
	Symbol  string `json:"symbol"`
	Company string `json:"company"`
	CIK     int64  `json:"CIK"`
	Filing
}
