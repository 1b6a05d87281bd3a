// Package source implements the per-source connectors that discover filing
// documents and extract raw transaction records from them. Each connector
// combines the shared fetcher and pattern extractor for one upstream:
// House clerk listings, Senate electronic filings, the SEC EDGAR index, an
// aggregated bulk feed, and a network-free synthetic sample generator.
package source

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/jalshrestha/capitolwatch/internal/extract"
	"github.com/jalshrestha/capitolwatch/internal/model"
)

// Window bounds a discovery pass: only filings reported after Cutoff are
// kept, and listing walks stop after MaxPages pages.
type Window struct {
	Cutoff   time.Time
	MaxPages int
}

// Filing is one discovered filing document reference.
type Filing struct {
	Politician   string
	Chamber      string
	URL          string
	ReportedDate time.Time
	Provenance   model.Provenance
}

// Record is a normalized transaction before politician identity resolution.
// The gateway resolves Politician/Chamber into a stored politician row.
type Record struct {
	Politician string
	Chamber    string

	Ticker          string
	CompanyName     string
	Type            string
	TransactionDate time.Time
	ReportedDate    time.Time
	Amount          string
	AmountMin       *int64
	AmountMax       *int64
	AssetType       string
	FilingURL       string
	Provenance      model.Provenance
}

// Connector is one disclosure source. Discover may return partial results
// together with an error (e.g. some registry entries were unusable); the
// orchestrator records the error and still processes the returned filings.
type Connector interface {
	Name() string
	Discover(ctx context.Context, w Window) ([]Filing, error)
	Extract(ctx context.Context, f Filing) ([]Record, error)
}

// buildRecords converts validated candidates from one filing into normalized
// records, applying the canonical type/date/amount transforms.
func buildRecords(f Filing, cands []extract.Candidate) []Record {
	records := make([]Record, 0, len(cands))
	for _, c := range cands {
		rec := Record{
			Politician:      f.Politician,
			Chamber:         f.Chamber,
			Ticker:          c.Ticker,
			CompanyName:     c.CompanyName,
			Type:            extract.NormalizeType(c.TypeToken),
			TransactionDate: extract.NormalizeDate(c.DateToken),
			ReportedDate:    f.ReportedDate,
			Amount:          extract.NormalizeAmount(c.AmountToken),
			AssetType:       "Stock",
			FilingURL:       f.URL,
			Provenance:      f.Provenance,
		}
		if r := extract.ParseAmountRange(rec.Amount); r != nil {
			rec.AmountMin = &r.Min
			rec.AmountMax = &r.Max
		}
		records = append(records, rec)
	}
	return records
}

// documentText returns the extractable text of a downloaded document.
// PDF documents are converted to plain text; anything else is read as-is.
func documentText(path, url string) (string, error) {
	if strings.HasSuffix(strings.ToLower(url), ".pdf") {
		return pdfText(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func pdfText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// absoluteURL resolves href against the page it appeared on.
func absoluteURL(pageURL, href string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// parseListingDate parses the date formats government listing pages use.
func parseListingDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"01/02/2006", "1/2/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
