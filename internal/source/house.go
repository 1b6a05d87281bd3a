package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jalshrestha/capitolwatch/internal/extract"
	"github.com/jalshrestha/capitolwatch/internal/fetcher"
	"github.com/jalshrestha/capitolwatch/internal/model"
)

const defaultHouseURL = "https://disclosures-clerk.house.gov/PublicDisclosure/FinancialDisclosure"

// HouseConnector discovers periodic transaction reports on the House clerk
// disclosure listing and extracts transactions from the linked documents.
type HouseConnector struct {
	client  *fetcher.Client
	ex      *extract.Extractor
	logger  *slog.Logger
	baseURL string
}

// NewHouse creates the House connector. The clerk site is rate limited by
// the client's multi-second inter-request delay.
func NewHouse(client *fetcher.Client, logger *slog.Logger) *HouseConnector {
	return &HouseConnector{
		client:  client,
		ex:      extract.New(extract.HousePatterns()...),
		logger:  logger.With("source", "house"),
		baseURL: defaultHouseURL,
	}
}

func (h *HouseConnector) Name() string { return "house" }

// SetBaseURL overrides the listing URL. Used by tests.
func (h *HouseConnector) SetBaseURL(url string) { h.baseURL = url }

// Discover walks the paginated disclosure listing, keeping PTR rows whose
// reported date falls inside the window.
func (h *HouseConnector) Discover(ctx context.Context, w Window) ([]Filing, error) {
	var filings []Filing

	err := h.client.Walk(ctx, h.baseURL, w.MaxPages, func(page fetcher.Page) (string, error) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
		if err != nil {
			return "", fmt.Errorf("house: parse listing page %d: %w", page.Number, err)
		}

		found := collectListingRows(doc, page.URL, "House", isPTRRow)
		for _, f := range found {
			if f.ReportedDate.Before(w.Cutoff) {
				continue
			}
			filings = append(filings, f)
		}
		h.logger.Debug("listing page scanned", "page", page.Number, "filings", len(found))

		return nextPageURL(doc, page.URL), nil
	})
	if err != nil {
		// Filings from pages fetched before the failure are still usable.
		return filings, fmt.Errorf("house: discover: %w", err)
	}

	return filings, nil
}

// Extract downloads the filing document to a temp file, converts it to text,
// and applies the House pattern set. The temp file is removed on every exit
// path.
func (h *HouseConnector) Extract(ctx context.Context, f Filing) ([]Record, error) {
	path, cleanup, err := h.client.Download(ctx, f.URL)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	text, err := documentText(path, f.URL)
	if err != nil {
		return nil, fmt.Errorf("house: read document %s: %w", f.URL, err)
	}

	cands := h.ex.Extract(text)
	h.logger.Debug("document extracted", "url", f.URL, "candidates", len(cands))
	return buildRecords(f, cands), nil
}

// isPTRRow reports whether a listing row's report-type cell names a
// periodic transaction report.
func isPTRRow(reportType string) bool {
	return strings.Contains(reportType, "PTR") ||
		strings.Contains(reportType, "Periodic Transaction")
}

// collectListingRows scans a disclosure listing table. Expected cells:
// politician name, office, report type, reported date, with the document
// link anchored somewhere in the row.
func collectListingRows(doc *goquery.Document, pageURL, chamber string, keep func(string) bool) []Filing {
	var filings []Filing

	doc.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}

		reportType := strings.TrimSpace(cells.Eq(2).Text())
		if !keep(reportType) {
			return
		}

		link := row.Find("a[href]").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		filings = append(filings, Filing{
			Politician:   strings.TrimSpace(cells.Eq(0).Text()),
			Chamber:      chamber,
			URL:          absoluteURL(pageURL, href),
			ReportedDate: parseListingDate(cells.Eq(3).Text()),
			Provenance:   model.ProvenanceVerified,
		})
	})

	return filings
}

// nextPageURL finds the next-page affordance on a listing page, returning ""
// when absent or disabled.
func nextPageURL(doc *goquery.Document, pageURL string) string {
	next := doc.Find(`a[rel="next"], a[aria-label="Next"]`).First()
	if next.Length() == 0 {
		return ""
	}
	if _, disabled := next.Attr("disabled"); disabled {
		return ""
	}
	if next.HasClass("disabled") {
		return ""
	}
	href, ok := next.Attr("href")
	if !ok || href == "" || href == "#" {
		return ""
	}
	return absoluteURL(pageURL, href)
}
