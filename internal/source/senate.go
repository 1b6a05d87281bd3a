package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/jalshrestha/capitolwatch/internal/extract"
	"github.com/jalshrestha/capitolwatch/internal/fetcher"
)

const defaultSenateURL = "https://efdsearch.senate.gov/search/"

// SenateConnector discovers periodic transaction reports on the Senate
// electronic filing search and extracts transactions from the rendered
// report pages.
type SenateConnector struct {
	client  *fetcher.Client
	ex      *extract.Extractor
	logger  *slog.Logger
	baseURL string
}

// NewSenate creates the Senate connector.
func NewSenate(client *fetcher.Client, logger *slog.Logger) *SenateConnector {
	return &SenateConnector{
		client:  client,
		ex:      extract.New(extract.SenatePatterns()...),
		logger:  logger.With("source", "senate"),
		baseURL: defaultSenateURL,
	}
}

func (s *SenateConnector) Name() string { return "senate" }

// SetBaseURL overrides the listing URL. Used by tests.
func (s *SenateConnector) SetBaseURL(url string) { s.baseURL = url }

// Discover walks the paginated filing search results, keeping periodic
// transaction report rows inside the window.
func (s *SenateConnector) Discover(ctx context.Context, w Window) ([]Filing, error) {
	var filings []Filing

	err := s.client.Walk(ctx, s.baseURL, w.MaxPages, func(page fetcher.Page) (string, error) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
		if err != nil {
			return "", fmt.Errorf("senate: parse listing page %d: %w", page.Number, err)
		}

		found := collectListingRows(doc, page.URL, "Senate", isPTRRow)
		for _, f := range found {
			if f.ReportedDate.Before(w.Cutoff) {
				continue
			}
			filings = append(filings, f)
		}
		s.logger.Debug("listing page scanned", "page", page.Number, "filings", len(found))

		return nextPageURL(doc, page.URL), nil
	})
	if err != nil {
		return filings, fmt.Errorf("senate: discover: %w", err)
	}

	return filings, nil
}

// Extract fetches the rendered report page and applies the Senate pattern
// set to its HTML.
func (s *SenateConnector) Extract(ctx context.Context, f Filing) ([]Record, error) {
	body, err := s.client.Get(ctx, f.URL)
	if err != nil {
		return nil, err
	}

	cands := s.ex.Extract(string(body))
	s.logger.Debug("report extracted", "url", f.URL, "candidates", len(cands))
	return buildRecords(f, cands), nil
}
