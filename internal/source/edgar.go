package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jalshrestha/capitolwatch/internal/extract"
	"github.com/jalshrestha/capitolwatch/internal/fetcher"
	"github.com/jalshrestha/capitolwatch/internal/model"
	"github.com/jalshrestha/capitolwatch/internal/registry"
)

const defaultEdgarURL = "https://data.sec.gov"

// EdgarConnector enumerates recent structured filings for regulator-tracked
// members through the SEC EDGAR submissions index and extracts transactions
// from each filing's primary document using the layered EDGAR patterns.
type EdgarConnector struct {
	client  *fetcher.Client
	reg     *registry.Registry
	ex      *extract.Extractor
	logger  *slog.Logger
	baseURL string
}

// NewEdgar creates the regulator connector.
func NewEdgar(client *fetcher.Client, reg *registry.Registry, logger *slog.Logger) *EdgarConnector {
	return &EdgarConnector{
		client:  client,
		reg:     reg,
		ex:      extract.New(extract.EdgarPatterns()...),
		logger:  logger.With("source", "edgar"),
		baseURL: defaultEdgarURL,
	}
}

func (e *EdgarConnector) Name() string { return "edgar" }

// SetBaseURL overrides the EDGAR host. Used by tests.
func (e *EdgarConnector) SetBaseURL(url string) { e.baseURL = url }

// submissionsIndex is the subset of the EDGAR submissions JSON we read.
// Filing attributes arrive as parallel arrays indexed together.
type submissionsIndex struct {
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			ReportDate      []string `json:"reportDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// Discover enumerates tracked registry members and their recent periodic
// transaction filings. A tracked member without a filing identifier is
// skipped and reported; partial results are still returned.
func (e *EdgarConnector) Discover(ctx context.Context, w Window) ([]Filing, error) {
	var (
		filings []Filing
		errs    []error
	)

	for _, member := range e.reg.Tracked() {
		cik, err := e.reg.FilingIdentity(member.Name)
		if err != nil {
			e.logger.Warn("member skipped", "name", member.Name, "error", err)
			errs = append(errs, err)
			continue
		}

		found, err := e.memberFilings(ctx, member, cik, w)
		if err != nil {
			errs = append(errs, fmt.Errorf("member %s: %w", member.Name, err))
			continue
		}
		filings = append(filings, found...)
	}

	return filings, errors.Join(errs...)
}

func (e *EdgarConnector) memberFilings(ctx context.Context, member registry.Member, cik string, w Window) ([]Filing, error) {
	url := fmt.Sprintf("%s/submissions/CIK%s.json", e.baseURL, paddedCIK(cik))

	var index submissionsIndex
	if err := e.client.GetJSON(ctx, url, &index); err != nil {
		return nil, err
	}

	recent := index.Filings.Recent
	var filings []Filing
	for i, form := range recent.Form {
		if i >= len(recent.FilingDate) || i >= len(recent.AccessionNumber) || i >= len(recent.PrimaryDocument) {
			break
		}
		if !isTransactionForm(form) {
			continue
		}

		filingDate := parseListingDate(recent.FilingDate[i])
		if filingDate.Before(w.Cutoff) {
			continue
		}

		accession := strings.ReplaceAll(recent.AccessionNumber[i], "-", "")
		filings = append(filings, Filing{
			Politician:   member.Name,
			Chamber:      member.Chamber,
			URL:          fmt.Sprintf("%s/Archives/edgar/data/%s/%s/%s", e.baseURL, strings.TrimLeft(cik, "0"), accession, recent.PrimaryDocument[i]),
			ReportedDate: filingDate,
			Provenance:   model.ProvenanceVerified,
		})
	}

	e.logger.Debug("member filings enumerated", "name", member.Name, "filings", len(filings))
	return filings, nil
}

// Extract fetches the filing's primary document and applies the layered
// EDGAR patterns: HTML table rows, tagged key/value fields, then freeform
// labeled text, in that order.
func (e *EdgarConnector) Extract(ctx context.Context, f Filing) ([]Record, error) {
	body, err := e.client.Get(ctx, f.URL)
	if err != nil {
		return nil, err
	}

	cands := e.ex.Extract(string(body))
	e.logger.Debug("filing extracted", "url", f.URL, "candidates", len(cands))
	return buildRecords(f, cands), nil
}

// isTransactionForm keeps periodic transaction reports and financial
// disclosures.
func isTransactionForm(form string) bool {
	return form == "PTR" || form == "FD" || strings.Contains(form, "Transaction")
}

// paddedCIK zero-pads a Central Index Key to the 10 digits the submissions
// endpoint expects.
func paddedCIK(cik string) string {
	cik = strings.TrimLeft(cik, "0")
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}
