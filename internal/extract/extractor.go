// Package extract parses raw document content into transaction candidates
// and canonicalizes their type, date, and amount representations.
//
// Extraction is pattern-driven: each source supplies an ordered list of
// format parsers sharing one validation contract, and the extractor accepts
// the first pattern that yields structural matches.
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports that a document produced no usable candidates for a
// caller that required them. A zero-candidate document is not an error by
// itself; connectors return empty results instead.
type ParseError struct {
	Pattern string
	Msg     string
}

func (e *ParseError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("parse: pattern %s: %s", e.Pattern, e.Msg)
	}
	return "parse: " + e.Msg
}

// Candidate is one structurally matched transaction row before validation.
type Candidate struct {
	Ticker      string
	CompanyName string
	TypeToken   string
	DateToken   string
	AmountToken string
}

var (
	tickerRe = regexp.MustCompile(`^[A-Z]{1,5}$`)
	dateRe   = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
)

var typeTokens = []string{"buy", "sell", "sale", "purchase", "exchange"}

// Valid applies the shared structural validation contract: ticker is 1-5
// uppercase letters, the type token names a known transaction kind, the date
// token is a numeric month/day/year form, and the amount token carries a
// currency marker.
func (c Candidate) Valid() bool {
	if !tickerRe.MatchString(c.Ticker) {
		return false
	}

	typeLower := strings.ToLower(c.TypeToken)
	known := false
	for _, t := range typeTokens {
		if strings.Contains(typeLower, t) {
			known = true
			break
		}
	}
	if !known {
		return false
	}

	if !dateRe.MatchString(c.DateToken) {
		return false
	}
	return strings.Contains(c.AmountToken, "$")
}

// Fields maps a pattern's capture-group indexes to candidate fields.
// Sources order the same five fields differently, so each pattern declares
// its own layout.
type Fields struct {
	Ticker  int
	Company int
	Type    int
	Date    int
	Amount  int
}

// Pattern is one pluggable format parser.
type Pattern struct {
	Name   string
	Re     *regexp.Regexp
	Fields Fields
}

// Extractor tries an ordered list of patterns against document content.
type Extractor struct {
	patterns []Pattern
}

// New builds an Extractor over the given ordered patterns.
func New(patterns ...Pattern) *Extractor {
	return &Extractor{patterns: patterns}
}

// Extract tries each pattern in order and accepts the first that yields
// structural matches. Candidates failing validation are dropped
// individually; a document with zero valid candidates returns an empty
// slice, not an error.
func (e *Extractor) Extract(content string) []Candidate {
	for _, p := range e.patterns {
		matches := p.Re.FindAllStringSubmatch(content, -1)
		if len(matches) == 0 {
			continue
		}

		var out []Candidate
		for _, m := range matches {
			c := Candidate{
				Ticker:      strings.TrimSpace(group(m, p.Fields.Ticker)),
				CompanyName: strings.TrimSpace(group(m, p.Fields.Company)),
				TypeToken:   strings.TrimSpace(group(m, p.Fields.Type)),
				DateToken:   strings.TrimSpace(group(m, p.Fields.Date)),
				AmountToken: NormalizeAmount(group(m, p.Fields.Amount)),
			}
			if c.Valid() {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

func group(m []string, i int) string {
	if i <= 0 || i >= len(m) {
		return ""
	}
	return m[i]
}
