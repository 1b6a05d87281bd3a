package extract

import "regexp"

// Shared fragments. The amount fragment accepts a single value or a
// "$low - $high" disclosure band.
const (
	amountFrag = `(\$[\d,]+(?:\s*-\s*\$[\d,]+)?)`
	dateFrag   = `(\d{1,2}/\d{1,2}/\d{4})`
	typeFrag   = `(Buy|Sell|Sale|Purchase|Exchange)`
)

// htmlTableRow matches transaction rows rendered as five-cell HTML table
// rows: ticker, company, type, date, amount.
var htmlTableRow = Pattern{
	Name: "html-table-row",
	Re: regexp.MustCompile(`(?is)<tr[^>]*>.*?` +
		`<td[^>]*>([A-Z]{1,5})</td>.*?` +
		`<td[^>]*>([^<]+)</td>.*?` +
		`<td[^>]*>` + typeFrag + `</td>.*?` +
		`<td[^>]*>` + dateFrag + `</td>.*?` +
		`<td[^>]*>` + amountFrag + `</td>.*?` +
		`</tr>`),
	Fields: Fields{Ticker: 1, Company: 2, Type: 3, Date: 4, Amount: 5},
}

// taggedFields matches XML-style disclosures with tagged key/value fields.
var taggedFields = Pattern{
	Name: "tagged-fields",
	Re: regexp.MustCompile(`(?is)<transaction>.*?` +
		`<ticker>([A-Z]{1,5})</ticker>.*?` +
		`<company[^>]*>([^<]+)</company>.*?` +
		`<type>([^<]+)</type>.*?` +
		`<date>([^<]+)</date>.*?` +
		`<amount>([^<]+)</amount>.*?` +
		`</transaction>`),
	Fields: Fields{Ticker: 1, Company: 2, Type: 3, Date: 4, Amount: 5},
}

// labeledText matches freeform "Label: value" text blocks.
var labeledText = Pattern{
	Name: "labeled-text",
	Re: regexp.MustCompile(`(?i)Security:\s*([A-Z]{1,5})\s+` +
		`Company:\s*([^\n]+?)\s+` +
		`Transaction:\s*` + typeFrag + `\s+` +
		`Date:\s*` + dateFrag + `\s+` +
		`Amount:\s*` + amountFrag),
	Fields: Fields{Ticker: 1, Company: 2, Type: 3, Date: 4, Amount: 5},
}

// pipeDelimited matches pipe-separated report lines:
// AAPL | Apple Inc | Buy | 01/15/2024 | $1,001 - $15,000
var pipeDelimited = Pattern{
	Name: "pipe-delimited",
	Re: regexp.MustCompile(`(?i)([A-Z]{1,5})\s*\|\s*` +
		`([^|\n]+?)\s*\|\s*` +
		typeFrag + `\s*\|\s*` +
		dateFrag + `\s*\|\s*` +
		amountFrag),
	Fields: Fields{Ticker: 1, Company: 2, Type: 3, Date: 4, Amount: 5},
}

// flexibleText matches looser extracted-PDF text where the type token leads:
// Buy AAPL Apple Inc 01/15/2024 $1,001 - $15,000
var flexibleText = Pattern{
	Name: "flexible-text",
	Re: regexp.MustCompile(`(?i)` + typeFrag + `\s+` +
		`([A-Z]{1,5})\s+` +
		`([^$\n]+?)\s+` +
		dateFrag + `\s+` +
		amountFrag),
	Fields: Fields{Type: 1, Ticker: 2, Company: 3, Date: 4, Amount: 5},
}

// HousePatterns is the ordered parser list for House periodic transaction
// reports (downloaded documents, mostly PDF text).
func HousePatterns() []Pattern {
	return []Pattern{pipeDelimited, flexibleText, htmlTableRow}
}

// SenatePatterns is the ordered parser list for Senate electronic filings
// (rendered HTML tables).
func SenatePatterns() []Pattern {
	return []Pattern{htmlTableRow, pipeDelimited, labeledText}
}

// EdgarPatterns is the layered parser list for regulator filings: HTML table
// rows first, then tagged key/value fields, then freeform labeled text.
func EdgarPatterns() []Pattern {
	return []Pattern{htmlTableRow, taggedFields, labeledText}
}
