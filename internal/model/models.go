// Package model defines the domain models used across the application.
package model

import "time"

// TradeType is the canonical transaction type. Tokens the normalizer cannot
// classify are stored as-is, so columns using it remain plain strings.
const (
	TradeBuy      = "Buy"
	TradeSell     = "Sell"
	TradeExchange = "Exchange"
)

// Provenance labels the trust tier of a transaction record.
type Provenance string

const (
	// ProvenanceVerified marks records extracted from an official filing or
	// a verified bulk dataset.
	ProvenanceVerified Provenance = "verified"

	// ProvenanceCurated marks records from the hand-maintained fallback set
	// of known-real recent filings.
	ProvenanceCurated Provenance = "curated"

	// ProvenanceSynthetic marks generated sample records.
	ProvenanceSynthetic Provenance = "synthetic"
)

// RunStatus is the lifecycle state of a ScrapeRun.
type RunStatus string

const (
	RunRunning        RunStatus = "Running"
	RunSuccess        RunStatus = "Success"
	RunPartialFailure RunStatus = "PartialFailure"
	RunNoData         RunStatus = "NoData"
)

// Politician is an elected official appearing in disclosure filings.
// Records are created lazily on the first unseen trade and are never merged
// or renamed afterwards; unmatched fields default to "Unknown".
type Politician struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name" json:"name"`
	Party     string    `gorm:"column:party" json:"party"`
	Chamber   string    `gorm:"column:chamber" json:"chamber"`
	State     string    `gorm:"column:state" json:"state"`
	District  string    `gorm:"column:district" json:"district,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// Transaction is a single disclosed stock transaction.
//
// The natural key (PoliticianID, Ticker, TransactionDate, Amount, FilingURL)
// must be unique; insertion is skip-if-exists and rows are never updated in
// place. When both amount bounds are present, AmountMin <= AmountMax.
type Transaction struct {
	ID           string `gorm:"column:id;primaryKey" json:"id"`
	PoliticianID string `gorm:"column:politician_id" json:"politician_id"`

	Ticker      string `gorm:"column:ticker" json:"ticker"`
	CompanyName string `gorm:"column:company_name" json:"company_name,omitempty"`

	// Type is Buy, Sell or Exchange; unrecognized source tokens pass
	// through unchanged.
	Type string `gorm:"column:transaction_type" json:"transaction_type"`

	TransactionDate time.Time `gorm:"column:transaction_date" json:"transaction_date"`
	ReportedDate    time.Time `gorm:"column:reported_date" json:"reported_date"`

	// Amount is the display string from the filing, e.g. "$1,001 - $15,000".
	Amount    string `gorm:"column:amount" json:"amount"`
	AmountMin *int64 `gorm:"column:amount_min" json:"amount_min,omitempty"`
	AmountMax *int64 `gorm:"column:amount_max" json:"amount_max,omitempty"`

	AssetType string `gorm:"column:asset_type" json:"asset_type"`
	FilingURL string `gorm:"column:filing_url" json:"filing_url"`

	// Source is the connector that produced the record (house, senate, ...).
	Source     string     `gorm:"column:source" json:"source"`
	Provenance Provenance `gorm:"column:provenance" json:"provenance"`

	InsertedAt time.Time `gorm:"column:inserted_at" json:"inserted_at"`
}

// ScrapeRun is the persisted record of one pipeline run. It is created at
// run start with status Running and finalized exactly once at run end.
type ScrapeRun struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	StartTime time.Time `gorm:"column:start_time" json:"start_time"`
	EndTime   time.Time `gorm:"column:end_time" json:"end_time"`
	Status    RunStatus `gorm:"column:status" json:"status"`

	TotalFound int `gorm:"column:total_found" json:"total_found"`
	TotalSaved int `gorm:"column:total_saved" json:"total_saved"`

	// PerSourceFound and PerSourceSaved break the totals down by connector.
	PerSourceFound map[string]int `gorm:"column:per_source_found;serializer:json" json:"per_source_found"`
	PerSourceSaved map[string]int `gorm:"column:per_source_saved;serializer:json" json:"per_source_saved"`

	// Errors is the ordered list of error strings, each prefixed with the
	// source name that produced it.
	Errors []string `gorm:"column:errors;serializer:json" json:"errors"`
}
