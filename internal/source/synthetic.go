package source

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jalshrestha/capitolwatch/internal/extract"
	"github.com/jalshrestha/capitolwatch/internal/model"
)

// SyntheticConnector generates deterministic-shaped, randomized sample
// records over a small fixed politician/ticker universe. It performs no
// network access and backs test-mode runs.
type SyntheticConnector struct {
	count int
	seed  int64
}

// NewSynthetic creates the sample generator. A zero seed derives one from
// the clock; tests pass a fixed seed.
func NewSynthetic(count int, seed int64) *SyntheticConnector {
	if count <= 0 {
		count = 12
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &SyntheticConnector{count: count, seed: seed}
}

func (c *SyntheticConnector) Name() string { return "synthetic" }

// Discover yields a single pseudo-reference; the generator emits records
// directly.
func (c *SyntheticConnector) Discover(ctx context.Context, w Window) ([]Filing, error) {
	return []Filing{{
		URL:          "synthetic://sample-set",
		ReportedDate: time.Now().UTC(),
		Provenance:   model.ProvenanceSynthetic,
	}}, nil
}

// Extract generates the sample set.
func (c *SyntheticConnector) Extract(ctx context.Context, f Filing) ([]Record, error) {
	return syntheticRecords(c.count, c.seed), nil
}

type syntheticMember struct {
	name, party, chamber, state string
}

type syntheticTicker struct {
	symbol, company string
}

var (
	syntheticMembers = []syntheticMember{
		{"Nancy Pelosi", "Democratic", "House", "CA"},
		{"Dan Crenshaw", "Republican", "House", "TX"},
		{"Josh Gottheimer", "Democratic", "House", "NJ"},
		{"Tommy Tuberville", "Republican", "Senate", "AL"},
		{"Jon Ossoff", "Democratic", "Senate", "GA"},
	}

	syntheticTickers = []syntheticTicker{
		{"AAPL", "Apple Inc"},
		{"MSFT", "Microsoft Corporation"},
		{"NVDA", "NVIDIA Corporation"},
		{"GOOGL", "Alphabet Inc"},
		{"TSLA", "Tesla Inc"},
		{"AMZN", "Amazon.com Inc"},
	}

	syntheticAmounts = []string{
		"$1,001 - $15,000",
		"$15,001 - $50,000",
		"$50,001 - $100,000",
		"$100,001 - $250,000",
	}

	syntheticTypes = []string{model.TradeBuy, model.TradeSell, model.TradeExchange}
)

// syntheticRecords builds count schema-valid sample records. The shape is
// deterministic; the choices are driven by the seeded generator.
func syntheticRecords(count int, seed int64) []Record {
	rng := rand.New(rand.NewSource(seed))
	now := time.Now().UTC()

	records := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		member := syntheticMembers[rng.Intn(len(syntheticMembers))]
		ticker := syntheticTickers[rng.Intn(len(syntheticTickers))]
		amount := syntheticAmounts[rng.Intn(len(syntheticAmounts))]

		txDate := now.AddDate(0, 0, -(rng.Intn(60) + 1)).Truncate(24 * time.Hour)
		repDate := txDate.AddDate(0, 0, rng.Intn(14)+1)

		rec := Record{
			Politician:      member.name,
			Chamber:         member.chamber,
			Ticker:          ticker.symbol,
			CompanyName:     ticker.company,
			Type:            syntheticTypes[rng.Intn(len(syntheticTypes))],
			TransactionDate: txDate,
			ReportedDate:    repDate,
			Amount:          amount,
			AssetType:       "Stock",
			FilingURL:       fmt.Sprintf("synthetic://filings/%d-%d", seed, i),
			Provenance:      model.ProvenanceSynthetic,
		}
		if r := extract.ParseAmountRange(rec.Amount); r != nil {
			rec.AmountMin = &r.Min
			rec.AmountMax = &r.Max
		}
		records = append(records, rec)
	}
	return records
}
