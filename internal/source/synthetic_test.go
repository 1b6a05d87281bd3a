package source

import (
	"context"
	"testing"
	"time"

	"github.com/jalshrestha/capitolwatch/internal/model"
)

func TestSyntheticGeneratesValidRecords(t *testing.T) {
	conn := NewSynthetic(12, 42)

	filings, err := conn.Discover(context.Background(), Window{})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(filings) != 1 {
		t.Fatalf("Expected 1 filing, got %d", len(filings))
	}

	recs, err := conn.Extract(context.Background(), filings[0])
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(recs) != 12 {
		t.Fatalf("Expected 12 records, got %d", len(recs))
	}

	now := time.Now().UTC()
	for i, r := range recs {
		if r.Politician == "" || r.Ticker == "" || r.CompanyName == "" {
			t.Errorf("Record %d has empty identity fields: %+v", i, r)
		}
		if r.Type != model.TradeBuy && r.Type != model.TradeSell && r.Type != model.TradeExchange {
			t.Errorf("Record %d has unknown type %q", i, r.Type)
		}
		if r.Provenance != model.ProvenanceSynthetic {
			t.Errorf("Record %d provenance = %q, want synthetic", i, r.Provenance)
		}
		if r.TransactionDate.After(now) {
			t.Errorf("Record %d transaction date in the future: %v", i, r.TransactionDate)
		}
		if r.ReportedDate.Before(r.TransactionDate) {
			t.Errorf("Record %d reported before transacted", i)
		}
		if r.AmountMin == nil || r.AmountMax == nil {
			t.Errorf("Record %d missing parsed amount bounds", i)
		} else if *r.AmountMin > *r.AmountMax {
			t.Errorf("Record %d has min %d > max %d", i, *r.AmountMin, *r.AmountMax)
		}
		if r.FilingURL == "" {
			t.Errorf("Record %d missing filing URL", i)
		}
	}
}

func TestSyntheticDeterministicWithFixedSeed(t *testing.T) {
	a, _ := NewSynthetic(8, 7).Extract(context.Background(), Filing{})
	b, _ := NewSynthetic(8, 7).Extract(context.Background(), Filing{})

	if len(a) != len(b) {
		t.Fatalf("Record counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Politician != b[i].Politician || a[i].Ticker != b[i].Ticker ||
			a[i].Type != b[i].Type || a[i].Amount != b[i].Amount {
			t.Errorf("Record %d differs between runs with the same seed", i)
		}
	}
}

func TestSyntheticDefaultCount(t *testing.T) {
	conn := NewSynthetic(0, 1)
	recs, _ := conn.Extract(context.Background(), Filing{})
	if len(recs) != 12 {
		t.Errorf("Expected default count of 12, got %d", len(recs))
	}
}
