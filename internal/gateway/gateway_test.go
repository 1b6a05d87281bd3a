package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jalshrestha/capitolwatch/internal/model"
	"github.com/jalshrestha/capitolwatch/internal/registry"
	"github.com/jalshrestha/capitolwatch/internal/source"
	"github.com/jalshrestha/capitolwatch/internal/storage"
)

// fakeStore is an in-memory Store for gateway tests.
type fakeStore struct {
	politicians  []*model.Politician
	transactions []*model.Transaction
	runs         []*model.ScrapeRun

	failCreateTx func(tx *model.Transaction) error
}

func (s *fakeStore) FindPolitician(ctx context.Context, name, chamber string) (*model.Politician, error) {
	for _, p := range s.politicians {
		if p.Name != name {
			continue
		}
		if chamber != "" && chamber != "Unknown" && p.Chamber != chamber {
			continue
		}
		return p, nil
	}
	return nil, nil
}

func (s *fakeStore) CreatePolitician(ctx context.Context, p *model.Politician) error {
	s.politicians = append(s.politicians, p)
	return nil
}

func (s *fakeStore) TransactionExists(ctx context.Context, key storage.NaturalKey) (bool, error) {
	for _, tx := range s.transactions {
		if tx.PoliticianID == key.PoliticianID && tx.Ticker == key.Ticker &&
			tx.TransactionDate.Equal(key.TransactionDate) &&
			tx.Amount == key.Amount && tx.FilingURL == key.FilingURL {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	if s.failCreateTx != nil {
		if err := s.failCreateTx(tx); err != nil {
			return err
		}
	}
	s.transactions = append(s.transactions, tx)
	return nil
}

func (s *fakeStore) CreateScrapeRun(ctx context.Context, run *model.ScrapeRun) error {
	s.runs = append(s.runs, run)
	return nil
}

func (s *fakeStore) FinishScrapeRun(ctx context.Context, run *model.ScrapeRun) error {
	return nil
}

func (s *fakeStore) Close() error { return nil }

const gatewayTestMembers = `
- name: Nancy Pelosi
  party: Democratic
  chamber: House
  state: CA
  district: CA-11
`

func testGateway(t *testing.T, store storage.Store) *Gateway {
	t.Helper()
	reg, err := registry.Parse([]byte(gatewayTestMembers))
	if err != nil {
		t.Fatalf("registry parse failed: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, reg, nil, logger)
}

func testRecord(politician, ticker string) source.Record {
	return source.Record{
		Politician:      politician,
		Chamber:         "House",
		Ticker:          ticker,
		CompanyName:     ticker + " Inc",
		Type:            model.TradeBuy,
		TransactionDate: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		ReportedDate:    time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC),
		Amount:          "$1,001 - $15,000",
		AssetType:       "Stock",
		FilingURL:       "https://example.com/filing/" + ticker,
		Provenance:      model.ProvenanceVerified,
	}
}

func TestSaveAllCreatesPoliticianFromRegistry(t *testing.T) {
	store := &fakeStore{}
	gw := testGateway(t, store)

	saved, errs := gw.SaveAll(context.Background(), "house", []source.Record{
		testRecord("Nancy Pelosi", "AAPL"),
	})
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if saved != 1 {
		t.Fatalf("Expected 1 saved, got %d", saved)
	}

	if len(store.politicians) != 1 {
		t.Fatalf("Expected 1 politician created, got %d", len(store.politicians))
	}
	p := store.politicians[0]
	if p.Party != "Democratic" || p.State != "CA" || p.District != "CA-11" {
		t.Errorf("Expected registry metadata applied, got %+v", p)
	}
	if p.ID == "" {
		t.Error("Expected generated politician ID")
	}

	tx := store.transactions[0]
	if tx.Source != "house" {
		t.Errorf("Expected source house, got %q", tx.Source)
	}
	if tx.PoliticianID != p.ID {
		t.Error("Expected transaction linked to created politician")
	}
}

func TestSaveAllUnknownPoliticianDefaults(t *testing.T) {
	store := &fakeStore{}
	gw := testGateway(t, store)

	rec := testRecord("Somebody New", "TSLA")
	saved, errs := gw.SaveAll(context.Background(), "senate", []source.Record{rec})
	if saved != 1 || len(errs) != 0 {
		t.Fatalf("Expected clean save, got saved=%d errs=%v", saved, errs)
	}

	p := store.politicians[0]
	if p.Party != "Unknown" || p.State != "Unknown" || p.District != "Unknown" {
		t.Errorf("Expected Unknown defaults for unregistered member, got %+v", p)
	}
	if p.Chamber != "House" {
		t.Errorf("Expected chamber carried from record, got %q", p.Chamber)
	}
}

func TestSaveAllDeduplicates(t *testing.T) {
	store := &fakeStore{}
	gw := testGateway(t, store)

	rec := testRecord("Nancy Pelosi", "AAPL")

	saved, _ := gw.SaveAll(context.Background(), "house", []source.Record{rec})
	if saved != 1 {
		t.Fatalf("Expected first save, got %d", saved)
	}

	// Same natural key again: skipped, not an error.
	saved, errs := gw.SaveAll(context.Background(), "house", []source.Record{rec})
	if saved != 0 {
		t.Errorf("Expected duplicate skipped, got %d saved", saved)
	}
	if len(errs) != 0 {
		t.Errorf("Duplicate skip should not be an error, got %v", errs)
	}
	if len(store.transactions) != 1 {
		t.Errorf("Expected 1 stored transaction, got %d", len(store.transactions))
	}
}

func TestSaveAllNaturalKeyDiscriminates(t *testing.T) {
	store := &fakeStore{}
	gw := testGateway(t, store)

	a := testRecord("Nancy Pelosi", "AAPL")
	b := testRecord("Nancy Pelosi", "AAPL")
	b.Amount = "$15,001 - $50,000"

	saved, errs := gw.SaveAll(context.Background(), "house", []source.Record{a, b})
	if len(errs) != 0 {
		t.Fatalf("Unexpected errors: %v", errs)
	}
	if saved != 2 {
		t.Errorf("Records differing in amount are distinct, expected 2 saved, got %d", saved)
	}
}

func TestSaveAllIsolatesRecordFailures(t *testing.T) {
	store := &fakeStore{
		failCreateTx: func(tx *model.Transaction) error {
			if tx.Ticker == "MSFT" {
				return &storage.PersistenceError{Op: "create transaction", Err: errors.New("insert failed")}
			}
			return nil
		},
	}
	gw := testGateway(t, store)

	recs := []source.Record{
		testRecord("Nancy Pelosi", "AAPL"),
		testRecord("Nancy Pelosi", "MSFT"),
		testRecord("Nancy Pelosi", "NVDA"),
	}

	saved, errs := gw.SaveAll(context.Background(), "house", recs)
	if saved != 2 {
		t.Errorf("Expected 2 saved around the failing record, got %d", saved)
	}
	if len(errs) != 1 {
		t.Fatalf("Expected 1 error, got %d: %v", len(errs), errs)
	}
}

type recordingPublisher struct {
	published []*model.Transaction
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, tx *model.Transaction) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, tx)
	return nil
}

func TestSaveAllPublishesSavedTransactions(t *testing.T) {
	store := &fakeStore{}
	reg, _ := registry.Parse([]byte(gatewayTestMembers))
	pub := &recordingPublisher{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := New(store, reg, pub, logger)

	rec := testRecord("Nancy Pelosi", "AAPL")
	gw.SaveAll(context.Background(), "house", []source.Record{rec, rec})

	// Only the non-duplicate save is published.
	if len(pub.published) != 1 {
		t.Errorf("Expected 1 published transaction, got %d", len(pub.published))
	}
}

func TestSaveAllPublishFailureIsNotASaveError(t *testing.T) {
	store := &fakeStore{}
	reg, _ := registry.Parse([]byte(gatewayTestMembers))
	pub := &recordingPublisher{err: errors.New("broker down")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := New(store, reg, pub, logger)

	saved, errs := gw.SaveAll(context.Background(), "house", []source.Record{testRecord("Nancy Pelosi", "AAPL")})
	if saved != 1 {
		t.Errorf("Expected save to succeed despite publish failure, got %d", saved)
	}
	if len(errs) != 0 {
		t.Errorf("Publish failure must not surface as a save error, got %v", errs)
	}
}
