// Package gateway is the write path between connectors and storage. It
// resolves politician identities, suppresses duplicate transactions, and
// fans saved rows out to the optional trade feed.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jalshrestha/capitolwatch/internal/model"
	"github.com/jalshrestha/capitolwatch/internal/registry"
	"github.com/jalshrestha/capitolwatch/internal/source"
	"github.com/jalshrestha/capitolwatch/internal/storage"
)

// Publisher receives each newly saved transaction. Failures are logged and
// never affect the save result.
type Publisher interface {
	Publish(ctx context.Context, tx *model.Transaction) error
}

// Gateway persists extracted records.
type Gateway struct {
	store  storage.Store
	reg    *registry.Registry
	pub    Publisher
	logger *slog.Logger
}

// New builds a gateway. pub may be nil when no feed is configured.
func New(store storage.Store, reg *registry.Registry, pub Publisher, logger *slog.Logger) *Gateway {
	return &Gateway{
		store:  store,
		reg:    reg,
		pub:    pub,
		logger: logger.With("component", "gateway"),
	}
}

// SaveAll persists the given records, skipping any whose natural key is
// already stored. It returns the number of newly saved transactions plus
// the per-record error messages. A failing record never prevents the
// remaining records from being attempted.
func (g *Gateway) SaveAll(ctx context.Context, src string, recs []source.Record) (int, []string) {
	saved := 0
	var errs []string

	for i := range recs {
		rec := &recs[i]

		pol, err := g.resolvePolitician(ctx, rec)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}

		key := storage.NaturalKey{
			PoliticianID:    pol.ID,
			Ticker:          rec.Ticker,
			TransactionDate: rec.TransactionDate,
			Amount:          rec.Amount,
			FilingURL:       rec.FilingURL,
		}
		exists, err := g.store.TransactionExists(ctx, key)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		if exists {
			g.logger.Debug("duplicate transaction skipped",
				"politician", pol.Name, "ticker", rec.Ticker)
			continue
		}

		tx := &model.Transaction{
			ID:              uuid.NewString(),
			PoliticianID:    pol.ID,
			Ticker:          rec.Ticker,
			CompanyName:     rec.CompanyName,
			Type:            rec.Type,
			TransactionDate: rec.TransactionDate,
			ReportedDate:    rec.ReportedDate,
			Amount:          rec.Amount,
			AmountMin:       rec.AmountMin,
			AmountMax:       rec.AmountMax,
			AssetType:       rec.AssetType,
			FilingURL:       rec.FilingURL,
			Source:          src,
			Provenance:      rec.Provenance,
			InsertedAt:      time.Now().UTC(),
		}
		if err := g.store.CreateTransaction(ctx, tx); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		saved++

		if g.pub != nil {
			if err := g.pub.Publish(ctx, tx); err != nil {
				g.logger.Warn("feed publish failed",
					"ticker", tx.Ticker, "error", err)
			}
		}
	}

	return saved, errs
}

// resolvePolitician finds the stored politician matching the record, or
// creates one. Metadata comes from the registry when the member is known;
// otherwise chamber comes from the record and the rest defaults to Unknown.
func (g *Gateway) resolvePolitician(ctx context.Context, rec *source.Record) (*model.Politician, error) {
	pol, err := g.store.FindPolitician(ctx, rec.Politician, rec.Chamber)
	if err != nil {
		return nil, err
	}
	if pol != nil {
		return pol, nil
	}

	pol = &model.Politician{
		ID:        uuid.NewString(),
		Name:      rec.Politician,
		Party:     "Unknown",
		Chamber:   rec.Chamber,
		State:     "Unknown",
		District:  "Unknown",
		CreatedAt: time.Now().UTC(),
	}
	if pol.Chamber == "" {
		pol.Chamber = "Unknown"
	}
	if m, ok := g.reg.Find(rec.Politician); ok {
		pol.Party = m.Party
		pol.Chamber = m.Chamber
		pol.State = m.State
		if m.District != "" {
			pol.District = m.District
		}
	}

	if err := g.store.CreatePolitician(ctx, pol); err != nil {
		return nil, err
	}
	g.logger.Info("politician created", "name", pol.Name, "chamber", pol.Chamber)
	return pol, nil
}
