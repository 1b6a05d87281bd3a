// Package storage persists politicians, transactions, and scrape runs.
// Implementations must be safe for concurrent use.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/clickhouse"
	"gorm.io/gorm"

	"github.com/jalshrestha/capitolwatch/internal/model"
)

// PersistenceError reports a failed storage operation. It is caught at the
// per-record level and never aborts the enclosing connector.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NaturalKey is the field combination that must be unique per stored
// transaction, used for duplicate suppression.
type NaturalKey struct {
	PoliticianID    string
	Ticker          string
	TransactionDate time.Time
	Amount          string
	FilingURL       string
}

// Store is the persistence interface consumed by the gateway and the
// orchestrator.
type Store interface {
	// FindPolitician looks up a politician by display name, narrowed by
	// chamber when one is known. Returns (nil, nil) when absent.
	FindPolitician(ctx context.Context, name, chamber string) (*model.Politician, error)

	// CreatePolitician inserts a new politician row. Existing rows are
	// never overwritten or merged.
	CreatePolitician(ctx context.Context, p *model.Politician) error

	// TransactionExists reports whether a transaction with the given
	// natural key is already stored.
	TransactionExists(ctx context.Context, key NaturalKey) (bool, error)

	// CreateTransaction inserts a transaction row.
	CreateTransaction(ctx context.Context, tx *model.Transaction) error

	// CreateScrapeRun inserts the initial Running row for a run.
	CreateScrapeRun(ctx context.Context, run *model.ScrapeRun) error

	// FinishScrapeRun writes the finalized run fields. Called exactly once
	// per run.
	FinishScrapeRun(ctx context.Context, run *model.ScrapeRun) error

	// Close releases database connection resources.
	Close() error
}

// gormStore implements Store over ClickHouse through gorm.
type gormStore struct {
	db *gorm.DB
}

// Open connects to ClickHouse using the given DSN.
func Open(dsn string) (Store, error) {
	db, err := gorm.Open(clickhouse.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("storage: connect: %w", err)
	}
	return NewGormStore(db), nil
}

// NewGormStore wraps an existing gorm connection.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindPolitician(ctx context.Context, name, chamber string) (*model.Politician, error) {
	q := s.db.WithContext(ctx).Where("name = ?", name)
	if chamber != "" && chamber != "Unknown" {
		q = q.Where("chamber = ?", chamber)
	}

	var p model.Politician
	err := q.First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &PersistenceError{Op: "find politician", Err: err}
	}
	return &p, nil
}

func (s *gormStore) CreatePolitician(ctx context.Context, p *model.Politician) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return &PersistenceError{Op: "create politician", Err: err}
	}
	return nil
}

func (s *gormStore) TransactionExists(ctx context.Context, key NaturalKey) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("politician_id = ? AND ticker = ? AND transaction_date = ? AND amount = ? AND filing_url = ?",
			key.PoliticianID, key.Ticker, key.TransactionDate, key.Amount, key.FilingURL).
		Count(&count).Error
	if err != nil {
		return false, &PersistenceError{Op: "transaction lookup", Err: err}
	}
	return count > 0, nil
}

func (s *gormStore) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	if err := s.db.WithContext(ctx).Create(tx).Error; err != nil {
		return &PersistenceError{Op: "create transaction", Err: err}
	}
	return nil
}

func (s *gormStore) CreateScrapeRun(ctx context.Context, run *model.ScrapeRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return &PersistenceError{Op: "create scrape run", Err: err}
	}
	return nil
}

func (s *gormStore) FinishScrapeRun(ctx context.Context, run *model.ScrapeRun) error {
	values, err := finishRunValues(run)
	if err != nil {
		return &PersistenceError{Op: "finish scrape run", Err: err}
	}

	err = s.db.WithContext(ctx).
		Model(&model.ScrapeRun{}).
		Where("id = ?", run.ID).
		Updates(values).Error
	if err != nil {
		return &PersistenceError{Op: "finish scrape run", Err: err}
	}
	return nil
}

// finishRunValues builds the finalization assignment map. The map-update
// path does not run gorm's json serializer, so the per-source maps and the
// error list are marshaled here and bound as strings.
func finishRunValues(run *model.ScrapeRun) (map[string]any, error) {
	perFound, err := json.Marshal(run.PerSourceFound)
	if err != nil {
		return nil, err
	}
	perSaved, err := json.Marshal(run.PerSourceSaved)
	if err != nil {
		return nil, err
	}
	errList, err := json.Marshal(run.Errors)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"end_time":         run.EndTime,
		"status":           run.Status,
		"total_found":      run.TotalFound,
		"total_saved":      run.TotalSaved,
		"per_source_found": string(perFound),
		"per_source_saved": string(perSaved),
		"errors":           string(errList),
	}, nil
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
