package feed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/internal/logger"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

// StoreFilename is the default name of the collector store in the data directory.
const StoreFilename = "collectors.sqlite"

// Store is the SQLite database where automated collectors record what they
// observe. It keeps at most one snapshot per account and instant, the last
// recorded one.
type Store struct {
	path string
	db   *sql.DB
}

// OpenStore opens an existing collector store.
// It fails with a *budget.NotFoundError if the database file does not exist.
func OpenStore(path string) (*Store, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, &budget.NotFoundError{Path: path, Err: err}
	}
	return open(path)
}

// CreateStore opens the collector store, creating it if needed.
func CreateStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return open(path)
}

func open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(path); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{path: path, db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) Name() string { return "sqlite:" + filepath.Base(s.path) }

// Record saves a feed reported by a collector.
//
// A snapshot replaces any snapshot already recorded for the same account and
// instant. Transactions are appended.
func (s *Store) Record(ctx context.Context, collector string, feed budget.Feed) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for i, snap := range feed.Snapshots {
		if field := snap.MissingField(); field != "" {
			return &budget.MalformedRecordError{Source: collector, Line: i + 1, Field: field, Err: errors.New("required")}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO snapshots (account, at, balance, collector) VALUES (?, ?, ?, ?)`,
			snap.Account, snap.At.UTC().Format(time.RFC3339Nano), snap.Balance.Decimal.String(), collector)
		if err != nil {
			return fmt.Errorf("insert snapshot of %q: %w", snap.Account, err)
		}
	}
	for i, t := range feed.Transactions {
		if field := t.MissingField(); field != "" {
			return &budget.MalformedRecordError{Source: collector, Line: i + 1, Field: field, Err: errors.New("required")}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transactions (on_date, amount, account, category, description, collector) VALUES (?, ?, ?, ?, ?, ?)`,
			t.On.String(), t.Amount.String(), t.Account, t.Category, t.Description, collector)
		if err != nil {
			return fmt.Errorf("insert transaction of %q: %w", t.Account, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Info().Str(logger.FieldCollector, collector).
		Int("snapshots", len(feed.Snapshots)).
		Int("transactions", len(feed.Transactions)).
		Msg("feed recorded")
	return nil
}

// Collect reads everything recorded in the store.
func (s *Store) Collect(ctx context.Context) (budget.Feed, error) {
	feed := budget.Feed{Snapshots: []budget.Snapshot{}, Transactions: []budget.Transaction{}}

	rows, err := s.db.QueryContext(ctx, `SELECT account, at, balance FROM snapshots ORDER BY at, account`)
	if err != nil {
		return budget.Feed{}, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()
	for i := 1; rows.Next(); i++ {
		var account, rawAt, rawBalance string
		if err := rows.Scan(&account, &rawAt, &rawBalance); err != nil {
			return budget.Feed{}, fmt.Errorf("scan snapshot: %w", err)
		}
		at, err := time.Parse(time.RFC3339Nano, rawAt)
		if err != nil {
			return budget.Feed{}, &budget.MalformedRecordError{Source: s.Name() + " snapshots", Line: i, Field: "at", Value: rawAt, Err: err}
		}
		balance, err := decimal.NewFromString(rawBalance)
		if err != nil {
			return budget.Feed{}, &budget.MalformedRecordError{Source: s.Name() + " snapshots", Line: i, Field: "balance", Value: rawBalance, Err: err}
		}
		feed.Snapshots = append(feed.Snapshots, budget.NewSnapshot(account, at, balance))
	}
	if err := rows.Err(); err != nil {
		return budget.Feed{}, fmt.Errorf("read snapshots: %w", err)
	}

	txRows, err := s.db.QueryContext(ctx, `SELECT on_date, amount, account, category, description FROM transactions ORDER BY id`)
	if err != nil {
		return budget.Feed{}, fmt.Errorf("query transactions: %w", err)
	}
	defer txRows.Close()
	for i := 1; txRows.Next(); i++ {
		var rawOn, rawAmount string
		var t budget.Transaction
		if err := txRows.Scan(&rawOn, &rawAmount, &t.Account, &t.Category, &t.Description); err != nil {
			return budget.Feed{}, fmt.Errorf("scan transaction: %w", err)
		}
		if t.On, err = date.Parse(rawOn); err != nil {
			return budget.Feed{}, &budget.MalformedRecordError{Source: s.Name() + " transactions", Line: i, Field: "on", Value: rawOn, Err: err}
		}
		if t.Amount, err = decimal.NewFromString(rawAmount); err != nil {
			return budget.Feed{}, &budget.MalformedRecordError{Source: s.Name() + " transactions", Line: i, Field: "amount", Value: rawAmount, Err: err}
		}
		feed.Transactions = append(feed.Transactions, t)
	}
	if err := txRows.Err(); err != nil {
		return budget.Feed{}, fmt.Errorf("read transactions: %w", err)
	}

	log := logger.FromContext(ctx)
	log.Debug().Str(logger.FieldPath, s.path).
		Int("snapshots", len(feed.Snapshots)).
		Int("transactions", len(feed.Transactions)).
		Msg("collector store read")
	return feed, nil
}

// StoreCollector is a budget.Collector opening the store only while collecting.
type StoreCollector struct{ Path string }

func (c StoreCollector) Name() string { return "sqlite:" + filepath.Base(c.Path) }

func (c StoreCollector) Collect(ctx context.Context) (budget.Feed, error) {
	s, err := OpenStore(c.Path)
	if err != nil {
		return budget.Feed{}, err
	}
	defer s.Close()
	return s.Collect(ctx)
}
