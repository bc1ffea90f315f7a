// Package feed implements budget.Collector on top of the sources automated
// collectors leave behind: JSON export files and a SQLite collector store.
package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/etnz/budget/internal/logger"
	"github.com/shopspring/decimal"
)

// Default jsonpath expressions selecting records in a collector export.
const (
	DefaultSnapshotsPath    = "$.snapshots[*]"
	DefaultTransactionsPath = "$.transactions[*]"
)

// JSONFile is a collector export: a JSON document holding snapshots and
// transactions records, located by jsonpath expressions.
//
// A snapshot record has "account", "at" and "balance" properties, a
// transaction record has "on", "amount", "account" and optional "category"
// and "description". Amounts are numbers or strings holding a number.
type JSONFile struct {
	Path             string
	SnapshotsPath    string // empty to read no snapshots
	TransactionsPath string // empty to read no transactions
}

// NewJSONFile returns a collector reading path with default expressions.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{Path: path, SnapshotsPath: DefaultSnapshotsPath, TransactionsPath: DefaultTransactionsPath}
}

func (f *JSONFile) Name() string { return "json:" + filepath.Base(f.Path) }

// Collect reads the export file. A missing file is reported as a *budget.NotFoundError.
func (f *JSONFile) Collect(ctx context.Context) (budget.Feed, error) {
	content, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return budget.Feed{}, &budget.NotFoundError{Path: f.Path, Err: err}
	}
	if err != nil {
		return budget.Feed{}, fmt.Errorf("cannot read collector export %q: %w", f.Path, err)
	}
	feed, err := DecodeJSON(bytes.NewReader(content), f.Path, f.SnapshotsPath, f.TransactionsPath)
	if err != nil {
		return budget.Feed{}, err
	}
	log := logger.FromContext(ctx)
	log.Debug().Str(logger.FieldPath, f.Path).Int(logger.FieldRows, len(feed.Snapshots)+len(feed.Transactions)).Msg("collector export read")
	return feed, nil
}

// DecodeJSON decodes a collector export document.
func DecodeJSON(r io.Reader, source, snapshotsPath, transactionsPath string) (budget.Feed, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber() // keep amounts exact
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return budget.Feed{}, &budget.MalformedRecordError{Source: source, Field: "document", Err: err}
	}

	feed := budget.Feed{Snapshots: []budget.Snapshot{}, Transactions: []budget.Transaction{}}
	if snapshotsPath != "" {
		records, err := selectRecords(doc, source, snapshotsPath)
		if err != nil {
			return budget.Feed{}, err
		}
		for i, rec := range records {
			s, err := decodeSnapshot(rec)
			if err != nil {
				return budget.Feed{}, locate(err, source+" "+snapshotsPath, i)
			}
			feed.Snapshots = append(feed.Snapshots, s)
		}
	}
	if transactionsPath != "" {
		records, err := selectRecords(doc, source, transactionsPath)
		if err != nil {
			return budget.Feed{}, err
		}
		for i, rec := range records {
			tx, err := decodeTransaction(rec)
			if err != nil {
				return budget.Feed{}, locate(err, source+" "+transactionsPath, i)
			}
			feed.Transactions = append(feed.Transactions, tx)
		}
	}
	return feed, nil
}

// selectRecords evaluates path on doc and returns the selected objects.
func selectRecords(doc any, source, path string) ([]map[string]any, error) {
	jval, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, &budget.MalformedRecordError{Source: source, Field: path, Err: err}
	}
	// jsonpath returns a single value for definite paths, a list otherwise.
	list, ok := jval.([]any)
	if !ok {
		list = []any{jval}
	}
	records := make([]map[string]any, 0, len(list))
	for i, v := range list {
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, &budget.MalformedRecordError{Source: source + " " + path, Line: i + 1, Field: "record", Err: fmt.Errorf("want an object got %T", v)}
		}
		records = append(records, obj)
	}
	return records, nil
}

// locate fills the position of a MalformedRecordError.
func locate(err error, source string, i int) error {
	var mre *budget.MalformedRecordError
	if errors.As(err, &mre) {
		mre.Source, mre.Line = source, i+1
	}
	return err
}

func decodeSnapshot(rec map[string]any) (budget.Snapshot, error) {
	account, err := stringField(rec, "account", true)
	if err != nil {
		return budget.Snapshot{}, err
	}
	rawAt, err := stringField(rec, "at", true)
	if err != nil {
		return budget.Snapshot{}, err
	}
	at, err := budget.ParseAt(rawAt)
	if err != nil {
		return budget.Snapshot{}, &budget.MalformedRecordError{Field: "at", Value: rawAt, Err: err}
	}
	balance, err := decimalField(rec, "balance")
	if err != nil {
		return budget.Snapshot{}, err
	}
	return budget.NewSnapshot(account, at, balance), nil
}

func decodeTransaction(rec map[string]any) (budget.Transaction, error) {
	rawOn, err := stringField(rec, "on", true)
	if err != nil {
		return budget.Transaction{}, err
	}
	at, err := budget.ParseAt(rawOn)
	if err != nil {
		return budget.Transaction{}, &budget.MalformedRecordError{Field: "on", Value: rawOn, Err: err}
	}
	amount, err := decimalField(rec, "amount")
	if err != nil {
		return budget.Transaction{}, err
	}
	account, err := stringField(rec, "account", true)
	if err != nil {
		return budget.Transaction{}, err
	}
	category, err := stringField(rec, "category", false)
	if err != nil {
		return budget.Transaction{}, err
	}
	description, err := stringField(rec, "description", false)
	if err != nil {
		return budget.Transaction{}, err
	}
	return budget.Transaction{
		On:          date.Of(at.UTC()),
		Amount:      amount,
		Account:     account,
		Category:    category,
		Description: description,
	}, nil
}

func stringField(rec map[string]any, name string, required bool) (string, error) {
	v, ok := rec[name]
	if !ok || v == nil {
		if required {
			return "", &budget.MalformedRecordError{Field: name, Err: errors.New("required")}
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &budget.MalformedRecordError{Field: name, Value: fmt.Sprint(v), Err: fmt.Errorf("want a string got %T", v)}
	}
	if required && s == "" {
		return "", &budget.MalformedRecordError{Field: name, Err: errors.New("required")}
	}
	return s, nil
}

func decimalField(rec map[string]any, name string) (decimal.Decimal, error) {
	var raw string
	switch v := rec[name].(type) {
	case nil:
		return decimal.Decimal{}, &budget.MalformedRecordError{Field: name, Err: errors.New("required")}
	case json.Number:
		raw = v.String()
	case string:
		raw = v
	default:
		return decimal.Decimal{}, &budget.MalformedRecordError{Field: name, Value: fmt.Sprint(v), Err: fmt.Errorf("want a number got %T", v)}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &budget.MalformedRecordError{Field: name, Value: raw, Err: err}
	}
	return d, nil
}
