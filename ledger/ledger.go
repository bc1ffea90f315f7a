// Package ledger stores the manual balances: the account balances the user
// records by hand, in a CSV file with one row per account and date.
//
// The file has a header naming its columns (account, at, balance) in any order.
// Dates are written as 2006-01-02, or RFC 3339 when the balance was observed
// at a specific time of the day. Lines starting with '#' are ignored.
//
// This package is the only one writing the manual ledger file.
package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/etnz/budget"
	"github.com/etnz/budget/internal/logger"
	"github.com/shopspring/decimal"
)

// Filename is the default name of the manual ledger in the data directory.
const Filename = "manual_balances.csv"

const (
	colAccount = "account"
	colAt      = "at"
	colBalance = "balance"
)

// header is the canonical header, in canonical order.
var header = []string{colAccount, colAt, colBalance}

// Decode reads manual balances from a CSV stream.
// source names the stream in error messages.
//
// Every row must parse into an account, a date and a balance, or Decode fails
// with a *budget.MalformedRecordError.
func Decode(r io.Reader, source string) ([]budget.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // checked below, to report a better error.

	head, err := cr.Read()
	if err == io.EOF {
		return []budget.Snapshot{}, nil
	}
	if err != nil {
		return nil, malformed(source, err)
	}
	line, _ := cr.FieldPos(0)
	columns, err := columnsOf(head)
	if err != nil {
		return nil, &budget.MalformedRecordError{Source: source, Line: line, Field: "header", Value: strings.Join(head, ","), Err: err}
	}

	entries := make([]budget.Snapshot, 0)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, malformed(source, err)
		}
		line, _ := cr.FieldPos(0)
		if len(record) != len(head) {
			return nil, &budget.MalformedRecordError{Source: source, Line: line, Field: "row", Value: strings.Join(record, ","),
				Err: fmt.Errorf("got %d fields want %d", len(record), len(head))}
		}
		s, err := decodeRecord(record, columns)
		if err != nil {
			var mre *budget.MalformedRecordError
			if errors.As(err, &mre) {
				mre.Source, mre.Line = source, line
			}
			return nil, err
		}
		entries = append(entries, s)
	}
	return entries, nil
}

// columnsOf returns the index of each required column in the header.
func columnsOf(head []string) (map[string]int, error) {
	columns := make(map[string]int, len(head))
	for i, name := range head {
		name = strings.ToLower(strings.TrimSpace(name))
		if !slices.Contains(header, name) {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		if _, dup := columns[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		columns[name] = i
	}
	for _, name := range header {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return columns, nil
}

func decodeRecord(record []string, columns map[string]int) (budget.Snapshot, error) {
	account := strings.TrimSpace(record[columns[colAccount]])
	if account == "" {
		return budget.Snapshot{}, &budget.MalformedRecordError{Field: colAccount, Err: errors.New("account is required")}
	}

	rawAt := strings.TrimSpace(record[columns[colAt]])
	at, err := budget.ParseAt(rawAt)
	if err != nil {
		return budget.Snapshot{}, &budget.MalformedRecordError{Field: colAt, Value: rawAt, Err: err}
	}

	rawBalance := strings.TrimSpace(record[columns[colBalance]])
	balance, err := decimal.NewFromString(rawBalance)
	if err != nil {
		return budget.Snapshot{}, &budget.MalformedRecordError{Field: colBalance, Value: rawBalance, Err: err}
	}
	return budget.NewSnapshot(account, at, balance), nil
}

// malformed converts a csv parse error into a MalformedRecordError.
func malformed(source string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &budget.MalformedRecordError{Source: source, Line: pe.Line, Field: "row", Err: pe.Err}
	}
	return fmt.Errorf("error reading %s: %w", source, err)
}

// formatBalance keeps the number of decimals the balance was written with.
func formatBalance(d decimal.Decimal) string {
	return d.StringFixed(-min(d.Exponent(), 0))
}

// Validate checks that entries are complete and that no account has two
// entries at the same instant.
func Validate(entries []budget.Snapshot, source string) error {
	seen := make(map[string]int, len(entries))
	for i, s := range entries {
		if field := s.MissingField(); field != "" {
			return &budget.MalformedRecordError{Source: source, Line: i + 1, Field: field, Err: errors.New("required")}
		}
		key := s.Account + "@" + budget.FormatAt(s.At.UTC())
		if j, dup := seen[key]; dup {
			return &budget.MalformedRecordError{Source: source, Line: i + 1, Field: colAt, Value: budget.FormatAt(s.At),
				Err: fmt.Errorf("account %q already has a balance at that date (entry #%d)", s.Account, j+1)}
		}
		seen[key] = i
	}
	return nil
}

// Encode writes entries in canonical form: header first, then rows sorted by
// date then account.
func Encode(w io.Writer, entries []budget.Snapshot) error {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, budget.CompareSnapshots)

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, s := range sorted {
		record := []string{s.Account, budget.FormatAt(s.At), formatBalance(s.Balance.Decimal)}
		if !strings.HasPrefix(s.Account, "#") {
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("failed to write balance of %q at %v: %w", s.Account, s.At, err)
			}
			continue
		}
		// csv.Writer does not quote a leading '#', the row would read back as a comment.
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
		record[0] = `"` + strings.ReplaceAll(s.Account, `"`, `""`) + `"`
		if _, err := io.WriteString(w, strings.Join(record, ",")+"\n"); err != nil {
			return fmt.Errorf("failed to write balance of %q at %v: %w", s.Account, s.At, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Load reads the manual ledger file.
//
// It fails with a *budget.NotFoundError if the file does not exist.
func Load(path string) ([]budget.Snapshot, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &budget.NotFoundError{Path: path, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open manual ledger %q: %w", path, err)
	}
	defer f.Close()

	entries, err := Decode(f, path)
	if err != nil {
		return nil, err
	}
	if err := Validate(entries, path); err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadOrEmpty is like Load but treats a missing file as an empty ledger.
func LoadOrEmpty(ctx context.Context, path string) ([]budget.Snapshot, error) {
	log := logger.FromContext(ctx)
	entries, err := Load(path)
	var nf *budget.NotFoundError
	if errors.As(err, &nf) {
		log.Warn().Str(logger.FieldPath, path).Msg("manual ledger does not exist, using an empty ledger instead")
		return []budget.Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}
	log.Debug().Str(logger.FieldPath, path).Int(logger.FieldRows, len(entries)).Msg("manual ledger loaded")
	return entries, nil
}
