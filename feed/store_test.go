package feed

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/budget"
	"github.com/etnz/budget/date"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", StoreFilename)

	if _, err := OpenStore(path); !errors.As(err, new(*budget.NotFoundError)) {
		t.Fatalf("OpenStore() error = %v, want *budget.NotFoundError", err)
	}
	if _, err := (StoreCollector{Path: path}).Collect(ctx); !errors.As(err, new(*budget.NotFoundError)) {
		t.Fatalf("StoreCollector.Collect() error = %v, want *budget.NotFoundError", err)
	}

	store, err := CreateStore(path)
	if err != nil {
		t.Fatalf("CreateStore() unexpected error: %v", err)
	}
	defer store.Close()

	morning := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	first := budget.Feed{
		Snapshots: []budget.Snapshot{
			budget.NewSnapshot("checking", morning, decimal.RequireFromString("100.25")),
			budget.NewSnapshot("checking", date.New(2024, 1, 1).Time(), decimal.NewFromInt(90)),
		},
		Transactions: []budget.Transaction{
			{On: date.New(2024, 1, 2), Amount: decimal.RequireFromString("-3.10"), Account: "checking", Category: "coffee"},
		},
	}
	second := budget.Feed{
		Snapshots: []budget.Snapshot{
			// same account and instant: replaces the first one.
			budget.NewSnapshot("checking", morning, decimal.RequireFromString("101")),
		},
		Transactions: []budget.Transaction{
			{On: date.New(2024, 1, 1), Amount: decimal.NewFromInt(-50), Account: "checking", Description: "gas"},
		},
	}
	if err := store.Record(ctx, "bank", first); err != nil {
		t.Fatalf("Record() unexpected error: %v", err)
	}
	if err := store.Record(ctx, "bank", second); err != nil {
		t.Fatalf("Record() unexpected error: %v", err)
	}

	got, err := store.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect() unexpected error: %v", err)
	}
	want := budget.Feed{
		Snapshots: []budget.Snapshot{
			budget.NewSnapshot("checking", date.New(2024, 1, 1).Time(), decimal.NewFromInt(90)),
			budget.NewSnapshot("checking", morning, decimal.NewFromInt(101)),
		},
		Transactions: append(first.Transactions, second.Transactions...),
	}
	if diff := cmp.Diff(want, got, decimalEqual); diff != "" {
		t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
	}

	// the store can be opened again, migrations are not replayed.
	again, err := OpenStore(path)
	if err != nil {
		t.Fatalf("OpenStore() unexpected error: %v", err)
	}
	defer again.Close()
}

func TestStoreRecordRejectsIncomplete(t *testing.T) {
	ctx := context.Background()
	store, err := CreateStore(filepath.Join(t.TempDir(), StoreFilename))
	if err != nil {
		t.Fatalf("CreateStore() unexpected error: %v", err)
	}
	defer store.Close()

	bad := budget.Feed{Snapshots: []budget.Snapshot{
		budget.NewSnapshot("A", date.New(2024, 1, 1).Time(), decimal.NewFromInt(1)),
		{Account: "B", At: date.New(2024, 1, 1).Time()},
	}}
	if err := store.Record(ctx, "bank", bad); !errors.As(err, new(*budget.MalformedRecordError)) {
		t.Fatalf("Record() error = %v, want *budget.MalformedRecordError", err)
	}
	got, err := store.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect() unexpected error: %v", err)
	}
	if len(got.Snapshots) != 0 {
		t.Errorf("Record() committed %d snapshots of a rejected feed", len(got.Snapshots))
	}
}
