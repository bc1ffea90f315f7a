package budget

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name      string
		manual    []Snapshot
		automated []Snapshot
		want      []Snapshot
	}{
		{
			name:      "empty",
			manual:    nil,
			automated: nil,
			want:      []Snapshot{},
		},
		{
			name:      "manual wins on collision",
			manual:    []Snapshot{S("A", "2024-01-01", 100)},
			automated: []Snapshot{S("A", "2024-01-01", 90), S("A", "2024-01-02", 110)},
			want:      []Snapshot{S("A", "2024-01-01", 100), S("A", "2024-01-02", 110)},
		},
		{
			name:      "manual wins whatever the input order",
			manual:    []Snapshot{S("A", "2024-01-01", 100)},
			automated: []Snapshot{S("A", "2024-01-02", 110), S("A", "2024-01-01", 90)},
			want:      []Snapshot{S("A", "2024-01-01", 100), S("A", "2024-01-02", 110)},
		},
		{
			name:      "last automated wins",
			automated: []Snapshot{S("A", "2024-01-01", 1), S("A", "2024-01-01", 2)},
			want:      []Snapshot{S("A", "2024-01-01", 2)},
		},
		{
			name:      "last manual wins",
			manual:    []Snapshot{S("A", "2024-01-01", 1), S("A", "2024-01-01", 2)},
			automated: []Snapshot{S("A", "2024-01-01", 3)},
			want:      []Snapshot{S("A", "2024-01-01", 2)},
		},
		{
			name:      "ties on date are ordered by account",
			manual:    []Snapshot{S("savings", "2024-01-01", 5)},
			automated: []Snapshot{S("checking", "2024-01-02", 7), S("checking", "2024-01-01", 3)},
			want: []Snapshot{
				S("checking", "2024-01-01", 3),
				S("savings", "2024-01-01", 5),
				S("checking", "2024-01-02", 7),
			},
		},
		{
			name:      "same day at different times do not collide",
			manual:    []Snapshot{S("A", "2024-01-01", 100)},
			automated: []Snapshot{NewSnapshot("A", time.Date(2024, 1, 1, 9, 30, 0, 0, utc), decimal.NewFromInt(90))},
			want: []Snapshot{
				S("A", "2024-01-01", 100),
				NewSnapshot("A", time.Date(2024, 1, 1, 9, 30, 0, 0, utc), decimal.NewFromInt(90)),
			},
		},
		{
			name:      "same instant in different locations collide",
			manual:    []Snapshot{NewSnapshot("A", time.Date(2024, 1, 1, 1, 0, 0, 0, time.FixedZone("CET", 3600)), decimal.NewFromInt(100))},
			automated: []Snapshot{S("A", "2024-01-01", 90)},
			want:      []Snapshot{S("A", "2024-01-01", 100)},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Reconcile(tc.manual, tc.automated)
			if err != nil {
				t.Fatalf("Reconcile() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got, decimalEqual); diff != "" {
				t.Errorf("Reconcile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconcileDoesNotMutateInputs(t *testing.T) {
	manual := []Snapshot{S("B", "2024-01-02", 1), S("A", "2024-01-01", 2)}
	automated := []Snapshot{S("A", "2024-01-01", 3), S("C", "2023-12-31", 4)}
	manualCopy := append([]Snapshot(nil), manual...)
	automatedCopy := append([]Snapshot(nil), automated...)

	if _, err := Reconcile(manual, automated); err != nil {
		t.Fatalf("Reconcile() unexpected error: %v", err)
	}
	if diff := cmp.Diff(manualCopy, manual, decimalEqual); diff != "" {
		t.Errorf("manual input was modified (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(automatedCopy, automated, decimalEqual); diff != "" {
		t.Errorf("automated input was modified (-want +got):\n%s", diff)
	}
}

// TestReconcileInvariants checks dedup, ordering, manual precedence and
// idempotence on random inputs.
func TestReconcileInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	accounts := []string{"checking", "savings", "credit"}
	random := func(n int) []Snapshot {
		list := make([]Snapshot, n)
		for i := range list {
			on := fmt.Sprintf("2024-01-%02d", 1+r.Intn(10))
			list[i] = S(accounts[r.Intn(len(accounts))], on, float64(r.Intn(1000)))
		}
		return list
	}

	for i := 0; i < 50; i++ {
		manual, automated := random(r.Intn(20)), random(r.Intn(40))
		got, err := Reconcile(manual, automated)
		if err != nil {
			t.Fatalf("Reconcile() unexpected error: %v", err)
		}

		seen := make(map[string]bool)
		for j, s := range got {
			key := s.Account + "@" + s.At.String()
			if seen[key] {
				t.Fatalf("Reconcile() returned twice %s", key)
			}
			seen[key] = true
			if j > 0 && CompareSnapshots(got[j-1], s) >= 0 {
				t.Fatalf("Reconcile() not sorted at %d: %v then %v", j, got[j-1], s)
			}
		}

		// the last manual snapshot of each (account, at) must be the one kept.
		lastManual := make(map[string]Snapshot)
		for _, s := range manual {
			lastManual[s.Account+"@"+s.At.String()] = s
		}
		for _, s := range got {
			if m, ok := lastManual[s.Account+"@"+s.At.String()]; ok && !m.Balance.Decimal.Equal(s.Balance.Decimal) {
				t.Errorf("Reconcile() kept %v instead of manual %v", s, m)
			}
		}

		again, err := Reconcile(got, nil)
		if err != nil {
			t.Fatalf("Reconcile(out, nil) unexpected error: %v", err)
		}
		if diff := cmp.Diff(got, again, decimalEqual); diff != "" {
			t.Errorf("Reconcile is not idempotent (-first +second):\n%s", diff)
		}
	}
}

func TestReconcileInconsistent(t *testing.T) {
	tests := []struct {
		name      string
		manual    []Snapshot
		automated []Snapshot
		want      InconsistentSnapshotError
	}{
		{
			name:   "missing account",
			manual: []Snapshot{S("A", "2024-01-01", 1), S("", "2024-01-01", 1)},
			want:   InconsistentSnapshotError{Origin: Manual, Index: 1, Field: "account"},
		},
		{
			name:      "missing at",
			automated: []Snapshot{{Account: "A", Balance: decimal.NewNullDecimal(decimal.NewFromInt(1))}},
			want:      InconsistentSnapshotError{Origin: Automated, Index: 0, Field: "at"},
		},
		{
			name:      "missing balance",
			automated: []Snapshot{{Account: "A", At: time.Date(2024, 1, 1, 0, 0, 0, 0, utc)}},
			want:      InconsistentSnapshotError{Origin: Automated, Index: 0, Field: "balance"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Reconcile(tc.manual, tc.automated)
			var got *InconsistentSnapshotError
			if !errors.As(err, &got) {
				t.Fatalf("Reconcile() error = %v, want *InconsistentSnapshotError", err)
			}
			if *got != tc.want {
				t.Errorf("Reconcile() error = %+v, want %+v", *got, tc.want)
			}
		})
	}
}
