package budget

import (
	"slices"
	"time"
)

// Origin tells where a snapshot comes from. It only matters to Reconcile.
type Origin int

const (
	Automated Origin = iota
	Manual
)

func (o Origin) String() string {
	switch o {
	case Manual:
		return "manual"
	case Automated:
		return "automated"
	default:
		return "unknown"
	}
}

// tagged is a snapshot in the working set of the reconciliation.
type tagged struct {
	Snapshot
	origin Origin
}

// instant is a comparable representation of a time.Time, independent of its
// location and monotonic reading.
type instant struct {
	sec  int64
	nsec int
}

func instantOf(t time.Time) instant { return instant{t.Unix(), t.Nanosecond()} }

// Reconcile merges manual and automated snapshots into a single series.
//
// Snapshots are grouped by account, then by exact instant. When several
// snapshots share the same account and instant only one is kept:
//   - a manual snapshot always wins over an automated one, the user correction
//     is authoritative;
//   - between two snapshots of the same origin, the last one in input order wins.
//
// The result is sorted by instant, then by account, with instants in UTC. It
// never contains two snapshots for the same account and instant, and
// Reconcile(out, nil) returns out.
//
// Inputs are not modified. A snapshot with a missing required field aborts the
// reconciliation with an *InconsistentSnapshotError.
func Reconcile(manual, automated []Snapshot) ([]Snapshot, error) {
	work := make([]tagged, 0, len(manual)+len(automated))
	for _, input := range []struct {
		origin    Origin
		snapshots []Snapshot
	}{{Manual, manual}, {Automated, automated}} {
		for i, s := range input.snapshots {
			if field := s.MissingField(); field != "" {
				return nil, &InconsistentSnapshotError{Origin: input.origin, Index: i, Field: field}
			}
			work = append(work, tagged{Snapshot: s, origin: input.origin})
		}
	}

	accounts := make(map[string]map[instant]tagged)
	for _, t := range work {
		group, ok := accounts[t.Account]
		if !ok {
			group = make(map[instant]tagged)
			accounts[t.Account] = group
		}
		at := instantOf(t.At)
		if current, exists := group[at]; exists && current.origin == Manual && t.origin == Automated {
			continue
		}
		group[at] = t
	}

	series := make([]Snapshot, 0, len(work))
	for _, group := range accounts {
		for _, t := range group {
			s := t.Snapshot
			s.At = s.At.UTC()
			series = append(series, s)
		}
	}
	slices.SortFunc(series, CompareSnapshots)
	return series, nil
}
