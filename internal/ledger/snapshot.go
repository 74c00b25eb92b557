package ledger

import "liquiledger/internal/core"

// Snapshot is the immutable point-in-time view handed to renderers:
// ordered month buckets plus the running totals. A snapshot is built once
// and never mutated, so readers cannot race with engine mutations.
type Snapshot struct {
	Buckets []MonthBucket
	Totals  Totals
}

// Empty returns the snapshot of a ledger with no entries.
func Empty() Snapshot {
	return Snapshot{}
}

// Build rebuilds the full derived view from the canonical entry sequence.
func Build(entries []core.Entry) (Snapshot, error) {
	buckets, err := BuildBuckets(entries)
	if err != nil {
		return Snapshot{}, err
	}
	totals, err := ComputeTotals(entries)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Buckets: buckets, Totals: totals}, nil
}

// EntryCount reports how many entries the snapshot covers.
func (s Snapshot) EntryCount() int {
	n := 0
	for _, b := range s.Buckets {
		n += len(b.Entries)
	}
	return n
}
