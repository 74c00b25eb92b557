// Package ledger derives the month-grouped view of an entry set: per-month
// buckets with balances and the running totals. Everything here is a
// disposable view rebuilt from scratch on each mutation; no incremental
// patching, so the sort and aggregate invariants hold trivially.
package ledger

import (
	"sort"

	"liquiledger/internal/core"
)

// MonthBucket holds one calendar month's entries plus the derived balance.
type MonthBucket struct {
	Year         int
	Month        int // 1-12
	Entries      []core.Entry
	BalanceCents int64
}

// BuildBuckets groups entries by calendar month, sorts each bucket's
// entries descending by date (ties broken by descending id, newest
// creation first), computes the per-bucket balance and orders the buckets
// most recent month first. The grouping key comes straight from the
// date's calendar fields, never from a formatted string.
func BuildBuckets(entries []core.Entry) ([]MonthBucket, error) {
	type ym struct {
		year, month int
	}

	groups := make(map[ym][]core.Entry)
	var order []ym
	for _, e := range entries {
		key := ym{year: e.Date.Year(), month: e.Date.Month()}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e)
	}

	buckets := make([]MonthBucket, 0, len(order))
	for _, key := range order {
		bucket := MonthBucket{
			Year:    key.year,
			Month:   key.month,
			Entries: groups[key],
		}
		sort.SliceStable(bucket.Entries, func(i, j int) bool {
			a, b := bucket.Entries[i], bucket.Entries[j]
			if !a.Date.Equal(b.Date.Time) {
				return a.Date.After(b.Date.Time)
			}
			return a.ID > b.ID
		})
		var balance int64
		for _, e := range bucket.Entries {
			signed, err := e.SignedCents()
			if err != nil {
				return nil, err
			}
			balance += signed
		}
		bucket.BalanceCents = balance
		buckets = append(buckets, bucket)
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Year != buckets[j].Year {
			return buckets[i].Year > buckets[j].Year
		}
		return buckets[i].Month > buckets[j].Month
	})

	return buckets, nil
}
