package store

import (
	"context"
	"encoding/json"
	"fmt"

	"liquiledger/internal/core"
	"liquiledger/internal/log"
)

// StorageKey is the fixed key the whole entry sequence lives under.
const StorageKey = "entries"

// Record is the persisted shape of one entry. Field names are part of the
// stored format and must not change.
type Record struct {
	Title       string    `json:"title"`
	AmountMinor int64     `json:"amountMinor"`
	Kind        string    `json:"kind"`
	Date        core.Date `json:"dateISO"`
	ID          int64     `json:"id"`
}

// Gateway serializes the canonical entry sequence to a BlobStore and back.
type Gateway struct {
	logger *log.Logger
	blobs  BlobStore
}

func NewGateway(blobs BlobStore) *Gateway {
	return &Gateway{
		logger: log.Default(log.ComponentStore),
		blobs:  blobs,
	}
}

// Save overwrites the stored sequence with the given entries, preserving
// their order.
func (g *Gateway) Save(ctx context.Context, entries []core.Entry) error {
	records := make([]Record, len(entries))
	for i, e := range entries {
		records[i] = Record{
			Title:       e.Title,
			AmountMinor: e.AmountCents,
			Kind:        string(e.Kind),
			Date:        e.Date,
			ID:          e.ID,
		}
	}

	blob, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}
	if err := g.blobs.Put(ctx, StorageKey, blob); err != nil {
		return fmt.Errorf("put entries blob: %w", err)
	}

	g.logger.DebugContext(ctx, "Ledger persisted", log.FieldEntryCount, len(entries))
	return nil
}

// Load reads the stored sequence back. A missing key yields (nil, nil):
// an empty ledger. A present but undecodable blob yields ErrCorruptData.
func (g *Gateway) Load(ctx context.Context) ([]core.Entry, error) {
	blob, ok, err := g.blobs.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("get entries blob: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	entries := make([]core.Entry, 0, len(records))
	for _, r := range records {
		kind := core.Kind(r.Kind)
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: bad kind %q for id %d", ErrCorruptData, r.Kind, r.ID)
		}
		if r.AmountMinor < 0 {
			return nil, fmt.Errorf("%w: negative amount for id %d", ErrCorruptData, r.ID)
		}
		entries = append(entries, core.Entry{
			ID:          r.ID,
			Title:       r.Title,
			AmountCents: r.AmountMinor,
			Kind:        kind,
			Date:        r.Date,
		})
	}

	return entries, nil
}
