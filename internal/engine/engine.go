// Package engine owns the canonical entry sequence and is the sole
// mutation entry point of the ledger. Every mutation validates, rebuilds
// the derived view and persists before committing, so the in-memory
// sequence and the persisted blob are always either both updated or
// neither.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"liquiledger/internal/core"
	"liquiledger/internal/ledger"
	"liquiledger/internal/log"
	"liquiledger/internal/store"
)

// NotFoundError reports a removal whose target id is not in the ledger.
type NotFoundError struct {
	ID int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("entry not found: %d", e.ID)
}

// ChangePublisher is notified after every committed mutation. A publish
// failure is logged, never surfaced: the ledger is already saved locally
// and the user's operation must not fail because a broker is down.
type ChangePublisher interface {
	PublishLedgerChanged(ctx context.Context, revision int64, entryCount int) error
}

// Engine is the ledger facade. It exclusively owns the canonical entry
// sequence; buckets and totals are derived snapshots rebuilt on every
// mutation and handed out as immutable values.
type Engine struct {
	mu        sync.Mutex
	logger    *log.Logger
	entries   []core.Entry
	snapshot  ledger.Snapshot
	revision  int64
	ids       *idGenerator
	gateway   *store.Gateway
	publisher ChangePublisher
}

// New creates an engine over the given persistence gateway. The publisher
// may be nil when change events are not configured.
func New(gateway *store.Gateway, publisher ChangePublisher) *Engine {
	return &Engine{
		logger:    log.Default(log.ComponentEngine),
		ids:       newIDGenerator(),
		gateway:   gateway,
		publisher: publisher,
	}
}

// AddEntry validates raw input, assigns a fresh id, rebuilds the derived
// view, persists the new sequence and returns the new snapshot. On any
// failure the canonical sequence is untouched and nothing is persisted;
// validation failures carry every offending field name at once.
func (e *Engine) AddEntry(ctx context.Context, raw core.RawEntry) (ledger.Snapshot, error) {
	entry, verrs := core.ParseEntry(raw)
	if verrs != nil {
		return ledger.Snapshot{}, verrs
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	entry.ID = e.ids.Next()

	candidate := make([]core.Entry, len(e.entries), len(e.entries)+1)
	copy(candidate, e.entries)
	candidate = append(candidate, entry)

	snap, err := e.commit(ctx, candidate)
	if err != nil {
		return ledger.Snapshot{}, err
	}

	e.logger.InfoContext(ctx, "Entry added",
		log.FieldOperation, log.OpAdd,
		log.FieldEntryID, entry.ID,
		log.FieldEntryTitle, entry.Title,
		log.FieldAmountCents, entry.AmountCents,
		log.FieldEntryKind, string(entry.Kind),
		"date", entry.Date.String())

	return snap, nil
}

// RemoveEntry removes the first entry whose id matches, rebuilds and
// persists. A missing id yields NotFoundError and leaves the ledger
// untouched.
func (e *Engine) RemoveEntry(ctx context.Context, id int64) (ledger.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	for i, entry := range e.entries {
		if entry.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ledger.Snapshot{}, NotFoundError{ID: id}
	}

	candidate := make([]core.Entry, 0, len(e.entries)-1)
	candidate = append(candidate, e.entries[:idx]...)
	candidate = append(candidate, e.entries[idx+1:]...)

	snap, err := e.commit(ctx, candidate)
	if err != nil {
		return ledger.Snapshot{}, err
	}

	e.logger.InfoContext(ctx, "Entry removed", log.FieldOperation, log.OpRemove, log.FieldEntryID, id)
	return snap, nil
}

// Restore loads the persisted entry sequence and rebuilds the index.
// Missing storage yields an empty ledger. A corrupt blob also leaves the
// engine at an empty ledger but surfaces store.ErrCorruptData so the
// caller can log the condition instead of crashing. Restored entries keep
// their persisted ids verbatim, and the id generator is seeded past them.
func (e *Engine) Restore(ctx context.Context) (ledger.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	loaded, err := e.gateway.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrCorruptData) {
			e.entries = nil
			e.snapshot = ledger.Empty()
			return e.snapshot, err
		}
		return ledger.Snapshot{}, fmt.Errorf("load ledger: %w", err)
	}

	snap, err := ledger.Build(loaded)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("rebuild index: %w", err)
	}

	e.entries = loaded
	e.snapshot = snap
	for _, entry := range loaded {
		e.ids.Seed(entry.ID)
	}

	e.logger.InfoContext(ctx, "Ledger restored", log.FieldOperation, log.OpRestore, log.FieldEntryCount, len(loaded))
	return snap, nil
}

// Snapshot returns the current read-only view of buckets and totals.
func (e *Engine) Snapshot() ledger.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Entries returns a copy of the canonical entry sequence in insertion
// order.
func (e *Engine) Entries() []core.Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]core.Entry(nil), e.entries...)
}

// commit rebuilds the derived view for the candidate sequence, persists
// it, and only then swaps it in as canonical. Caller holds e.mu.
func (e *Engine) commit(ctx context.Context, candidate []core.Entry) (ledger.Snapshot, error) {
	snap, err := ledger.Build(candidate)
	if err != nil {
		return ledger.Snapshot{}, fmt.Errorf("rebuild index: %w", err)
	}

	if err := e.gateway.Save(ctx, candidate); err != nil {
		return ledger.Snapshot{}, fmt.Errorf("persist ledger: %w", err)
	}

	e.entries = candidate
	e.snapshot = snap
	e.revision++

	if e.publisher != nil {
		if err := e.publisher.PublishLedgerChanged(ctx, e.revision, len(candidate)); err != nil {
			e.logger.ErrorContext(ctx, "Failed to publish ledger change",
				log.FieldRevision, e.revision, log.FieldError, err)
		}
	}

	return snap, nil
}
