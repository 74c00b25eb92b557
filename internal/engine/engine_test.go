package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquiledger/internal/core"
	"liquiledger/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.MemoryStore) {
	t.Helper()
	blobs := store.NewMemoryStore()
	return New(store.NewGateway(blobs), nil), blobs
}

func raw(title, amount, date string, income bool) core.RawEntry {
	return core.RawEntry{Title: title, Amount: amount, Date: date, IsIncome: income}
}

func TestAddEntryBuildsSnapshotAndPersists(t *testing.T) {
	ctx := context.Background()
	eng, blobs := newTestEngine(t)

	snap, err := eng.AddEntry(ctx, raw("Salary", "2500", "2024-01-31", true))
	require.NoError(t, err)
	require.Len(t, snap.Buckets, 1)
	assert.Equal(t, 2024, snap.Buckets[0].Year)
	assert.Equal(t, 1, snap.Buckets[0].Month)
	assert.Equal(t, int64(250000), snap.Totals.IncomeCents)
	assert.Equal(t, int64(250000), snap.Totals.BalanceCents)

	_, ok, err := blobs.Get(ctx, store.StorageKey)
	require.NoError(t, err)
	assert.True(t, ok, "successful add must persist")
}

func TestAddEntryValidationFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	eng, blobs := newTestEngine(t)

	_, err := eng.AddEntry(ctx, raw("", "junk", "2024-01-31", false))
	require.Error(t, err)

	var verrs core.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, []string{"title", "amount"}, verrs.Fields())

	assert.Empty(t, eng.Entries())
	_, ok, err := blobs.Get(ctx, store.StorageKey)
	require.NoError(t, err)
	assert.False(t, ok, "failed add must not persist")
}

func TestRemoveEntry(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	_, err := eng.AddEntry(ctx, raw("a", "1", "2024-01-01", false))
	require.NoError(t, err)
	_, err = eng.AddEntry(ctx, raw("b", "2", "2024-01-02", false))
	require.NoError(t, err)
	_, err = eng.AddEntry(ctx, raw("c", "3", "2024-01-03", false))
	require.NoError(t, err)

	entries := eng.Entries()
	require.Len(t, entries, 3)
	idB := entries[1].ID

	snap, err := eng.RemoveEntry(ctx, idB)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.EntryCount())

	remaining := eng.Entries()
	require.Len(t, remaining, 2)
	assert.Equal(t, "a", remaining[0].Title)
	assert.Equal(t, "c", remaining[1].Title)
}

func TestRemoveEntryNotFound(t *testing.T) {
	ctx := context.Background()
	eng, _ := newTestEngine(t)

	for _, title := range []string{"a", "b", "c"} {
		_, err := eng.AddEntry(ctx, raw(title, "1", "2024-01-01", false))
		require.NoError(t, err)
	}

	_, err := eng.RemoveEntry(ctx, 42)
	require.Error(t, err)

	var nf NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(42), nf.ID)

	assert.Len(t, eng.Entries(), 3, "failed removal must not change the ledger")
}

func TestRestorePreservesIDs(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	gateway := store.NewGateway(blobs)

	first := New(gateway, nil)
	_, err := first.AddEntry(ctx, raw("Salary", "2500", "2024-01-31", true))
	require.NoError(t, err)
	_, err = first.AddEntry(ctx, raw("Rent", "800", "2024-01-01", false))
	require.NoError(t, err)
	originals := first.Entries()

	// Fresh engine over the same store, as on application restart.
	second := New(gateway, nil)
	snap, err := second.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.EntryCount())

	restored := second.Entries()
	require.Len(t, restored, len(originals))
	for i := range originals {
		assert.Equal(t, originals[i].ID, restored[i].ID, "restore must keep persisted ids verbatim")
		assert.Equal(t, originals[i].Title, restored[i].Title)
		assert.Equal(t, originals[i].AmountCents, restored[i].AmountCents)
	}

	// New ids issued after restore never collide with restored ones.
	_, err = second.AddEntry(ctx, raw("Coffee", "3.50", "2024-02-01", false))
	require.NoError(t, err)
	seen := make(map[int64]bool)
	for _, e := range second.Entries() {
		assert.False(t, seen[e.ID], "duplicate id %d", e.ID)
		seen[e.ID] = true
	}
}

func TestRestoreEmptyStorage(t *testing.T) {
	eng, _ := newTestEngine(t)

	snap, err := eng.Restore(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Buckets)
	assert.Zero(t, snap.Totals.IncomeCents)
	assert.Zero(t, snap.Totals.ExpenseCents)
	assert.Zero(t, snap.Totals.BalanceCents)
}

func TestRestoreCorruptBlobYieldsEmptyLedger(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	require.NoError(t, blobs.Put(ctx, store.StorageKey, []byte("{{{")))

	eng := New(store.NewGateway(blobs), nil)
	snap, err := eng.Restore(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrCorruptData)
	assert.Empty(t, snap.Buckets, "corrupt blob starts an empty ledger")
	assert.Empty(t, eng.Entries())
}

// failPutStore wraps a working store but refuses writes.
type failPutStore struct {
	*store.MemoryStore
}

func (f failPutStore) Put(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestAddEntryPersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	eng := New(store.NewGateway(failPutStore{store.NewMemoryStore()}), nil)

	_, err := eng.AddEntry(ctx, raw("Salary", "2500", "2024-01-31", true))
	require.Error(t, err)
	assert.Empty(t, eng.Entries(), "canonical sequence and blob stay consistent")
	assert.Equal(t, 0, eng.Snapshot().EntryCount())
}

type recordingPublisher struct {
	revisions []int64
	counts    []int
	fail      bool
}

func (p *recordingPublisher) PublishLedgerChanged(_ context.Context, revision int64, entryCount int) error {
	p.revisions = append(p.revisions, revision)
	p.counts = append(p.counts, entryCount)
	if p.fail {
		return errors.New("broker down")
	}
	return nil
}

func TestMutationsPublishChangeEvents(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	eng := New(store.NewGateway(store.NewMemoryStore()), pub)

	_, err := eng.AddEntry(ctx, raw("a", "1", "2024-01-01", false))
	require.NoError(t, err)
	_, err = eng.AddEntry(ctx, raw("b", "2", "2024-01-02", false))
	require.NoError(t, err)

	id := eng.Entries()[0].ID
	_, err = eng.RemoveEntry(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, pub.revisions)
	assert.Equal(t, []int{1, 2, 1}, pub.counts)
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{fail: true}
	eng := New(store.NewGateway(store.NewMemoryStore()), pub)

	snap, err := eng.AddEntry(ctx, raw("a", "1", "2024-01-01", false))
	require.NoError(t, err, "a down broker must not fail the user's mutation")
	assert.Equal(t, 1, snap.EntryCount())
}
