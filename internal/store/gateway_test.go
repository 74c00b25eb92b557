package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquiledger/internal/core"
)

func sampleEntries() []core.Entry {
	return []core.Entry{
		{ID: 1700000000001, Title: "Salary", AmountCents: 250000, Kind: core.Income, Date: core.NewDate(2024, 1, 31)},
		{ID: 1700000000002, Title: "Rent", AmountCents: 80000, Kind: core.Expense, Date: core.NewDate(2024, 1, 1)},
		{ID: 1700000000003, Title: "Groceries", AmountCents: 1042, Kind: core.Expense, Date: core.NewDate(2024, 2, 3)},
	}
}

func TestGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	gw := NewGateway(NewMemoryStore())

	entries := sampleEntries()
	require.NoError(t, gw.Save(ctx, entries))

	loaded, err := gw.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, len(entries))

	// Content and order preserved exactly, ids included.
	for i, want := range entries {
		got := loaded[i]
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Title, got.Title)
		assert.Equal(t, want.AmountCents, got.AmountCents)
		assert.Equal(t, want.Kind, got.Kind)
		assert.Equal(t, want.Date.String(), got.Date.String())
	}
}

func TestGatewayLoadMissingKey(t *testing.T) {
	gw := NewGateway(NewMemoryStore())

	loaded, err := gw.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestGatewayLoadCorruptBlob(t *testing.T) {
	ctx := context.Background()
	blobs := NewMemoryStore()
	gw := NewGateway(blobs)

	cases := []struct {
		name string
		blob string
	}{
		{"not json", "{{{"},
		{"wrong shape", `{"title":"x"}`},
		{"bad date", `[{"title":"x","amountMinor":1,"kind":"income","dateISO":"not-a-date","id":1}]`},
		{"bad kind", `[{"title":"x","amountMinor":1,"kind":"transfer","dateISO":"2024-01-01","id":1}]`},
		{"negative amount", `[{"title":"x","amountMinor":-1,"kind":"income","dateISO":"2024-01-01","id":1}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, blobs.Put(ctx, StorageKey, []byte(tc.blob)))
			_, err := gw.Load(ctx)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorruptData)
		})
	}
}

func TestGatewaySaveEmptyOverwrites(t *testing.T) {
	ctx := context.Background()
	gw := NewGateway(NewMemoryStore())

	require.NoError(t, gw.Save(ctx, sampleEntries()))
	require.NoError(t, gw.Save(ctx, nil))

	loaded, err := gw.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
