package worker

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liquiledger/internal/amqp"
	"liquiledger/internal/core"
	"liquiledger/internal/store"
)

func TestHandleChangeMessageWritesExport(t *testing.T) {
	ctx := context.Background()
	gw := store.NewGateway(store.NewMemoryStore())

	entries := []core.Entry{
		{ID: 1, Title: "Salary", AmountCents: 250000, Kind: core.Income, Date: core.NewDate(2024, 1, 31)},
		{ID: 2, Title: "Rent", AmountCents: 80000, Kind: core.Expense, Date: core.NewDate(2024, 1, 1)},
		{ID: 3, Title: "Groceries", AmountCents: 1042, Kind: core.Expense, Date: core.NewDate(2024, 2, 3)},
	}
	require.NoError(t, gw.Save(ctx, entries))

	exportPath := filepath.Join(t.TempDir(), "export.json")
	w := NewExportWorker(gw, exportPath)

	msg := amqp.NewLedgerChangedMessage(3, len(entries))
	require.NoError(t, w.HandleChangeMessage(ctx, msg))

	blob, err := os.ReadFile(exportPath)
	require.NoError(t, err)

	var doc exportDocument
	require.NoError(t, json.Unmarshal(blob, &doc))

	assert.Equal(t, int64(3), doc.Revision)
	assert.Equal(t, int64(250000), doc.Totals.IncomeMinor)
	assert.Equal(t, int64(81042), doc.Totals.ExpenseMinor)
	assert.Equal(t, int64(168958), doc.Totals.BalanceMinor)

	require.Len(t, doc.Months, 2)
	assert.Equal(t, 2, doc.Months[0].Month, "most recent month first")
	assert.Equal(t, 1, doc.Months[1].Month)
	assert.Len(t, doc.Months[1].Entries, 2)
	assert.Equal(t, "2024-01-31", doc.Months[1].Entries[0].Date)
}

func TestExportEmptyLedger(t *testing.T) {
	ctx := context.Background()
	gw := store.NewGateway(store.NewMemoryStore())

	exportPath := filepath.Join(t.TempDir(), "export.json")
	w := NewExportWorker(gw, exportPath)

	require.NoError(t, w.Export(ctx))

	blob, err := os.ReadFile(exportPath)
	require.NoError(t, err)

	var doc exportDocument
	require.NoError(t, json.Unmarshal(blob, &doc))
	assert.Empty(t, doc.Months)
	assert.Zero(t, doc.Totals.BalanceMinor)
}

func TestExportOverwritesPrevious(t *testing.T) {
	ctx := context.Background()
	blobs := store.NewMemoryStore()
	gw := store.NewGateway(blobs)
	exportPath := filepath.Join(t.TempDir(), "export.json")
	w := NewExportWorker(gw, exportPath)

	require.NoError(t, gw.Save(ctx, []core.Entry{
		{ID: 1, Title: "a", AmountCents: 100, Kind: core.Expense, Date: core.NewDate(2024, 1, 1)},
	}))
	require.NoError(t, w.Export(ctx))

	require.NoError(t, gw.Save(ctx, nil))
	require.NoError(t, w.Export(ctx))

	blob, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	var doc exportDocument
	require.NoError(t, json.Unmarshal(blob, &doc))
	assert.Empty(t, doc.Months, "export reflects the latest state")
}
