// Package worker exports the ledger to a standalone JSON file whenever a
// change event arrives. The HTTP process saves locally and publishes;
// this worker does the slower file export out of the user's request path.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"liquiledger/internal/amqp"
	"liquiledger/internal/core"
	"liquiledger/internal/ledger"
	"liquiledger/internal/log"
	"liquiledger/internal/store"
)

// ExportWorker renders the persisted ledger into a readable export file.
type ExportWorker struct {
	logger     *log.Logger
	gateway    *store.Gateway
	exportPath string
}

func NewExportWorker(gateway *store.Gateway, exportPath string) *ExportWorker {
	return &ExportWorker{
		logger:     log.Default(log.ComponentWorker),
		gateway:    gateway,
		exportPath: exportPath,
	}
}

// exportDocument is the file shape: the raw entries plus the derived
// month view, so the export is useful without re-running the aggregation.
type exportDocument struct {
	GeneratedAt time.Time     `json:"generatedAt"`
	Revision    int64         `json:"revision,omitempty"`
	Totals      exportTotals  `json:"totals"`
	Months      []exportMonth `json:"months"`
}

type exportTotals struct {
	IncomeMinor  int64 `json:"incomeMinor"`
	ExpenseMinor int64 `json:"expenseMinor"`
	BalanceMinor int64 `json:"balanceMinor"`
}

type exportMonth struct {
	Year         int           `json:"year"`
	Month        int           `json:"month"`
	BalanceMinor int64         `json:"balanceMinor"`
	Entries      []exportEntry `json:"entries"`
}

type exportEntry struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AmountMinor int64  `json:"amountMinor"`
	Kind        string `json:"kind"`
	Date        string `json:"date"`
}

// HandleChangeMessage loads the current ledger from the store and rewrites
// the export file. Safe to run repeatedly; the latest message wins.
func (w *ExportWorker) HandleChangeMessage(ctx context.Context, msg *amqp.LedgerChangedMessage) error {
	w.logger.InfoContext(ctx, "Processing ledger change",
		log.FieldRevision, msg.Revision,
		log.FieldEntryCount, msg.EntryCount)

	return w.export(ctx, msg.Revision)
}

// Export writes the current ledger state regardless of change messages,
// used for the periodic catch-up pass.
func (w *ExportWorker) Export(ctx context.Context) error {
	return w.export(ctx, 0)
}

func (w *ExportWorker) export(ctx context.Context, revision int64) error {
	entries, err := w.gateway.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	snap, err := ledger.Build(entries)
	if err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	doc := exportDocument{
		GeneratedAt: time.Now().UTC(),
		Revision:    revision,
		Totals: exportTotals{
			IncomeMinor:  snap.Totals.IncomeCents,
			ExpenseMinor: snap.Totals.ExpenseCents,
			BalanceMinor: snap.Totals.BalanceCents,
		},
		Months: make([]exportMonth, 0, len(snap.Buckets)),
	}
	for _, b := range snap.Buckets {
		month := exportMonth{
			Year:         b.Year,
			Month:        b.Month,
			BalanceMinor: b.BalanceCents,
			Entries:      make([]exportEntry, 0, len(b.Entries)),
		}
		for _, e := range b.Entries {
			month.Entries = append(month.Entries, toExportEntry(e))
		}
		doc.Months = append(doc.Months, month)
	}

	blob, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal export: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.exportPath), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	tmp := w.exportPath + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	if err := os.Rename(tmp, w.exportPath); err != nil {
		return fmt.Errorf("rename export file: %w", err)
	}

	w.logger.InfoContext(ctx, "Ledger exported",
		log.FieldOperation, log.OpExport,
		"path", w.exportPath,
		log.FieldEntryCount, snap.EntryCount(),
		"month_count", len(doc.Months))

	return nil
}

func toExportEntry(e core.Entry) exportEntry {
	return exportEntry{
		ID:          e.ID,
		Title:       e.Title,
		AmountMinor: e.AmountCents,
		Kind:        string(e.Kind),
		Date:        e.Date.String(),
	}
}
