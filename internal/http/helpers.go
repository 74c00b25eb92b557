package http

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"liquiledger/internal/core"
	"liquiledger/internal/ledger"
)

// View shapes returned to renderers. The engine's snapshot is already
// immutable; these structs only fix the JSON field names.
type (
	entryView struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		AmountMinor int64  `json:"amountMinor"`
		Kind        string `json:"kind"`
		Date        string `json:"date"`
	}

	bucketView struct {
		Year         int         `json:"year"`
		Month        int         `json:"month"`
		BalanceMinor int64       `json:"balanceMinor"`
		Entries      []entryView `json:"entries"`
	}

	totalsView struct {
		IncomeMinor  int64 `json:"incomeMinor"`
		ExpenseMinor int64 `json:"expenseMinor"`
		BalanceMinor int64 `json:"balanceMinor"`
	}

	ledgerView struct {
		Buckets []bucketView `json:"buckets"`
		Totals  totalsView   `json:"totals"`
	}
)

func snapshotView(snap ledger.Snapshot) ledgerView {
	view := ledgerView{
		Buckets: make([]bucketView, 0, len(snap.Buckets)),
		Totals: totalsView{
			IncomeMinor:  snap.Totals.IncomeCents,
			ExpenseMinor: snap.Totals.ExpenseCents,
			BalanceMinor: snap.Totals.BalanceCents,
		},
	}
	for _, b := range snap.Buckets {
		bucket := bucketView{
			Year:         b.Year,
			Month:        b.Month,
			BalanceMinor: b.BalanceCents,
			Entries:      make([]entryView, 0, len(b.Entries)),
		}
		for _, e := range b.Entries {
			bucket.Entries = append(bucket.Entries, entryView{
				ID:          e.ID,
				Title:       e.Title,
				AmountMinor: e.AmountCents,
				Kind:        string(e.Kind),
				Date:        e.Date.String(),
			})
		}
		view.Buckets = append(view.Buckets, bucket)
	}
	return view
}

// parseRawEntry extracts the raw entry fields from a form-encoded or JSON
// body without judging validity; that is the engine's job.
func parseRawEntry(r *http.Request) (core.RawEntry, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		var body struct {
			Title    string          `json:"title"`
			Amount   json.RawMessage `json:"amount"`
			IsIncome bool            `json:"isIncome"`
			Date     string          `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return core.RawEntry{}, err
		}
		amount, err := rawAmount(body.Amount)
		if err != nil {
			return core.RawEntry{}, err
		}
		return core.RawEntry{
			Title:    sanitizeInput(body.Title),
			Amount:   amount,
			IsIncome: body.IsIncome,
			Date:     strings.TrimSpace(body.Date),
		}, nil
	}

	if err := r.ParseForm(); err != nil {
		return core.RawEntry{}, err
	}
	return core.RawEntry{
		Title:    sanitizeInput(r.Form.Get("title")),
		Amount:   strings.TrimSpace(r.Form.Get("amount")),
		IsIncome: r.Form.Get("kind") == "income" || r.Form.Get("income") == "true",
		Date:     strings.TrimSpace(r.Form.Get("date")),
	}, nil
}

// rawAmount accepts the amount as either a JSON string or number; the
// digits pass through verbatim either way, so "12.5" and 12.5 validate
// identically downstream.
func rawAmount(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return strings.TrimSpace(string(raw)), nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// clientIP extracts the caller's address for rate limiting.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
