package core

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != 2 || d.Day() != 29 {
		t.Fatalf("unexpected date parts: %v", d)
	}

	for _, bad := range []string{"", "2024-13-01", "yesterday", "2024-02-30"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestParseEntryCollectsAllFailures(t *testing.T) {
	cases := []struct {
		name   string
		raw    RawEntry
		fields []string
	}{
		{
			name: "all valid",
			raw:  RawEntry{Title: "Groceries", Amount: "10.42", Date: "2024-01-05"},
		},
		{
			name:   "empty title",
			raw:    RawEntry{Title: "   ", Amount: "10.42", Date: "2024-01-05"},
			fields: []string{"title"},
		},
		{
			name:   "bad amount",
			raw:    RawEntry{Title: "Rent", Amount: "lots", Date: "2024-01-05"},
			fields: []string{"amount"},
		},
		{
			name:   "bad date",
			raw:    RawEntry{Title: "Rent", Amount: "1", Date: ""},
			fields: []string{"date"},
		},
		{
			name:   "two failures",
			raw:    RawEntry{Title: "", Amount: "nope", Date: "2024-01-05"},
			fields: []string{"title", "amount"},
		},
		{
			name:   "all three failures",
			raw:    RawEntry{Title: "", Amount: "nope", Date: "nope"},
			fields: []string{"title", "amount", "date"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry, errs := ParseEntry(tc.raw)
			if len(tc.fields) == 0 {
				if errs != nil {
					t.Fatalf("expected ok, got %v", errs)
				}
				if entry.Title != "Groceries" || entry.AmountCents != 1042 || entry.Kind != Expense {
					t.Fatalf("unexpected entry: %+v", entry)
				}
				return
			}
			got := errs.Fields()
			if len(got) != len(tc.fields) {
				t.Fatalf("expected fields %v, got %v", tc.fields, got)
			}
			for i := range got {
				if got[i] != tc.fields[i] {
					t.Fatalf("expected fields %v, got %v", tc.fields, got)
				}
			}
		})
	}
}

func TestParseEntryKind(t *testing.T) {
	e, errs := ParseEntry(RawEntry{Title: "Salary", Amount: "2500", IsIncome: true, Date: "2024-01-31"})
	if errs != nil {
		t.Fatalf("expected ok, got %v", errs)
	}
	if e.Kind != Income {
		t.Fatalf("expected income, got %s", e.Kind)
	}

	e, errs = ParseEntry(RawEntry{Title: "Rent", Amount: "800", Date: "2024-01-01"})
	if errs != nil {
		t.Fatalf("expected ok, got %v", errs)
	}
	if e.Kind != Expense {
		t.Fatalf("expected expense, got %s", e.Kind)
	}
}

func TestSignedCents(t *testing.T) {
	income := Entry{Kind: Income, AmountCents: 100}
	if v, err := income.SignedCents(); err != nil || v != 100 {
		t.Fatalf("income: got %d, %v", v, err)
	}

	expense := Entry{Kind: Expense, AmountCents: 100}
	if v, err := expense.SignedCents(); err != nil || v != -100 {
		t.Fatalf("expense: got %d, %v", v, err)
	}

	bogus := Entry{Kind: Kind("transfer"), AmountCents: 100}
	if _, err := bogus.SignedCents(); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestDateJSONCodec(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 1, 31))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-01-31"` {
		t.Fatalf("marshal = %s", b)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-02-29"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 2 || d.Day() != 29 {
		t.Fatalf("unmarshal = %s", d)
	}

	for _, bad := range []string{`"not-a-date"`, `"2024-13-01"`, `42`} {
		if err := json.Unmarshal([]byte(bad), &d); err == nil {
			t.Errorf("expected error for %s", bad)
		}
	}
}
