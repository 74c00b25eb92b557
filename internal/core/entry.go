package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	Kind string

	Date struct {
		time.Time
	}

	// Entry is one recorded transaction. Fields are never mutated after
	// construction; an update is modeled as remove+add.
	Entry struct {
		ID          int64
		Title       string
		AmountCents int64 // magnitude only, sign derives from Kind
		Kind        Kind
		Date        Date
	}

	// RawEntry carries user input exactly as collected, before validation.
	RawEntry struct {
		Title    string
		Amount   string
		IsIncome bool
		Date     string
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
)

// IsValid reports whether k is one of the two known entry kinds.
func (k Kind) IsValid() bool {
	return k == Income || k == Expense
}

// UnknownKindError reports an entry whose kind is neither income nor
// expense. Unreported data loss in a ledger is unacceptable, so
// aggregation surfaces this instead of skipping the entry.
type UnknownKindError struct {
	Kind Kind
}

func (e UnknownKindError) Error() string {
	return "unknown entry kind: " + string(e.Kind)
}

// FieldError reports a single invalid input field by name.
type FieldError struct {
	Field string
}

func (e FieldError) Error() string {
	return "invalid field: " + e.Field
}

// ValidationErrors collects every field failure found in one validation
// pass so the caller can report all offending fields together.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	return "validation failed: " + strings.Join(v.Fields(), ", ")
}

// Fields returns the names of the failing fields in input order.
func (v ValidationErrors) Fields() []string {
	names := make([]string, len(v))
	for i, fe := range v {
		names[i] = fe.Field
	}
	return names
}

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month (1-12)
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

// MarshalJSON encodes the date as a plain YYYY-MM-DD string; time-of-day
// carries no meaning for a ledger entry.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	parsed, err := ParseDate(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseEntry validates raw input and builds the entry fields. The ID is
// left zero; the caller assigns identity. All field failures are collected
// so they can be reported in a single pass, matching the form behavior of
// listing every offending field at once.
func ParseEntry(raw RawEntry) (Entry, ValidationErrors) {
	var errs ValidationErrors

	title := strings.TrimSpace(raw.Title)
	if title == "" {
		errs = append(errs, FieldError{Field: "title"})
	}

	cents, err := ParseAmountToCents(raw.Amount)
	if err != nil {
		errs = append(errs, FieldError{Field: "amount"})
	}

	kind := Expense
	if raw.IsIncome {
		kind = Income
	}

	date, err := ParseDate(raw.Date)
	if err != nil {
		errs = append(errs, FieldError{Field: "date"})
	}

	if len(errs) > 0 {
		return Entry{}, errs
	}

	return Entry{
		Title:       title,
		AmountCents: cents,
		Kind:        kind,
		Date:        date,
	}, nil
}

// SignedCents returns the entry amount with the sign implied by its kind:
// positive for income, negative for expense.
func (e Entry) SignedCents() (int64, error) {
	switch e.Kind {
	case Income:
		return e.AmountCents, nil
	case Expense:
		return -e.AmountCents, nil
	default:
		return 0, UnknownKindError{Kind: e.Kind}
	}
}
