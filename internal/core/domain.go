package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

const (
	StatusPaid      PaymentStatus = "paid"
	StatusPending   PaymentStatus = "pending"
	StatusScheduled PaymentStatus = "scheduled"
)

const (
	RecurrenceNone    Recurrence = ""
	RecurrenceDaily   Recurrence = "daily"
	RecurrenceWeekly  Recurrence = "weekly"
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

type (
	TransactionType string

	PaymentStatus string

	Recurrence string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is the fundamental entity: a single income or expense
	// record. Derived occurrences generated from a recurring template carry
	// the template's id in ParentTransactionID and never a recurrence of
	// their own.
	Transaction struct {
		ID                  string          `json:"id,omitempty"`
		UserID              string          `json:"userId,omitempty"`
		Type                TransactionType `json:"type"`
		Amount              Money           `json:"amount"`
		CategoryID          string          `json:"categoryId,omitempty"`
		CategoryName        string          `json:"categoryName"`
		Date                Date            `json:"date"`
		Description         string          `json:"description,omitempty"`
		DueDate             Date            `json:"dueDate,omitempty"`
		PaymentStatus       PaymentStatus   `json:"paymentStatus,omitempty"`
		Recurrence          Recurrence      `json:"recurrence,omitempty"`
		RecurrenceEndDate   Date            `json:"recurrenceEndDate,omitempty"`
		ParentTransactionID string          `json:"parentTransactionId,omitempty"`
	}

	// Category classifies transactions. Type restricts which transaction
	// type the category applies to.
	Category struct {
		ID   string          `json:"id"`
		Name string          `json:"name"`
		Type TransactionType `json:"type"`
	}

	// Goal is a savings goal the user contributes toward.
	Goal struct {
		ID            string `json:"id"`
		UserID        string `json:"userId,omitempty"`
		Name          string `json:"name"`
		TargetAmount  Money  `json:"targetAmount"`
		CurrentAmount Money  `json:"currentAmount"`
		Deadline      Date   `json:"deadline"`
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidType        = errors.New("invalid transaction type")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrUnknownCategory    = errors.New("unknown category")
	ErrInvalidRecurrence  = errors.New("invalid recurrence")
	ErrInvalidStatus      = errors.New("invalid payment status")
	ErrDueDateOnIncome    = errors.New("due date is only valid for expenses")
	ErrStatusOnIncome     = errors.New("payment status is only valid for expenses")
	ErrNestedRecurrence   = errors.New("derived transactions cannot recur")
	ErrRecurrenceEndOrder = errors.New("recurrence end date must be after the transaction date")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD. Zero dates format as the empty string.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when zero.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes "YYYY-MM-DD"; null and "" decode to the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// After reports whether d is after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Valid reports whether s is one of the recognized payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusScheduled:
		return true
	}
	return false
}

// Normalize maps an absent or unrecognized status to pending. Callers
// normalize expense drafts exactly once, at creation time; the aggregator
// never mutates its input.
func (s PaymentStatus) Normalize() PaymentStatus {
	if s.Valid() {
		return s
	}
	return StatusPending
}

// Valid reports whether r is none or one of the four periodic recurrences.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	switch t.Type {
	case TypeIncome, TypeExpense:
	default:
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	// A category reference is an id, a denormalized name, or both.
	if strings.TrimSpace(t.CategoryID) == "" && strings.TrimSpace(t.CategoryName) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.Type == TypeIncome {
		if !t.DueDate.IsZero() {
			return ErrDueDateOnIncome
		}
		if t.PaymentStatus != "" {
			return ErrStatusOnIncome
		}
	} else if t.PaymentStatus != "" && !t.PaymentStatus.Valid() {
		return ErrInvalidStatus
	}
	if !t.Recurrence.Valid() {
		return ErrInvalidRecurrence
	}
	if t.ParentTransactionID != "" && t.Recurrence != RecurrenceNone {
		return ErrNestedRecurrence
	}
	if !t.RecurrenceEndDate.IsZero() && !t.RecurrenceEndDate.After(t.Date) {
		return ErrRecurrenceEndOrder
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return errors.New("empty goal name")
	}
	if len(g.Name) > 100 {
		return errors.New("goal name too long (max 100 characters)")
	}
	if err := g.TargetAmount.Validate(); err != nil {
		return err
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Progress returns completion as a percentage in [0, 100].
func (g Goal) Progress() float64 {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	p := float64(g.CurrentAmount.Cents) / float64(g.TargetAmount.Cents) * 100
	if p > 100 {
		return 100
	}
	return p
}
