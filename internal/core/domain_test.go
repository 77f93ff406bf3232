package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func validExpense() Transaction {
	return Transaction{
		Type:          TypeExpense,
		Amount:        Money{Cents: 2500},
		CategoryName:  "Groceries",
		Date:          NewDate(2024, 6, 10),
		PaymentStatus: StatusPending,
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{name: "valid expense", mutate: func(tr *Transaction) {}},
		{
			name:   "valid income",
			mutate: func(tr *Transaction) { tr.Type = TypeIncome; tr.PaymentStatus = "" },
		},
		{
			name: "valid recurring template",
			mutate: func(tr *Transaction) {
				tr.Recurrence = RecurrenceMonthly
				tr.RecurrenceEndDate = NewDate(2024, 12, 31)
			},
		},
		{
			name:    "zero date",
			mutate:  func(tr *Transaction) { tr.Date = Date{} },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "bad type",
			mutate:  func(tr *Transaction) { tr.Type = "transfer" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "zero amount",
			mutate:  func(tr *Transaction) { tr.Amount = Money{} },
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative amount",
			mutate:  func(tr *Transaction) { tr.Amount = Money{Cents: -100} },
			wantErr: ErrInvalidAmount,
		},
		{
			name: "category by id only",
			mutate: func(tr *Transaction) {
				tr.CategoryName = ""
				tr.CategoryID = "cat-groceries"
			},
		},
		{
			name:    "blank category",
			mutate:  func(tr *Transaction) { tr.CategoryName = "   " },
			wantErr: ErrEmptyCategory,
		},
		{
			name: "due date on income",
			mutate: func(tr *Transaction) {
				tr.Type = TypeIncome
				tr.PaymentStatus = ""
				tr.DueDate = NewDate(2024, 6, 20)
			},
			wantErr: ErrDueDateOnIncome,
		},
		{
			name: "payment status on income",
			mutate: func(tr *Transaction) {
				tr.Type = TypeIncome
				tr.PaymentStatus = StatusPaid
			},
			wantErr: ErrStatusOnIncome,
		},
		{
			name:    "unknown payment status",
			mutate:  func(tr *Transaction) { tr.PaymentStatus = "overdue" },
			wantErr: ErrInvalidStatus,
		},
		{
			name:    "unknown recurrence",
			mutate:  func(tr *Transaction) { tr.Recurrence = "fortnightly" },
			wantErr: ErrInvalidRecurrence,
		},
		{
			name: "derived record with recurrence",
			mutate: func(tr *Transaction) {
				tr.ParentTransactionID = "parent-1"
				tr.Recurrence = RecurrenceMonthly
			},
			wantErr: ErrNestedRecurrence,
		},
		{
			name: "end date before start",
			mutate: func(tr *Transaction) {
				tr.Recurrence = RecurrenceWeekly
				tr.RecurrenceEndDate = NewDate(2024, 6, 1)
			},
			wantErr: ErrRecurrenceEndOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := validExpense()
			tt.mutate(&tr)
			err := tr.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaymentStatusNormalize(t *testing.T) {
	tests := []struct {
		in   PaymentStatus
		want PaymentStatus
	}{
		{in: StatusPaid, want: StatusPaid},
		{in: StatusPending, want: StatusPending},
		{in: StatusScheduled, want: StatusScheduled},
		{in: "", want: StatusPending},
		{in: "overdue", want: StatusPending},
	}

	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("PaymentStatus(%q).Normalize() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	type payload struct {
		Date    Date `json:"date"`
		DueDate Date `json:"dueDate"`
	}

	in := payload{Date: NewDate(2024, 1, 31)}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if want := `{"date":"2024-01-31","dueDate":null}`; string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}

	var out payload
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !out.Date.Equal(in.Date.Time) || !out.DueDate.IsZero() {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		name string
		goal Goal
		want float64
	}{
		{name: "halfway", goal: Goal{TargetAmount: Money{Cents: 10000}, CurrentAmount: Money{Cents: 5000}}, want: 50},
		{name: "overfunded clamps", goal: Goal{TargetAmount: Money{Cents: 100}, CurrentAmount: Money{Cents: 250}}, want: 100},
		{name: "zero target", goal: Goal{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.goal.Progress(); got != tt.want {
				t.Errorf("Progress() = %v, want %v", got, tt.want)
			}
		})
	}
}
