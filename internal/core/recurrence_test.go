package core

import (
	"reflect"
	"testing"
)

func monthlyTemplate() Transaction {
	return Transaction{
		Type:         TypeExpense,
		Amount:       Money{Cents: 5000},
		CategoryName: "Housing",
		Date:         NewDate(2024, 1, 1),
		Description:  "Rent",
		Recurrence:   RecurrenceMonthly,
	}
}

func TestExpandRecurrence_NoneIsEmpty(t *testing.T) {
	tests := []struct {
		name       string
		recurrence Recurrence
	}{
		{name: "none", recurrence: RecurrenceNone},
		{name: "unknown value", recurrence: Recurrence("fortnightly")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := monthlyTemplate()
			template.Recurrence = tt.recurrence
			if got := ExpandRecurrence(template, "parent-1"); len(got) != 0 {
				t.Errorf("ExpandRecurrence() returned %d occurrences, want 0", len(got))
			}
		})
	}
}

func TestExpandRecurrence_DefaultCount(t *testing.T) {
	template := monthlyTemplate()
	template.Recurrence = RecurrenceWeekly
	template.Date = NewDate(2024, 1, 1)

	got := ExpandRecurrence(template, "parent-1")

	want := []Date{
		NewDate(2024, 1, 8),
		NewDate(2024, 1, 15),
		NewDate(2024, 1, 22),
		NewDate(2024, 1, 29),
		NewDate(2024, 2, 5),
		NewDate(2024, 2, 12),
	}
	if len(got) != len(want) {
		t.Fatalf("ExpandRecurrence() returned %d occurrences, want %d", len(got), len(want))
	}
	for i, occ := range got {
		if !occ.Date.Equal(want[i].Time) {
			t.Errorf("occurrence %d date = %s, want %s", i+1, occ.Date, want[i])
		}
	}
}

func TestExpandRecurrence_OccurrenceCap(t *testing.T) {
	tests := []struct {
		name       string
		recurrence Recurrence
		endDate    Date
	}{
		{name: "daily over two months", recurrence: RecurrenceDaily, endDate: NewDate(2024, 3, 1)},
		{name: "weekly over a year", recurrence: RecurrenceWeekly, endDate: NewDate(2025, 1, 1)},
		{name: "monthly over three years", recurrence: RecurrenceMonthly, endDate: NewDate(2027, 1, 1)},
		{name: "yearly over two decades", recurrence: RecurrenceYearly, endDate: NewDate(2044, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template := monthlyTemplate()
			template.Recurrence = tt.recurrence
			template.RecurrenceEndDate = tt.endDate

			got := ExpandRecurrence(template, "parent-1")
			if len(got) > maxOccurrences {
				t.Errorf("ExpandRecurrence() returned %d occurrences, cap is %d", len(got), maxOccurrences)
			}
			if len(got) != maxOccurrences {
				t.Errorf("ExpandRecurrence() returned %d occurrences, want the full cap of %d", len(got), maxOccurrences)
			}
		})
	}
}

func TestExpandRecurrence_EndDateTruncation(t *testing.T) {
	// Jan 31 monthly: the first occurrence clamps to Feb 29 (2024 is a leap
	// year) and fits before the end date; the Mar 31 attempt exceeds it and
	// stops generation even though the estimate sized the loop for two.
	template := monthlyTemplate()
	template.Date = NewDate(2024, 1, 31)
	template.RecurrenceEndDate = NewDate(2024, 3, 15)

	got := ExpandRecurrence(template, "parent-1")

	if len(got) != 1 {
		t.Fatalf("ExpandRecurrence() returned %d occurrences, want 1", len(got))
	}
	if want := NewDate(2024, 2, 29); !got[0].Date.Equal(want.Time) {
		t.Errorf("occurrence date = %s, want %s", got[0].Date, want)
	}
}

func TestExpandRecurrence_DueDateParity(t *testing.T) {
	template := monthlyTemplate()
	template.Date = NewDate(2024, 1, 1)
	template.DueDate = NewDate(2024, 1, 10)
	template.PaymentStatus = StatusPending

	got := ExpandRecurrence(template, "parent-1")

	if len(got) != defaultOccurrences {
		t.Fatalf("ExpandRecurrence() returned %d occurrences, want %d", len(got), defaultOccurrences)
	}
	first := got[0]
	if want := NewDate(2024, 2, 1); !first.Date.Equal(want.Time) {
		t.Errorf("first occurrence date = %s, want %s", first.Date, want)
	}
	if want := NewDate(2024, 2, 10); !first.DueDate.Equal(want.Time) {
		t.Errorf("first occurrence due date = %s, want %s", first.DueDate, want)
	}
}

func TestExpandRecurrence_OccurrenceFields(t *testing.T) {
	template := monthlyTemplate()
	template.ID = "template-id"
	template.UserID = "user-1"
	template.CategoryID = "cat-1"
	template.PaymentStatus = StatusScheduled
	template.RecurrenceEndDate = NewDate(2024, 6, 1)

	got := ExpandRecurrence(template, "persisted-id")
	if len(got) == 0 {
		t.Fatal("ExpandRecurrence() returned no occurrences")
	}

	for i, occ := range got {
		if occ.ID != "" {
			t.Errorf("occurrence %d carries id %q, want empty (storage assigns ids)", i+1, occ.ID)
		}
		if occ.Recurrence != RecurrenceNone {
			t.Errorf("occurrence %d recurrence = %q, want none", i+1, occ.Recurrence)
		}
		if !occ.RecurrenceEndDate.IsZero() {
			t.Errorf("occurrence %d still carries a recurrence end date", i+1)
		}
		if occ.ParentTransactionID != "persisted-id" {
			t.Errorf("occurrence %d parent = %q, want %q", i+1, occ.ParentTransactionID, "persisted-id")
		}
		if occ.UserID != template.UserID || occ.Amount != template.Amount ||
			occ.CategoryID != template.CategoryID || occ.CategoryName != template.CategoryName ||
			occ.Description != template.Description || occ.PaymentStatus != template.PaymentStatus {
			t.Errorf("occurrence %d did not preserve template fields: %+v", i+1, occ)
		}
	}
}

func TestExpandRecurrence_YearlyClampsLeapDay(t *testing.T) {
	template := monthlyTemplate()
	template.Recurrence = RecurrenceYearly
	template.Date = NewDate(2024, 2, 29)

	got := ExpandRecurrence(template, "parent-1")
	if len(got) != defaultOccurrences {
		t.Fatalf("ExpandRecurrence() returned %d occurrences, want %d", len(got), defaultOccurrences)
	}
	if want := NewDate(2025, 2, 28); !got[0].Date.Equal(want.Time) {
		t.Errorf("first yearly occurrence = %s, want %s", got[0].Date, want)
	}
	if want := NewDate(2028, 2, 29); !got[3].Date.Equal(want.Time) {
		t.Errorf("fourth yearly occurrence = %s, want %s", got[3].Date, want)
	}
}

func TestExpandRecurrence_Idempotent(t *testing.T) {
	template := monthlyTemplate()
	template.DueDate = NewDate(2024, 1, 15)
	template.RecurrenceEndDate = NewDate(2024, 8, 1)

	first := ExpandRecurrence(template, "parent-1")
	second := ExpandRecurrence(template, "parent-1")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("ExpandRecurrence() is not deterministic:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
