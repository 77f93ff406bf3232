package core

import "time"

const (
	// defaultOccurrences is how many future occurrences a recurring template
	// expands into when no end date bounds it.
	defaultOccurrences = 6
	// maxOccurrences caps expansion regardless of how far away the end date is.
	maxOccurrences = 12
)

// approxPeriodDays returns the rough day length of one recurrence period,
// used only to size the generation loop. Actual date advancement uses real
// calendar arithmetic, so the estimate can land one occurrence short or long
// around leap years and uneven month lengths; the end-date check below is
// what actually truncates the sequence.
func approxPeriodDays(r Recurrence) int {
	switch r {
	case RecurrenceDaily:
		return 1
	case RecurrenceWeekly:
		return 7
	case RecurrenceMonthly:
		return 30
	case RecurrenceYearly:
		return 365
	}
	return 0
}

// ExpandRecurrence generates the ordered future occurrences of a recurring
// template. The template itself is not included. Each occurrence copies the
// template with its date (and due date, when set) advanced by the occurrence
// number, its recurrence cleared so it can never be re-expanded, and
// ParentTransactionID set to parentID — the id the template received when it
// was persisted.
//
// A template without an end date expands into exactly defaultOccurrences
// occurrences. With an end date, the occurrence count is estimated from the
// day span and hard-capped at maxOccurrences; generation additionally stops
// at the first occurrence whose computed date falls past the end date.
//
// The function is pure: no clock reads, no side effects, and occurrences are
// independent of one another, so the caller may persist them in any order.
func ExpandRecurrence(template Transaction, parentID string) []Transaction {
	period := approxPeriodDays(template.Recurrence)
	if period == 0 {
		return nil
	}

	end := template.RecurrenceEndDate
	count := defaultOccurrences
	if !end.IsZero() {
		span := int(end.Time.Sub(template.Date.Time).Hours() / 24)
		count = (span + period - 1) / period
		if count > maxOccurrences {
			count = maxOccurrences
		}
	}
	if count <= 0 {
		return nil
	}

	occurrences := make([]Transaction, 0, count)
	for n := 1; n <= count; n++ {
		date := advance(template.Date, template.Recurrence, n)
		if !end.IsZero() && date.After(end) {
			break
		}

		occ := template
		occ.ID = ""
		occ.Date = date
		if !template.DueDate.IsZero() {
			occ.DueDate = advance(template.DueDate, template.Recurrence, n)
		}
		occ.Recurrence = RecurrenceNone
		occ.RecurrenceEndDate = Date{}
		occ.ParentTransactionID = parentID
		occurrences = append(occurrences, occ)
	}
	return occurrences
}

// advance moves d forward by n recurrence periods.
func advance(d Date, r Recurrence, n int) Date {
	switch r {
	case RecurrenceDaily:
		return Date{Time: d.AddDate(0, 0, n)}
	case RecurrenceWeekly:
		return Date{Time: d.AddDate(0, 0, 7*n)}
	case RecurrenceMonthly:
		return addMonths(d, n)
	case RecurrenceYearly:
		return addMonths(d, 12*n)
	}
	return d
}

// addMonths adds n calendar months, clamping the day to the end of shorter
// target months (Jan 31 + 1 month = Feb 29 in a leap year, Feb 28 otherwise).
// time.Time.AddDate would normalize Jan 31 + 1 month into early March instead.
func addMonths(d Date, n int) Date {
	year, month, day := d.Date()
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return NewDate(first.Year(), int(first.Month()), day)
}
