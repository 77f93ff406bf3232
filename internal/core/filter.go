package core

// Filter is an optional predicate set used to scope a transaction collection
// before aggregation or display. Zero-valued fields do not constrain.
type Filter struct {
	Type          TransactionType
	CategoryID    string
	From          Date
	To            Date
	MinCents      int64
	MaxCents      int64
	PaymentStatus PaymentStatus
	// Recurrence filters templates by rule; nil leaves recurrence
	// unconstrained (a pointer because RecurrenceNone is the empty string).
	Recurrence *Recurrence
}

// Matches reports whether t satisfies every set constraint.
func (f Filter) Matches(t Transaction) bool {
	if f.Type != "" && t.Type != f.Type {
		return false
	}
	if f.CategoryID != "" && t.CategoryID != f.CategoryID {
		return false
	}
	if !f.From.IsZero() && t.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && t.Date.After(f.To) {
		return false
	}
	if f.MinCents > 0 && t.Amount.Cents < f.MinCents {
		return false
	}
	if f.MaxCents > 0 && t.Amount.Cents > f.MaxCents {
		return false
	}
	if f.PaymentStatus != "" && t.PaymentStatus != f.PaymentStatus {
		return false
	}
	if f.Recurrence != nil && t.Recurrence != *f.Recurrence {
		return false
	}
	return true
}

// Apply returns the subset of transactions matching the filter. A zero filter
// returns the input unchanged.
func (f Filter) Apply(transactions []Transaction) []Transaction {
	if f == (Filter{}) {
		return transactions
	}
	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}
