package core

// Summary is the derived financial aggregate shown on the dashboard. It is
// recomputed from the transaction collection on every change and never
// persisted.
type Summary struct {
	TotalIncome           Money `json:"totalIncome"`
	TotalExpense          Money `json:"totalExpense"`
	Balance               Money `json:"balance"`
	TotalPendingExpense   Money `json:"totalPendingExpense"`
	TotalPaidExpense      Money `json:"totalPaidExpense"`
	TotalScheduledExpense Money `json:"totalScheduledExpense"`
}

// Summarize reduces a transaction collection into a Summary in one pass.
// Input order does not matter and an empty collection yields all-zero totals.
// Expense records with a missing or unrecognized payment status count as
// pending; the input is never mutated. The balance is computed once at the
// end rather than accumulated per record.
func Summarize(transactions []Transaction) Summary {
	var s Summary
	for _, t := range transactions {
		switch t.Type {
		case TypeIncome:
			s.TotalIncome.Cents += t.Amount.Cents
		case TypeExpense:
			s.TotalExpense.Cents += t.Amount.Cents
			switch t.PaymentStatus {
			case StatusPaid:
				s.TotalPaidExpense.Cents += t.Amount.Cents
			case StatusScheduled:
				s.TotalScheduledExpense.Cents += t.Amount.Cents
			default:
				s.TotalPendingExpense.Cents += t.Amount.Cents
			}
		}
	}
	s.Balance.Cents = s.TotalIncome.Cents - s.TotalExpense.Cents
	return s
}
