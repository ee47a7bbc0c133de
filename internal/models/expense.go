package models

import "github.com/shopspring/decimal"

// ExpenseStatus tracks whether an expense still counts towards outstanding balances.
type ExpenseStatus string

const (
	// StatusUnsettled is the default; the expense is part of the settlement plan.
	StatusUnsettled ExpenseStatus = "unsettled"
	// StatusSettled expenses are kept for history but excluded from the plan.
	StatusSettled ExpenseStatus = "settled"
)

// Valid reports whether s is a known status.
func (s ExpenseStatus) Valid() bool {
	return s == StatusUnsettled || s == StatusSettled
}

// Expense represents a shared cost advanced by one user and split equally
// among the participants.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// Date is the day the expense happened, formatted as YYYY-MM-DD.
	Date string

	// Category groups expenses for display (e.g., "Food", "Rent").
	Category string

	// Description is a free-text label.
	Description string

	// Amount is the total cost, positive, at minor-unit precision.
	Amount decimal.Decimal

	// PayerID is the user who advanced the money.
	PayerID string

	// Participants are the user IDs sharing the cost. The payer may or may not
	// be among them.
	Participants []string

	// Status is StatusUnsettled until the group marks the expense as settled.
	Status ExpenseStatus

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Settled reports whether the expense is excluded from outstanding balances.
func (e *Expense) Settled() bool {
	return e.Status == StatusSettled
}
