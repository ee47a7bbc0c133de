// Package models defines the ledger records persisted by the storage layer.
//
// # Models
//
//   - User: a participant who can pay for or share an expense
//   - Expense: one shared cost, who advanced it and who splits it
//
// Participants are referenced by user ID. Money is carried as decimal.Decimal
// at the currency's minor-unit precision; balances are never stored and are
// recomputed from expenses on every query.
//
// # Design Principles
//
// 1. **Source of truth**: expenses are the only ledger state; balances and
// settlement plans are derived
// 2. **Avoid circular references**: use ID strings instead of pointers for relationships
// 3. **Exact money**: amounts never pass through float64
package models
