package service

import "github.com/shopspring/decimal"

// Messages exchanged over the LedgerService. Amounts are decimal strings in JSON.

// User is a ledger member.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// Share is what one user owes for a single expense.
type Share struct {
	UserID string          `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// Expense is a recorded expense with its equal split already computed.
type Expense struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Category       string          `json:"category"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	PayerID        string          `json:"payer_id"`
	PayerName      string          `json:"payer_name"`
	ParticipantIDs []string        `json:"participant_ids"`
	Shares         []Share         `json:"shares"`
	Status         string          `json:"status"`
	CreatedAt      int64           `json:"created_at"`
}

// Balance is one user's position. Positive Balance = owed money.
type Balance struct {
	UserID    string          `json:"user_id"`
	Name      string          `json:"name"`
	TotalPaid decimal.Decimal `json:"total_paid"`
	TotalOwed decimal.Decimal `json:"total_owed"`
	Balance   decimal.Decimal `json:"balance"`
}

// Transfer is one proposed payment of a settlement plan.
type Transfer struct {
	FromUserID string          `json:"from_user_id"`
	FromName   string          `json:"from_name"`
	ToUserID   string          `json:"to_user_id"`
	ToName     string          `json:"to_name"`
	Amount     decimal.Decimal `json:"amount"`
}

// CreateUserRequest registers a user under a unique name.
type CreateUserRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// CreateUserResponse returns the stored user.
type CreateUserResponse struct {
	User User `json:"user"`
}

func (r *CreateUserResponse) LogAttrs() []any {
	return []any{"user_id", r.User.ID}
}

// ListUsersRequest has no fields.
type ListUsersRequest struct{}

// ListUsersResponse lists users ordered by name.
type ListUsersResponse struct {
	Users []User `json:"users"`
}

// CreateExpenseRequest records an expense paid by PayerID and shared equally
// by ParticipantIDs.
type CreateExpenseRequest struct {
	Date           string          `json:"date" validate:"required,datetime=2006-01-02"`
	Category       string          `json:"category" validate:"required,max=64"`
	Description    string          `json:"description" validate:"required,max=256"`
	Amount         decimal.Decimal `json:"amount" validate:"money"`
	PayerID        string          `json:"payer_id" validate:"required"`
	ParticipantIDs []string        `json:"participant_ids" validate:"required,min=1,unique,dive,required"`
}

// CreateExpenseResponse returns the stored expense.
type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

func (r *CreateExpenseResponse) LogAttrs() []any {
	return []any{"expense_id", r.Expense.ID, "amount", r.Expense.Amount.String()}
}

// ListExpensesRequest optionally restricts the listing to unsettled expenses.
type ListExpensesRequest struct {
	UnsettledOnly bool `json:"unsettled_only"`
}

// ListExpensesResponse lists expenses, newest first.
type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

func (r *ListExpensesResponse) LogAttrs() []any {
	return []any{"expenses", len(r.Expenses)}
}

// UpdateExpenseStatusRequest marks an expense settled or unsettled.
type UpdateExpenseStatusRequest struct {
	ExpenseID string `json:"expense_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=unsettled settled"`
}

// UpdateExpenseStatusResponse returns the updated expense.
type UpdateExpenseStatusResponse struct {
	Expense Expense `json:"expense"`
}

func (r *UpdateExpenseStatusResponse) LogAttrs() []any {
	return []any{"expense_id", r.Expense.ID, "status", r.Expense.Status}
}

// GetUserSummaryRequest asks for one user's totals.
type GetUserSummaryRequest struct {
	UserID        string `json:"user_id" validate:"required"`
	UnsettledOnly bool   `json:"unsettled_only"`
}

// GetUserSummaryResponse carries the user's totals and net balance.
type GetUserSummaryResponse struct {
	Summary Balance `json:"summary"`
}

// GetBalancesRequest optionally restricts balances to unsettled expenses.
type GetBalancesRequest struct {
	UnsettledOnly bool `json:"unsettled_only"`
}

// GetBalancesResponse lists every user's balance, ordered by name.
type GetBalancesResponse struct {
	Balances []Balance `json:"balances"`
}

// GetSettlementPlanRequest has no fields: plans always cover unsettled expenses.
type GetSettlementPlanRequest struct{}

// GetSettlementPlanResponse carries the balances the plan was computed from
// and the transfers, in payment order.
type GetSettlementPlanResponse struct {
	Balances  []Balance  `json:"balances"`
	Transfers []Transfer `json:"transfers"`
}

func (r *GetSettlementPlanResponse) LogAttrs() []any {
	return []any{"users", len(r.Balances), "transfers", len(r.Transfers)}
}
