// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settleup/internal/models"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique field is already taken.
	ErrAlreadyExists = errors.New("already exists")
)

// ExpenseFilter narrows the expenses returned by the store.
type ExpenseFilter struct {
	// UnsettledOnly restricts the result to expenses with StatusUnsettled.
	UnsettledOnly bool
}

// Snapshot is a consistent view of the ledger read in a single transaction.
type Snapshot struct {
	Users    []*models.User    // ordered by name
	Expenses []*models.Expense // ordered by date desc, created_at desc
}

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. ID and CreatedAt are populated by the store.
	// Returns ErrAlreadyExists if the name is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns ErrNotFound if missing.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// ListUsers returns all users ordered by name.
	ListUsers(ctx context.Context) ([]*models.User, error)

	// CreateExpense persists an expense and its participants atomically.
	// ID, CreatedAt and an empty Status are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its participants. Returns ErrNotFound if missing.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns expenses, newest first.
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]*models.Expense, error)

	// UpdateExpenseStatus changes the status of an expense. Returns ErrNotFound if missing.
	UpdateExpenseStatus(ctx context.Context, expenseID string, status models.ExpenseStatus) error

	// Snapshot reads all users and the filtered expenses in one read-only transaction.
	Snapshot(ctx context.Context, filter ExpenseFilter) (*Snapshot, error)

	// Close releases any resources held by the store.
	Close() error
}
