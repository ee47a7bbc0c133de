package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

const selectExpenses = `SELECT id, date, category, description, amount, payer_id, status, created_at FROM expenses`

// CreateExpense persists a new expense and its participants in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Status == "" {
		expense.Status = models.StatusUnsettled
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, date, category, description, amount, payer_id, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Date, expense.Category, expense.Description,
		expense.Amount.String(), expense.PayerID, string(expense.Status), expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, userID := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, user_id, position) VALUES (?, ?, ?)",
			expense.ID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its participants.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(s.db.QueryRowContext(ctx, selectExpenses+" WHERE id = ?", expenseID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	participants, err := loadParticipants(ctx, s.db, expenseID)
	if err != nil {
		return nil, err
	}
	expense.Participants = participants[expenseID]

	return expense, nil
}

// ListExpenses returns expenses ordered by date, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]*models.Expense, error) {
	return listExpenses(ctx, s.db, filter)
}

// UpdateExpenseStatus sets the status of an expense.
func (s *SQLiteStore) UpdateExpenseStatus(ctx context.Context, expenseID string, status models.ExpenseStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid expense status %q", status)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET status = ? WHERE id = ?",
		string(status), expenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}

	return nil
}

func listExpenses(ctx context.Context, q queryer, filter storage.ExpenseFilter) ([]*models.Expense, error) {
	query := selectExpenses
	var args []any
	if filter.UnsettledOnly {
		query += " WHERE status = ?"
		args = append(args, string(models.StatusUnsettled))
	}
	query += " ORDER BY date DESC, created_at DESC, id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if len(expenses) == 0 {
		return expenses, nil
	}

	participants, err := loadParticipants(ctx, q, "")
	if err != nil {
		return nil, err
	}
	for _, expense := range expenses {
		expense.Participants = participants[expense.ID]
	}

	return expenses, nil
}

// loadParticipants returns participant IDs per expense, in insertion order.
// An empty expenseID loads participants of every expense.
func loadParticipants(ctx context.Context, q queryer, expenseID string) (map[string][]string, error) {
	query := "SELECT expense_id, user_id FROM expense_participants"
	var args []any
	if expenseID != "" {
		query += " WHERE expense_id = ?"
		args = append(args, expenseID)
	}
	query += " ORDER BY expense_id, position"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	participants := make(map[string][]string)
	for rows.Next() {
		var id, userID string
		if err := rows.Scan(&id, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants[id] = append(participants[id], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return participants, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var status string
	if err := row.Scan(
		&expense.ID,
		&expense.Date,
		&expense.Category,
		&expense.Description,
		&expense.Amount,
		&expense.PayerID,
		&status,
		&expense.CreatedAt,
	); err != nil {
		return nil, err
	}
	expense.Status = models.ExpenseStatus(status)
	return expense, nil
}
