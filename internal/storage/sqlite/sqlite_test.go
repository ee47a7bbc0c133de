package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "settleup-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustCreateUser(t *testing.T, store *SQLiteStore, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", name, err)
	}
	return user
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "Alice")
	bob := mustCreateUser(t, store, "Bob")
	carol := mustCreateUser(t, store, "Carol")

	t.Run("CreateUser generates ID and timestamp", func(t *testing.T) {
		if alice.ID == "" {
			t.Error("Expected user ID to be generated")
		}
		if alice.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("CreateUser rejects duplicate names", func(t *testing.T) {
		err := store.CreateUser(ctx, &models.User{Name: "Alice"})
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("Expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("GetUser and ListUsers", func(t *testing.T) {
		got, err := store.GetUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.Name != "Bob" {
			t.Errorf("Name mismatch: got %s, want Bob", got.Name)
		}

		if _, err := store.GetUser(ctx, "nonexistent-id"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}

		users, err := store.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers failed: %v", err)
		}
		if len(users) != 3 {
			t.Fatalf("Expected 3 users, got %d", len(users))
		}
		for i, name := range []string{"Alice", "Bob", "Carol"} {
			if users[i].Name != name {
				t.Errorf("users[%d] = %s, want %s", i, users[i].Name, name)
			}
		}
	})

	var dinner *models.Expense

	t.Run("CreateExpense and GetExpense round trip", func(t *testing.T) {
		dinner = &models.Expense{
			Date:         "2024-05-01",
			Category:     "Food",
			Description:  "Dinner",
			Amount:       decimal.RequireFromString("100.00"),
			PayerID:      alice.ID,
			Participants: []string{carol.ID, alice.ID, bob.ID},
		}
		if err := store.CreateExpense(ctx, dinner); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		if dinner.ID == "" || dinner.CreatedAt == 0 {
			t.Error("Expected ID and CreatedAt to be generated")
		}
		if dinner.Status != models.StatusUnsettled {
			t.Errorf("Status = %s, want unsettled", dinner.Status)
		}

		got, err := store.GetExpense(ctx, dinner.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if !got.Amount.Equal(dinner.Amount) {
			t.Errorf("Amount mismatch: got %s, want %s", got.Amount, dinner.Amount)
		}
		if got.PayerID != alice.ID || got.Category != "Food" || got.Date != "2024-05-01" {
			t.Errorf("Unexpected expense fields: %+v", got)
		}
		if len(got.Participants) != 3 {
			t.Fatalf("Expected 3 participants, got %d", len(got.Participants))
		}
		for i, id := range dinner.Participants {
			if got.Participants[i] != id {
				t.Errorf("Participants[%d] = %s, want %s (order must be preserved)", i, got.Participants[i], id)
			}
		}
	})

	t.Run("amounts keep exact decimal precision", func(t *testing.T) {
		taxi := &models.Expense{
			Date:         "2024-05-02",
			Category:     "Transport",
			Description:  "Taxi",
			Amount:       decimal.RequireFromString("33.33"),
			PayerID:      bob.ID,
			Participants: []string{alice.ID, bob.ID},
		}
		if err := store.CreateExpense(ctx, taxi); err != nil {
			t.Fatalf("CreateExpense failed: %v", err)
		}
		got, err := store.GetExpense(ctx, taxi.ID)
		if err != nil {
			t.Fatalf("GetExpense failed: %v", err)
		}
		if got.Amount.String() != "33.33" {
			t.Errorf("Amount = %s, want 33.33", got.Amount)
		}
	})

	t.Run("CreateExpense fails for unknown payer", func(t *testing.T) {
		err := store.CreateExpense(ctx, &models.Expense{
			Date:         "2024-05-03",
			Category:     "Misc",
			Description:  "Ghost",
			Amount:       decimal.NewFromInt(5),
			PayerID:      "ghost",
			Participants: []string{alice.ID},
		})
		if err == nil {
			t.Error("Expected foreign key error, got nil")
		}
	})

	t.Run("ListExpenses orders newest first and filters", func(t *testing.T) {
		all, err := store.ListExpenses(ctx, storage.ExpenseFilter{})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("Expected 2 expenses, got %d", len(all))
		}
		if all[0].Description != "Taxi" {
			t.Errorf("Expected newest expense first, got %s", all[0].Description)
		}
		if len(all[1].Participants) != 3 {
			t.Errorf("Expected participants to be loaded, got %v", all[1].Participants)
		}

		if err := store.UpdateExpenseStatus(ctx, dinner.ID, models.StatusSettled); err != nil {
			t.Fatalf("UpdateExpenseStatus failed: %v", err)
		}

		open, err := store.ListExpenses(ctx, storage.ExpenseFilter{UnsettledOnly: true})
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(open) != 1 || open[0].Description != "Taxi" {
			t.Errorf("Expected only Taxi to be unsettled, got %d expenses", len(open))
		}
	})

	t.Run("UpdateExpenseStatus errors", func(t *testing.T) {
		if err := store.UpdateExpenseStatus(ctx, "nonexistent-id", models.StatusSettled); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if err := store.UpdateExpenseStatus(ctx, dinner.ID, "paid"); err == nil {
			t.Error("Expected error for invalid status, got nil")
		}
	})

	t.Run("Snapshot returns users and filtered expenses", func(t *testing.T) {
		snap, err := store.Snapshot(ctx, storage.ExpenseFilter{UnsettledOnly: true})
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if len(snap.Users) != 3 {
			t.Errorf("Expected 3 users, got %d", len(snap.Users))
		}
		if len(snap.Expenses) != 1 {
			t.Errorf("Expected 1 unsettled expense, got %d", len(snap.Expenses))
		}

		full, err := store.Snapshot(ctx, storage.ExpenseFilter{})
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if len(full.Expenses) != 2 {
			t.Errorf("Expected 2 expenses, got %d", len(full.Expenses))
		}
	})

	t.Run("Snapshot releases its read-only transaction", func(t *testing.T) {
		before, err := store.Snapshot(ctx, storage.ExpenseFilter{})
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}

		mustCreateUser(t, store, "Dave")
		if err := store.UpdateExpenseStatus(ctx, dinner.ID, models.StatusUnsettled); err != nil {
			t.Fatalf("UpdateExpenseStatus after Snapshot failed: %v", err)
		}

		after, err := store.Snapshot(ctx, storage.ExpenseFilter{UnsettledOnly: true})
		if err != nil {
			t.Fatalf("Snapshot failed: %v", err)
		}
		if len(after.Users) != len(before.Users)+1 {
			t.Errorf("Expected %d users, got %d", len(before.Users)+1, len(after.Users))
		}
		if len(after.Expenses) != 2 {
			t.Errorf("Expected 2 unsettled expenses, got %d", len(after.Expenses))
		}
	})
}

func TestNewIsIdempotent(t *testing.T) {
	dir, err := os.MkdirTemp("", "settleup-reopen-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	dbPath := filepath.Join(dir, "nested", "ledger.db")
	first, err := New(dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := first.CreateUser(context.Background(), &models.User{Name: "Dana"}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	first.Close()

	second, err := New(dbPath)
	if err != nil {
		t.Fatalf("Reopening store failed: %v", err)
	}
	defer second.Close()

	users, err := second.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 || users[0].Name != "Dana" {
		t.Errorf("Expected persisted user Dana, got %v", users)
	}
}
