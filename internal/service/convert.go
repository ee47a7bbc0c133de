package service

import (
	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/storage"
)

func toUser(u *models.User) User {
	return User{ID: u.ID, Name: u.Name, CreatedAt: u.CreatedAt}
}

func toRecord(e *models.Expense) calculator.ExpenseRecord {
	return calculator.ExpenseRecord{
		ID:           e.ID,
		Amount:       e.Amount,
		Payer:        e.PayerID,
		Participants: e.Participants,
		Settled:      e.Settled(),
	}
}

func toExpense(e *models.Expense, names map[string]string) (Expense, error) {
	shares, err := calculator.Shares(toRecord(e))
	if err != nil {
		return Expense{}, err
	}

	out := Expense{
		ID:             e.ID,
		Date:           e.Date,
		Category:       e.Category,
		Description:    e.Description,
		Amount:         e.Amount,
		PayerID:        e.PayerID,
		PayerName:      names[e.PayerID],
		ParticipantIDs: e.Participants,
		Shares:         make([]Share, len(shares)),
		Status:         string(e.Status),
		CreatedAt:      e.CreatedAt,
	}
	for i, sh := range shares {
		out.Shares[i] = Share{UserID: sh.Participant, Amount: sh.Amount}
	}
	return out, nil
}

func toBalances(balances []calculator.Balance, names map[string]string) []Balance {
	out := make([]Balance, len(balances))
	for i, b := range balances {
		out[i] = Balance{
			UserID:    b.Participant,
			Name:      names[b.Participant],
			TotalPaid: b.TotalPaid,
			TotalOwed: b.TotalOwed,
			Balance:   b.Net,
		}
	}
	return out
}

// aggregate computes balances for every user in the snapshot. Users keep the
// snapshot's name order.
func aggregate(snap *storage.Snapshot) ([]calculator.Balance, error) {
	ids := make([]string, len(snap.Users))
	for i, u := range snap.Users {
		ids[i] = u.ID
	}

	records := make([]calculator.ExpenseRecord, len(snap.Expenses))
	for i, e := range snap.Expenses {
		records[i] = toRecord(e)
	}
	return calculator.Aggregate(ids, records)
}

func userNames(users []*models.User) map[string]string {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}

func knownUsers(users []*models.User) calculator.ParticipantSet {
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return calculator.NewParticipantSet(ids...)
}
