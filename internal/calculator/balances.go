package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Balance is the aggregated position of one participant.
type Balance struct {
	Participant string
	TotalPaid   decimal.Decimal // sum of amounts this participant advanced
	TotalOwed   decimal.Decimal // sum of this participant's shares
	Net         decimal.Decimal // Positive = owed money, Negative = owes money
}

// Aggregator folds expense records into per-participant balances, one record
// at a time. The zero value is not usable; call NewAggregator.
type Aggregator struct {
	order         []string
	balances      map[string]*Balance
	known         ParticipantSet
	unsettledOnly bool
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithUnsettledOnly makes the aggregator skip records marked as settled.
func WithUnsettledOnly() AggregatorOption {
	return func(a *Aggregator) {
		a.unsettledOnly = true
	}
}

// NewAggregator creates an aggregator over the complete participant set.
// Every participant gets a balance, even without activity. Repeated identifiers
// are collapsed and keep the position of their first occurrence.
func NewAggregator(participants []string, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		balances: make(map[string]*Balance, len(participants)),
		known:    make(ParticipantSet, len(participants)),
	}
	for _, p := range participants {
		if a.known.Contains(p) {
			continue
		}
		a.known[p] = struct{}{}
		a.order = append(a.order, p)
		a.balances[p] = &Balance{Participant: p}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Add validates one record and folds it into the running totals:
// payer's TotalPaid grows by the amount, each participant's TotalOwed by its share.
// A rejected record leaves the totals untouched.
func (a *Aggregator) Add(rec ExpenseRecord) error {
	if err := rec.Validate(a.known); err != nil {
		return err
	}
	if a.unsettledOnly && rec.Settled {
		return nil
	}

	shares, err := Shares(rec)
	if err != nil {
		return err
	}

	payer := a.balances[rec.Payer]
	payer.TotalPaid = payer.TotalPaid.Add(rec.Amount)
	for _, s := range shares {
		b := a.balances[s.Participant]
		b.TotalOwed = b.TotalOwed.Add(s.Amount)
	}
	return nil
}

// Balances returns one balance per known participant, in the order the
// participants were given to NewAggregator.
func (a *Aggregator) Balances() []Balance {
	out := make([]Balance, 0, len(a.order))
	for _, p := range a.order {
		b := *a.balances[p]
		b.Net = b.TotalPaid.Sub(b.TotalOwed)
		out = append(out, b)
	}
	return out
}

// Aggregate computes balances for participants from records.
//
// Algorithm:
// - For each record: payer contributed +amount, each participant owes their share
// - Shares follow the rounding policy of Shares (remainder to the payer)
// - net = total_paid - total_owed
func Aggregate(participants []string, records []ExpenseRecord, opts ...AggregatorOption) ([]Balance, error) {
	agg := NewAggregator(participants, opts...)
	for i, rec := range records {
		if err := agg.Add(rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return agg.Balances(), nil
}

// NetSum returns the sum of net balances. For any aggregated ledger it is zero.
func NetSum(balances []Balance) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.Net)
	}
	return sum
}
