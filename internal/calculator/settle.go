package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Transfer is a proposed payment from a debtor to a creditor.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// Planner computes settlement plans. Tolerance is the noise floor: a balance
// whose magnitude does not exceed it counts as settled. A zero Tolerance means
// DefaultTolerance.
type Planner struct {
	Tolerance decimal.Decimal
}

// NewPlanner returns a planner using DefaultTolerance.
func NewPlanner() Planner {
	return Planner{Tolerance: DefaultTolerance}
}

// PlanSettlement plans transfers for balances with the default planner.
func PlanSettlement(balances []Balance) ([]Transfer, error) {
	return NewPlanner().Plan(balances)
}

type party struct {
	id  string
	net decimal.Decimal
}

func (p Planner) tolerance() decimal.Decimal {
	if p.Tolerance.IsPositive() {
		return p.Tolerance
	}
	return DefaultTolerance
}

// Plan returns an ordered list of transfers that, replayed in order, brings
// every balance to zero. An empty plan means the balances are already settled.
//
// Greedy algorithm: match the largest creditor with the largest debtor, transfer
// the smaller of the two amounts, and move past whoever reaches zero. Ties are
// broken by participant identifier. Each transfer settles at least one party,
// so the plan never exceeds len(balances)-1 transfers. It is not guaranteed to
// be the global minimum.
//
// Nets are rounded to the minor unit first. If their sum exceeds the tolerance
// the ledger is inconsistent and Plan returns a *ConservationError instead of a
// partial plan.
func (p Planner) Plan(balances []Balance) ([]Transfer, error) {
	tol := p.tolerance()

	seen := make(map[string]struct{}, len(balances))
	var creditors, debtors []*party
	sum := decimal.Zero
	for _, b := range balances {
		if _, dup := seen[b.Participant]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateParticipant, b.Participant)
		}
		seen[b.Participant] = struct{}{}

		net := quantize(b.Net)
		sum = sum.Add(net)
		switch {
		case isSettled(net, tol):
		case net.IsPositive():
			creditors = append(creditors, &party{id: b.Participant, net: net})
		default:
			debtors = append(debtors, &party{id: b.Participant, net: net})
		}
	}
	if !isSettled(sum, tol) {
		return nil, &ConservationError{Imbalance: sum, Tolerance: tol}
	}

	// Largest credit first, most negative debt first.
	sort.Slice(creditors, func(i, j int) bool {
		if c := creditors[i].net.Cmp(creditors[j].net); c != 0 {
			return c > 0
		}
		return creditors[i].id < creditors[j].id
	})
	sort.Slice(debtors, func(i, j int) bool {
		if c := debtors[i].net.Cmp(debtors[j].net); c != 0 {
			return c < 0
		}
		return debtors[i].id < debtors[j].id
	})

	var transfers []Transfer
	i, j := 0, 0
	for i < len(creditors) && j < len(debtors) {
		creditor, debtor := creditors[i], debtors[j]

		amount := decimal.Min(creditor.net, debtor.net.Neg())
		if !isSettled(amount, tol) {
			transfers = append(transfers, Transfer{
				From:   debtor.id,
				To:     creditor.id,
				Amount: amount,
			})
		}

		creditor.net = creditor.net.Sub(amount)
		debtor.net = debtor.net.Add(amount)

		if isSettled(creditor.net, tol) {
			i++
		}
		if isSettled(debtor.net, tol) {
			j++
		}
	}

	residual := decimal.Zero
	unsettled := false
	for _, rest := range [][]*party{creditors[i:], debtors[j:]} {
		for _, pt := range rest {
			residual = residual.Add(pt.net)
			if !isSettled(pt.net, tol) {
				unsettled = true
			}
		}
	}
	if unsettled {
		return nil, &ConservationError{Imbalance: residual, Tolerance: tol}
	}

	return transfers, nil
}
