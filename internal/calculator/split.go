package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ExpenseRecord is the minimal view of an expense needed for balance calculations.
type ExpenseRecord struct {
	ID           string // optional, only used in error messages
	Amount       decimal.Decimal
	Payer        string
	Participants []string
	Settled      bool
}

// Share is the amount one participant owes for a single record.
type Share struct {
	Participant string
	Amount      decimal.Decimal
}

// ParticipantSet is the set of known participant identifiers.
type ParticipantSet map[string]struct{}

// NewParticipantSet builds a set from the given identifiers.
func NewParticipantSet(ids ...string) ParticipantSet {
	set := make(ParticipantSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is in the set.
func (s ParticipantSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

func (r ExpenseRecord) invalid(format string, args ...any) error {
	ref := r.ID
	if ref == "" {
		ref = "record"
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidRecord, ref, fmt.Sprintf(format, args...))
}

// Validate checks the record's own invariants. When known is non-nil, the payer
// and every participant must also belong to it.
func (r ExpenseRecord) Validate(known ParticipantSet) error {
	if !r.Amount.IsPositive() {
		return r.invalid("amount must be positive, got %s", r.Amount.String())
	}
	if !r.Amount.Equal(quantize(r.Amount)) {
		return r.invalid("amount %s is finer than the minor unit", r.Amount.String())
	}
	if r.Payer == "" {
		return r.invalid("payer is required")
	}
	if len(r.Participants) == 0 {
		return r.invalid("at least one participant is required")
	}

	seen := make(map[string]struct{}, len(r.Participants))
	for _, p := range r.Participants {
		if p == "" {
			return r.invalid("empty participant identifier")
		}
		if _, dup := seen[p]; dup {
			return r.invalid("participant %q listed twice", p)
		}
		seen[p] = struct{}{}
	}

	if known == nil {
		return nil
	}
	if !known.Contains(r.Payer) {
		return r.invalid("unknown payer %q", r.Payer)
	}
	for _, p := range r.Participants {
		if !known.Contains(p) {
			return r.invalid("unknown participant %q", p)
		}
	}
	return nil
}

// Shares splits the record amount equally among its participants.
//
// Each share is amount/n rounded half-to-even to the minor unit, or truncated
// when rounding up would make the shares exceed the amount. The non-negative
// difference between the amount and the sum of shares is assigned to the payer: it
// is added to the payer's share, or reported as an extra share for the payer
// when the payer is not a participant. The returned shares always sum to the
// record amount exactly.
func Shares(rec ExpenseRecord) ([]Share, error) {
	if err := rec.Validate(nil); err != nil {
		return nil, err
	}

	n := decimal.NewFromInt(int64(len(rec.Participants)))
	base := quantize(rec.Amount.Div(n))
	if base.Mul(n).GreaterThan(rec.Amount) {
		// Rounding up would leave the payer a negative remainder.
		base = rec.Amount.Div(n).Truncate(MinorUnitPlaces)
	}
	remainder := rec.Amount.Sub(base.Mul(n))

	shares := make([]Share, len(rec.Participants))
	payerListed := false
	for i, p := range rec.Participants {
		shares[i] = Share{Participant: p, Amount: base}
		if p == rec.Payer {
			shares[i].Amount = base.Add(remainder)
			payerListed = true
		}
	}
	if !payerListed && !remainder.IsZero() {
		shares = append(shares, Share{Participant: rec.Payer, Amount: remainder})
	}
	return shares, nil
}
