package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRecord is returned for records that break the ExpenseRecord
	// invariants: empty or duplicate participants, non-positive or sub-cent
	// amounts, and identifiers outside the known participant set.
	ErrInvalidRecord = errors.New("invalid expense record")

	// ErrConservationViolation is returned when net balances do not sum to zero.
	ErrConservationViolation = errors.New("net balances do not sum to zero")

	ErrDuplicateParticipant = errors.New("duplicate participant")
)

// ConservationError carries the imbalance that made the planner refuse to
// produce a plan. It unwraps to ErrConservationViolation.
type ConservationError struct {
	Imbalance decimal.Decimal
	Tolerance decimal.Decimal
}

func (e *ConservationError) Error() string {
	return fmt.Sprintf("%v: off by %s (tolerance %s)",
		ErrConservationViolation, e.Imbalance.StringFixed(MinorUnitPlaces), e.Tolerance.String())
}

func (e *ConservationError) Unwrap() error {
	return ErrConservationViolation
}
