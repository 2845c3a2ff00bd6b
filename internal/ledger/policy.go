package ledger

import (
	"fmt"
	"strings"

	"github.com/tirasundara/payment-ledger/internal/domain"
)

// DisputePolicy decides whether a dispute, resolve or chargeback may act on a recorded transaction
type DisputePolicy interface {
	// Transition returns the state the referenced transaction moves to, or the reason the action is refused
	Transition(action domain.TransactionType, current domain.DisputeState) (domain.DisputeState, error)
	Name() string
}

// Policy names accepted by ParseDisputePolicy
const (
	StrictPolicyName  = "strict"
	LenientPolicyName = "lenient"
)

// ParseDisputePolicy returns the policy registered under name
func ParseDisputePolicy(name string) (DisputePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case StrictPolicyName, "":
		return NewStrictDisputes(), nil
	case LenientPolicyName:
		return NewLenientDisputes(), nil
	}
	return nil, fmt.Errorf("unknown dispute policy %q", name)
}

// LenientDisputes only requires the referenced transaction to exist.
// A resolve or chargeback without a preceding dispute still moves funds.
type LenientDisputes struct{}

// NewLenientDisputes creates a new LenientDisputes
func NewLenientDisputes() *LenientDisputes {
	return &LenientDisputes{}
}

// Transition implements the DisputePolicy interface
func (p *LenientDisputes) Transition(action domain.TransactionType, _ domain.DisputeState) (domain.DisputeState, error) {
	return targetState(action)
}

func (p *LenientDisputes) Name() string {
	return LenientPolicyName
}

// StrictDisputes tracks each referenced transaction through
// Active -> Disputed -> Resolved -> Disputed ... and Disputed -> ChargedBack.
// ChargedBack is terminal.
type StrictDisputes struct{}

// NewStrictDisputes creates a new StrictDisputes
func NewStrictDisputes() *StrictDisputes {
	return &StrictDisputes{}
}

// Transition implements the DisputePolicy interface
func (p *StrictDisputes) Transition(action domain.TransactionType, current domain.DisputeState) (domain.DisputeState, error) {
	if current == domain.ChargedBack {
		return current, ErrChargedBack
	}

	switch action {
	case domain.Dispute:
		if current == domain.Disputed {
			return current, ErrAlreadyDisputed
		}
	case domain.Resolve, domain.Chargeback:
		if current != domain.Disputed {
			return current, ErrNotDisputed
		}
	}

	return targetState(action)
}

func (p *StrictDisputes) Name() string {
	return StrictPolicyName
}

func targetState(action domain.TransactionType) (domain.DisputeState, error) {
	switch action {
	case domain.Dispute:
		return domain.Disputed, nil
	case domain.Resolve:
		return domain.Resolved, nil
	case domain.Chargeback:
		return domain.ChargedBack, nil
	}
	return domain.Active, ErrUnsupportedType
}
