package gateway

import (
	"context"
	"errors"

	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
)

var ErrMethodNotSupported = errors.New("payment method is not supported")

type Outcome int

const (
	OutcomeApprove Outcome = iota
	OutcomeDecline
)

// ChargeResult is what a gateway call resolves to: either an approved
// charge with a transaction id, or a decline with a reason.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	PaidAt        int64
	DeclineReason string
}

type Gateway interface {
	Charge(ctx context.Context, orderID string, method entity.PaymentMethod) (*ChargeResult, error)
}

// OutcomePolicy decides the simulated gateway's answer as a pure
// function of the order and method plus whatever randomness the policy
// carries, so tests can force either branch.
type OutcomePolicy interface {
	Decide(orderID string, method entity.PaymentMethod) Outcome
}

type OutcomePolicyFunc func(orderID string, method entity.PaymentMethod) Outcome

func (f OutcomePolicyFunc) Decide(orderID string, method entity.PaymentMethod) Outcome {
	return f(orderID, method)
}

func AlwaysApprove() OutcomePolicy {
	return OutcomePolicyFunc(func(string, entity.PaymentMethod) Outcome { return OutcomeApprove })
}

func AlwaysDecline() OutcomePolicy {
	return OutcomePolicyFunc(func(string, entity.PaymentMethod) Outcome { return OutcomeDecline })
}
