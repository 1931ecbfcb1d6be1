package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edusoft-mn/ms-go-course-payments/app/entity"
)

// Simulator stands in for a real payment processor. The outcome comes
// from the injected policy; latency is optional and honors context
// cancellation.
type Simulator struct {
	policy  OutcomePolicy
	latency time.Duration
}

func NewSimulator(policy OutcomePolicy, latency time.Duration) *Simulator {
	return &Simulator{policy: policy, latency: latency}
}

// NewRandomPolicy approves roughly approvalPercent of charges using
// the supplied random source. rand.Rand is not safe for concurrent
// use, so the policy serializes access to it; Decide may be called
// from any number of request goroutines.
func NewRandomPolicy(approvalPercent int, rng *rand.Rand) OutcomePolicy {
	if approvalPercent < 0 {
		approvalPercent = 0
	}
	if approvalPercent > 100 {
		approvalPercent = 100
	}
	var mu sync.Mutex
	return OutcomePolicyFunc(func(string, entity.PaymentMethod) Outcome {
		mu.Lock()
		n := rng.Intn(100)
		mu.Unlock()
		if n < approvalPercent {
			return OutcomeApprove
		}
		return OutcomeDecline
	})
}

func (s *Simulator) Charge(ctx context.Context, orderID string, method entity.PaymentMethod) (*ChargeResult, error) {
	if !method.Valid() {
		return nil, ErrMethodNotSupported
	}

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if s.policy.Decide(orderID, method) == OutcomeDecline {
		return &ChargeResult{
			Approved:      false,
			DeclineReason: fmt.Sprintf("%s гүйлгээ амжилтгүй боллоо", method),
		}, nil
	}

	return &ChargeResult{
		Approved:      true,
		TransactionID: "TXN-" + uuid.NewString(),
		PaidAt:        entity.NowMillis(),
	}, nil
}
