package quota

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"server/internal/domain"
)

// ErrNeedSignup is returned when the gate denies an anonymous caller whose
// free quota is spent. It is an expected outcome, not a failure: handlers
// translate it into a distinct need_signup status rather than an HTTP error.
var ErrNeedSignup = errors.New("free quota exhausted, signup required")

// ErrEmptyMessage is returned when the metered payload is blank after trimming.
var ErrEmptyMessage = errors.New("message is required")

// Operation is the protected call being metered, typically a chat-completion
// request against an external provider.
type Operation func(ctx context.Context, message string) (string, error)

// Result carries the outcome of an allowed, successful metered call.
type Result struct {
	Answer string
	// State is the caller state after accounting: incremented for anonymous
	// callers, untouched for registered ones.
	State CallerState
	// Remaining free uses under the quota; ignored when Unlimited.
	Remaining int
	// Unlimited is set for registered callers, whose usage is not counted.
	Unlimited bool
}

// Meter wraps a protected operation with the access gate and the usage
// accounting around it. The ledger is only advanced after a verified
// successful call: denials and upstream failures never consume quota.
type Meter struct {
	Quota int
}

// NewMeter returns a Meter with the given free quota, falling back to
// DefaultFreeQuota when the value is not positive.
func NewMeter(quota int) *Meter {
	if quota <= 0 {
		quota = DefaultFreeQuota
	}
	return &Meter{Quota: quota}
}

// Do runs one metered call. It returns ErrNeedSignup without invoking op
// when the gate denies, ErrEmptyMessage for blank input, and wraps any op
// failure in domain.ErrProviderFailure leaving the state unchanged.
func (m *Meter) Do(ctx context.Context, state CallerState, message string, op Operation) (*Result, error) {
	state = state.Normalize()
	if Decide(state, m.Quota) == DenyNeedRegistration {
		return nil, ErrNeedSignup
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}
	answer, err := op(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
	}
	if state.Registered {
		return &Result{Answer: answer, State: state, Unlimited: true}, nil
	}
	state.FreeUsesConsumed++
	return &Result{
		Answer:    answer,
		State:     state,
		Remaining: state.Remaining(m.Quota),
	}, nil
}
