package scheduler

import (
	"context"
	"time"

	"github.com/andrescamacho/antbot-go/internal/domain/shared"
)

// BudgetState is how much of the turn's wall-clock budget is left
type BudgetState int

const (
	BudgetOK BudgetState = iota
	// BudgetAtRisk means low-priority work should be shed
	BudgetAtRisk
	// BudgetExhausted means no further units may be processed
	BudgetExhausted
)

func (s BudgetState) String() string {
	switch s {
	case BudgetOK:
		return "ok"
	case BudgetAtRisk:
		return "at_risk"
	default:
		return "exhausted"
	}
}

// TurnBudget tracks the wall-clock deadline of one turn
type TurnBudget struct {
	clock        shared.Clock
	start        time.Time
	deadline     time.Duration
	riskFraction float64
}

// NewTurnBudget starts a budget now. riskFraction is the share of the deadline
// after which the budget reports BudgetAtRisk.
func NewTurnBudget(clock shared.Clock, deadline time.Duration, riskFraction float64) *TurnBudget {
	return &TurnBudget{
		clock:        clock,
		start:        clock.Now(),
		deadline:     deadline,
		riskFraction: riskFraction,
	}
}

// Elapsed returns the time spent since the turn started
func (b *TurnBudget) Elapsed() time.Duration {
	return b.clock.Now().Sub(b.start)
}

// Check returns the budget state, treating a cancelled context as exhausted
func (b *TurnBudget) Check(ctx context.Context) BudgetState {
	if ctx.Err() != nil {
		return BudgetExhausted
	}
	if b.deadline <= 0 {
		return BudgetOK
	}

	elapsed := b.Elapsed()
	switch {
	case elapsed >= b.deadline:
		return BudgetExhausted
	case float64(elapsed) >= float64(b.deadline)*b.riskFraction:
		return BudgetAtRisk
	default:
		return BudgetOK
	}
}
