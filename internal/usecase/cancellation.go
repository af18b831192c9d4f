package usecase

import (
	"fmt"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/utils"
)

// Refund is the entitlement computed for a cancellation. Moving the money is
// the payment provider's job.
type Refund struct {
	Percent int
	Amount  entity.Money
}

// refundRule is one tier: the refund window and the lead time below which the
// stay can no longer be cancelled at all.
type refundRule struct {
	minDaysBefore int
	percent       int
	minLead       time.Duration
}

var refundRules = map[entity.CancellationPolicy]refundRule{
	entity.PolicyFlexible: {minDaysBefore: 1, percent: 100},
	entity.PolicyModerate: {minDaysBefore: 5, percent: 100},
	entity.PolicyStrict:   {minDaysBefore: 7, percent: 50, minLead: 24 * time.Hour},
}

// CancellationPolicyEngine decides refunds and whether a stay can still be cancelled.
type CancellationPolicyEngine struct {
	clock   utils.Clock
	minLead time.Duration
}

func NewCancellationPolicyEngine(clock utils.Clock, minLead time.Duration) *CancellationPolicyEngine {
	return &CancellationPolicyEngine{clock: clock, minLead: minLead}
}

// ComputeRefund compares calendar days between the cancellation and check-in.
// A host cancellation always refunds in full.
func (e *CancellationPolicyEngine) ComputeRefund(r *entity.Reservation, cancelledAt time.Time, by entity.CancelInitiator) Refund {
	if by == entity.CancelledByHost {
		return Refund{Percent: 100, Amount: r.TotalAmount}
	}

	rule, ok := refundRules[r.CancellationPolicy]
	if !ok {
		return Refund{}
	}

	daysBefore := utils.DaysBetween(cancelledAt, r.CheckIn)
	if daysBefore < rule.minDaysBefore {
		return Refund{}
	}

	return Refund{Percent: rule.percent, Amount: r.TotalAmount.Percent(rule.percent)}
}

// LeadTime is the larger of the configured minimum and the tier's own lead.
func (e *CancellationPolicyEngine) LeadTime(policy entity.CancellationPolicy) time.Duration {
	return max(e.minLead, refundRules[policy].minLead)
}

// CanCancel applies the lead-time guard: once now+lead reaches check-in
// the reservation can no longer be cancelled.
func (e *CancellationPolicyEngine) CanCancel(r *entity.Reservation, now time.Time) bool {
	return now.Add(e.LeadTime(r.CancellationPolicy)).Before(r.CheckIn)
}

// Assess checks the guard at the engine's current time and returns the refund
// together with the cancellation instant.
func (e *CancellationPolicyEngine) Assess(r *entity.Reservation, by entity.CancelInitiator) (Refund, time.Time, error) {
	now := e.clock.Now()
	if !e.CanCancel(r, now) {
		return Refund{}, now, fmt.Errorf("%w: check-in %s is too close", ErrNotCancellable, utils.FormatDate(r.CheckIn))
	}
	return e.ComputeRefund(r, now, by), now, nil
}
