package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalhub/internal/model"
)

// LateFeeResult reports the outcome of evaluating a return against a policy.
type LateFeeResult struct {
	IsLate   bool
	LateDays int
	Fee      decimal.Decimal
}

// ComputeLateFee computes the penalty for returning after the scheduled
// window end. Returns a zero fee when actualEnd <= scheduledEnd.
//
// late_days = floor(lateness in days); grace_days = floor(grace_hours / 24);
// billable_days = max(0, late_days - grace_days). Per-hour policies bill
// floor(raw late hours) minus the grace hours. The fee is clamped to the
// policy cap when one is set.
func ComputeLateFee(policy model.LateFeePolicy, scheduledEnd, actualEnd time.Time, quantity int, lineAmount decimal.Decimal) LateFeeResult {
	if !actualEnd.After(scheduledEnd) {
		return LateFeeResult{Fee: decimal.Zero}
	}

	late := actualEnd.Sub(scheduledEnd)
	lateDays := int(late.Hours() / 24)
	graceDays := policy.GracePeriodHours / 24
	billableDays := lateDays - graceDays
	if billableDays < 0 {
		billableDays = 0
	}

	qty := decimal.NewFromInt(int64(quantity))
	var fee decimal.Decimal

	switch policy.Method {
	case model.LateFeePerDay:
		fee = decimal.NewFromInt(int64(billableDays)).Mul(policy.PenaltyRatePerDay).Mul(qty)
	case model.LateFeePerHour:
		billableHours := int(late.Hours()) - policy.GracePeriodHours
		if billableHours < 0 {
			billableHours = 0
		}
		fee = decimal.NewFromInt(int64(billableHours)).Mul(policy.PenaltyRatePerHour).Mul(qty)
	case model.LateFeePercentage:
		fee = policy.PenaltyPercentage.Div(hundred).Mul(lineAmount)
	default:
		fee = decimal.Zero
	}

	if policy.MaxPenaltyCap != nil && fee.GreaterThan(*policy.MaxPenaltyCap) {
		fee = *policy.MaxPenaltyCap
	}

	return LateFeeResult{
		IsLate:   true,
		LateDays: lateDays,
		Fee:      fee.RoundBank(2),
	}
}

// SelectPolicy picks the policy that governs a product category from the
// active set: category-specific policies beat catch-all ones, and among
// equally specific matches the most recently created wins. Returns nil when
// nothing applies.
func SelectPolicy(policies []model.LateFeePolicy, categoryID *uuid.UUID) *model.LateFeePolicy {
	var best *model.LateFeePolicy
	for i := range policies {
		p := &policies[i]
		if !p.AppliesToAllProducts {
			if categoryID == nil || p.CategoryID == nil || *p.CategoryID != *categoryID {
				continue
			}
		}
		if best == nil {
			best = p
			continue
		}
		bestSpecific := !best.AppliesToAllProducts
		pSpecific := !p.AppliesToAllProducts
		if pSpecific != bestSpecific {
			if pSpecific {
				best = p
			}
			continue
		}
		if p.CreatedAt.After(best.CreatedAt) {
			best = p
		}
	}
	return best
}
