package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalhub/internal/model"
)

func perDayPolicy(graceHours int, rate string) model.LateFeePolicy {
	return model.LateFeePolicy{
		Name:              "standard",
		GracePeriodHours:  graceHours,
		Method:            model.LateFeePerDay,
		PenaltyRatePerDay: d(rate),
	}
}

func TestComputeLateFeeOnTime(t *testing.T) {
	end := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	got := ComputeLateFee(perDayPolicy(0, "100"), end, end, 1, d("500"))
	assert.False(t, got.IsLate)
	assert.True(t, got.Fee.IsZero())

	early := ComputeLateFee(perDayPolicy(0, "100"), end, end.Add(-time.Hour), 1, d("500"))
	assert.False(t, early.IsLate)
	assert.True(t, early.Fee.IsZero())
}

func TestComputeLateFeeWithinGrace(t *testing.T) {
	end := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	policy := perDayPolicy(48, "100")

	got := ComputeLateFee(policy, end, end.Add(30*time.Hour), 1, d("500"))
	require.True(t, got.IsLate)
	assert.Equal(t, 1, got.LateDays)
	assert.True(t, got.Fee.IsZero(), "fee within grace = %s", got.Fee)
}

func TestComputeLateFeePerDay(t *testing.T) {
	end := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	policy := perDayPolicy(24, "100")

	tests := []struct {
		name     string
		lateBy   time.Duration
		quantity int
		want     string
	}{
		{"one billable day", 49 * time.Hour, 1, "100.00"},
		{"three billable days", 4*24*time.Hour + time.Hour, 1, "300.00"},
		{"quantity multiplies", 49 * time.Hour, 3, "300.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeLateFee(policy, end, end.Add(tc.lateBy), tc.quantity, d("500"))
			require.True(t, got.IsLate)
			assert.True(t, got.Fee.Equal(d(tc.want)), "fee = %s, want %s", got.Fee, tc.want)
		})
	}
}

// Fee must strictly increase as more late days accrue past the grace period.
func TestComputeLateFeeMonotonic(t *testing.T) {
	end := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	policy := perDayPolicy(24, "75")

	prev := decimal.Zero
	for days := 2; days <= 6; days++ {
		got := ComputeLateFee(policy, end, end.Add(time.Duration(days)*24*time.Hour+time.Minute), 1, d("500"))
		assert.True(t, got.Fee.GreaterThan(prev), "day %d: fee %s not > %s", days, got.Fee, prev)
		prev = got.Fee
	}
}

func TestComputeLateFeePerHour(t *testing.T) {
	end := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	policy := model.LateFeePolicy{
		GracePeriodHours:   2,
		Method:             model.LateFeePerHour,
		PenaltyRatePerHour: d("10"),
	}

	got := ComputeLateFee(policy, end, end.Add(5*time.Hour+30*time.Minute), 2, d("500"))
	require.True(t, got.IsLate)
	// floor(5.5h) - 2h grace = 3 billable hours × 10 × qty 2
	assert.True(t, got.Fee.Equal(d("60.00")), "fee = %s", got.Fee)
}

func TestComputeLateFeePercentageAndCap(t *testing.T) {
	end := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	cap := d("50")
	policy := model.LateFeePolicy{
		Method:            model.LateFeePercentage,
		PenaltyPercentage: d("20"),
		MaxPenaltyCap:     &cap,
	}

	got := ComputeLateFee(policy, end, end.Add(24*time.Hour), 1, d("1000"))
	require.True(t, got.IsLate)
	// 20% of 1000 = 200, clamped to the 50 cap
	assert.True(t, got.Fee.Equal(d("50.00")), "fee = %s", got.Fee)
}

func TestSelectPolicy(t *testing.T) {
	catA := uuid.New()
	catB := uuid.New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	catchAll := model.LateFeePolicy{Name: "all", AppliesToAllProducts: true, CreatedAt: base}
	forA := model.LateFeePolicy{Name: "cat-a", AppliesToAllProducts: false, CategoryID: &catA, CreatedAt: base.Add(time.Hour)}
	forANewer := model.LateFeePolicy{Name: "cat-a-v2", AppliesToAllProducts: false, CategoryID: &catA, CreatedAt: base.Add(2 * time.Hour)}

	policies := []model.LateFeePolicy{catchAll, forA, forANewer}

	got := SelectPolicy(policies, &catA)
	require.NotNil(t, got)
	assert.Equal(t, "cat-a-v2", got.Name, "most specific, newest wins")

	got = SelectPolicy(policies, &catB)
	require.NotNil(t, got)
	assert.Equal(t, "all", got.Name, "falls back to catch-all")

	got = SelectPolicy([]model.LateFeePolicy{forA}, nil)
	assert.Nil(t, got, "category policy does not match uncategorized product")
}
