package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalhub/internal/model"
)

func TestCompletePickupStartsRental(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	now := day(1)

	order, err := env.confirmedOrder(now, 1, day(10), day(15))
	require.NoError(t, err)

	_, err = env.orders.SchedulePickup(ctx, env.vendor, now, order.ID, SchedulePickupRequest{
		ScheduledPickupDate: day(10),
	})
	require.NoError(t, err)

	pickup, err := env.orders.CompletePickup(ctx, env.vendor, day(10), order.ID, CompletePickupRequest{
		ItemsChecked:       true,
		CustomerIDVerified: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PickupCompleted, pickup.Status)
	require.NotNil(t, pickup.ActualPickupDate)

	stored := env.store.orders[order.ID]
	assert.Equal(t, model.OrderInProgress, stored.Status)

	require.Len(t, env.store.reservations, 1)
	assert.Equal(t, model.ReservationActive, env.store.reservations[0].Status)

	// The return expectation is created automatically, due when the last
	// line window ends.
	ret, err := (&fakeOrderRepo{s: env.store}).FindReturnByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReturnPending, ret.Status)
	assert.True(t, ret.ScheduledReturnDate.Equal(day(15)))

	for _, line := range env.store.olines {
		require.NotNil(t, line.ActualPickupDate)
	}
}

func TestCompletePickupRequiresCheckedItems(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	now := day(1)

	order, err := env.confirmedOrder(now, 1, day(10), day(15))
	require.NoError(t, err)

	_, err = env.orders.CompletePickup(ctx, env.vendor, day(10), order.ID, CompletePickupRequest{})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	// Customers cannot run fulfilment.
	_, err = env.orders.CompletePickup(ctx, env.customer, day(10), order.ID, CompletePickupRequest{ItemsChecked: true})
	var pe *PermissionError
	require.ErrorAs(t, err, &pe)
}

func TestCompletePickupWithoutSchedule(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	order, err := env.confirmedOrder(day(1), 1, day(10), day(15))
	require.NoError(t, err)

	// Walk-in handover: nothing was scheduled, the pickup record is
	// created as part of completion.
	pickup, err := env.orders.CompletePickup(ctx, env.vendor, day(10), order.ID, CompletePickupRequest{
		ItemsChecked:       true,
		CustomerIDVerified: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.PickupCompleted, pickup.Status)
	assert.Contains(t, pickup.PickupNumber, "PU-")
	require.NotNil(t, pickup.ActualPickupDate)

	stored := env.store.orders[order.ID]
	assert.Equal(t, model.OrderInProgress, stored.Status)
	require.Len(t, env.store.pickups, 1)
}

func TestStartPickup(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	order, err := env.confirmedOrder(day(1), 1, day(10), day(15))
	require.NoError(t, err)
	_, err = env.orders.SchedulePickup(ctx, env.vendor, day(1), order.ID, SchedulePickupRequest{ScheduledPickupDate: day(10)})
	require.NoError(t, err)

	pickup, err := env.orders.StartPickup(ctx, env.vendor, day(10), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PickupInProgress, pickup.Status)
	require.NotNil(t, pickup.HandedOverByID)

	var logged bool
	for _, e := range env.store.audits {
		if e.Action == model.ActionStartPickup && e.EntityID == pickup.ID.String() {
			logged = true
			assert.Equal(t, model.PickupPending, e.OldValue)
			assert.Equal(t, model.PickupInProgress, e.NewValue)
		}
	}
	assert.True(t, logged)

	// Starting twice is rejected.
	_, err = env.orders.StartPickup(ctx, env.vendor, day(10), order.ID)
	var se *StateError
	require.ErrorAs(t, err, &se)
}

func TestCompleteReturnOnTime(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	order, err := env.confirmedOrder(day(1), 1, day(10), day(15))
	require.NoError(t, err)
	_, err = env.orders.SchedulePickup(ctx, env.vendor, day(1), order.ID, SchedulePickupRequest{ScheduledPickupDate: day(10)})
	require.NoError(t, err)
	_, err = env.orders.CompletePickup(ctx, env.vendor, day(10), order.ID, CompletePickupRequest{ItemsChecked: true})
	require.NoError(t, err)

	ret, err := env.orders.CompleteReturn(ctx, env.vendor, day(14), order.ID, CompleteReturnRequest{
		AllItemsReturned: true,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReturnCompleted, ret.Status)
	assert.False(t, ret.IsLateReturn)
	assert.True(t, ret.LateFeeCharged.IsZero())

	stored := env.store.orders[order.ID]
	assert.Equal(t, model.OrderCompleted, stored.Status)
	assert.True(t, stored.LateFee.IsZero())
	assert.Equal(t, model.ReservationCompleted, env.store.reservations[0].Status)
	assert.Contains(t, env.notifier.events, EventReturnSettled)
}

func TestCompleteReturnChargesLateFee(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.store.policies = append(env.store.policies, model.LateFeePolicy{
		Name:                 "standard",
		Method:               model.LateFeePerDay,
		PenaltyRatePerDay:    dec("50"),
		AppliesToAllProducts: true,
		IsActive:             true,
	})

	order, err := env.confirmedOrder(day(1), 2, day(10), day(15))
	require.NoError(t, err)
	_, err = env.orders.SchedulePickup(ctx, env.vendor, day(1), order.ID, SchedulePickupRequest{ScheduledPickupDate: day(10)})
	require.NoError(t, err)
	_, err = env.orders.CompletePickup(ctx, env.vendor, day(10), order.ID, CompletePickupRequest{ItemsChecked: true})
	require.NoError(t, err)

	// Two days late at 50/day for 2 units.
	ret, err := env.orders.CompleteReturn(ctx, env.vendor, day(17), order.ID, CompleteReturnRequest{
		AllItemsReturned: true,
	})
	require.NoError(t, err)
	assert.True(t, ret.IsLateReturn)
	assert.Equal(t, 2, ret.LateDays)
	assert.True(t, ret.LateFeeCharged.Equal(dec("200")), "got %s", ret.LateFeeCharged)

	stored := env.store.orders[order.ID]
	assert.True(t, stored.LateFee.Equal(dec("200")))

	// The late fee enters the taxable base: subtotal 200, fee 200,
	// tax 18% of 400 = 72, total 472.
	assert.True(t, stored.TaxAmount.Equal(dec("72")), "got %s", stored.TaxAmount)
	assert.True(t, stored.Total.Equal(dec("472")), "got %s", stored.Total)

	for _, line := range env.store.olines {
		assert.True(t, line.IsLateReturn)
		assert.Equal(t, 2, line.LateDays)
	}
}

func TestCompleteReturnGracePeriod(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.store.policies = append(env.store.policies, model.LateFeePolicy{
		Name:                 "graceful",
		Method:               model.LateFeePerDay,
		GracePeriodHours:     48,
		PenaltyRatePerDay:    dec("50"),
		AppliesToAllProducts: true,
		IsActive:             true,
	})

	order, err := env.confirmedOrder(day(1), 1, day(10), day(15))
	require.NoError(t, err)
	_, err = env.orders.SchedulePickup(ctx, env.vendor, day(1), order.ID, SchedulePickupRequest{ScheduledPickupDate: day(10)})
	require.NoError(t, err)
	_, err = env.orders.CompletePickup(ctx, env.vendor, day(10), order.ID, CompletePickupRequest{ItemsChecked: true})
	require.NoError(t, err)

	// One day late, within the 48h grace: the return is flagged late but
	// nothing is billed.
	ret, err := env.orders.CompleteReturn(ctx, env.vendor, day(16).Add(time.Hour), order.ID, CompleteReturnRequest{
		AllItemsReturned: true,
	})
	require.NoError(t, err)
	assert.True(t, ret.IsLateReturn)
	assert.Equal(t, 1, ret.LateDays)
	assert.True(t, ret.LateFeeCharged.IsZero(), "got %s", ret.LateFeeCharged)

	for _, line := range env.store.olines {
		assert.True(t, line.IsLateReturn)
		assert.Equal(t, 1, line.LateDays)
		assert.True(t, line.LateFeeCharged.IsZero())
	}
}

func TestCompleteReturnLateWithoutPolicy(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	order, err := env.confirmedOrder(day(1), 2, day(10), day(15))
	require.NoError(t, err)
	_, err = env.orders.SchedulePickup(ctx, env.vendor, day(1), order.ID, SchedulePickupRequest{ScheduledPickupDate: day(10)})
	require.NoError(t, err)
	_, err = env.orders.CompletePickup(ctx, env.vendor, day(10), order.ID, CompletePickupRequest{ItemsChecked: true})
	require.NoError(t, err)

	// No fee policy is configured. Two days late still flags the return,
	// it just costs nothing.
	ret, err := env.orders.CompleteReturn(ctx, env.vendor, day(17), order.ID, CompleteReturnRequest{
		AllItemsReturned: true,
	})
	require.NoError(t, err)
	assert.True(t, ret.IsLateReturn)
	assert.Equal(t, 2, ret.LateDays)
	assert.True(t, ret.LateFeeCharged.IsZero())

	for _, line := range env.store.olines {
		assert.True(t, line.IsLateReturn)
		assert.Equal(t, 2, line.LateDays)
		assert.True(t, line.LateFeeCharged.IsZero())
	}

	stored := env.store.orders[order.ID]
	assert.Equal(t, model.OrderCompleted, stored.Status)
	assert.True(t, stored.LateFee.IsZero())
}

func TestCompleteReturnWrongState(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	order, err := env.confirmedOrder(day(1), 1, day(10), day(15))
	require.NoError(t, err)

	// Return before pickup: the order is still confirmed.
	_, err = env.orders.CompleteReturn(ctx, env.vendor, day(14), order.ID, CompleteReturnRequest{AllItemsReturned: true})
	var se *StateError
	require.ErrorAs(t, err, &se)
}

func TestCancelReleasesStock(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	order, err := env.confirmedOrder(day(1), 2, day(10), day(15))
	require.NoError(t, err)

	free, err := env.reservations.AvailableQuantity(ctx, env.productID, nil, day(10), day(15))
	require.NoError(t, err)
	assert.Equal(t, 0, free)

	cancelled, err := env.orders.Cancel(ctx, env.vendor, day(2), order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)

	free, err = env.reservations.AvailableQuantity(ctx, env.productID, nil, day(10), day(15))
	require.NoError(t, err)
	assert.Equal(t, 2, free)

	// Cancelling twice is rejected.
	_, err = env.orders.Cancel(ctx, env.vendor, day(2), order.ID)
	var se *StateError
	require.ErrorAs(t, err, &se)
}
