// Package scheduler runs the periodic sweeps: pickup and return reminders
// broadcast to connected clients the day before they are due.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"rentalhub/internal/repository"
	"rentalhub/internal/service"
)

type ReminderScheduler struct {
	cron     *cron.Cron
	orders   repository.OrderRepository
	notifier service.Notifier
}

func NewReminderScheduler(orders repository.OrderRepository, notifier service.Notifier) *ReminderScheduler {
	return &ReminderScheduler{
		cron:     cron.New(),
		orders:   orders,
		notifier: notifier,
	}
}

// Start registers the daily sweep (08:00 server time) and launches the cron
// loop in its own goroutine.
func (s *ReminderScheduler) Start() error {
	_, err := s.cron.AddFunc("0 8 * * *", func() {
		s.Sweep(context.Background(), time.Now())
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *ReminderScheduler) Stop() {
	s.cron.Stop()
}

// Sweep publishes reminders for pickups and returns due within the next
// 24 hours. Exposed for tests and manual triggering.
func (s *ReminderScheduler) Sweep(ctx context.Context, now time.Time) {
	from := now.Format(time.RFC3339)
	to := now.Add(24 * time.Hour).Format(time.RFC3339)

	pickups, err := s.orders.ListPickupsDueBetween(ctx, from, to)
	if err != nil {
		log.Printf("reminder sweep: listing pickups failed: %v", err)
	} else {
		for i := range pickups {
			s.notifier.Publish(service.EventPickupReminder, pickups[i])
		}
	}

	returns, err := s.orders.ListReturnsDueBetween(ctx, from, to)
	if err != nil {
		log.Printf("reminder sweep: listing returns failed: %v", err)
		return
	}
	for i := range returns {
		s.notifier.Publish(service.EventReturnReminder, returns[i])
	}
}
