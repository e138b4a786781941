package services

import (
	"context"
	"fmt"
	"log"

	"github.com/go-co-op/gocron/v2"
	"github.com/robfig/cron/v3"
)

// SchedulerService runs the periodic payment expiry sweep.
type SchedulerService struct {
	scheduler gocron.Scheduler
	payments  *PaymentService
	spec      string
}

// NewSchedulerService creates a scheduler service
func NewSchedulerService(payments *PaymentService, cronSpec string) (*SchedulerService, error) {
	// Validate the expression up front so a bad config fails at boot
	// instead of silently never firing.
	if _, err := cron.ParseStandard(cronSpec); err != nil {
		return nil, fmt.Errorf("invalid sweep cron expression %q: %w", cronSpec, err)
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &SchedulerService{scheduler: scheduler, payments: payments, spec: cronSpec}, nil
}

// Start registers the sweep job and begins the scheduler.
func (s *SchedulerService) Start(ctx context.Context) error {
	_, err := s.scheduler.NewJob(
		gocron.CronJob(s.spec, false),
		gocron.NewTask(func() {
			if _, err := s.payments.ExpirePending(ctx); err != nil {
				log.Printf("⚠️  [SCHEDULER] Payment expiry sweep failed: %v", err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule payment sweep: %w", err)
	}

	s.scheduler.Start()
	log.Printf("✅ [SCHEDULER] Payment expiry sweep scheduled (%s)", s.spec)
	return nil
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *SchedulerService) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		log.Printf("⚠️  [SCHEDULER] Shutdown error: %v", err)
	}
}
