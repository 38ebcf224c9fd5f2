// Package scheduler runs periodic repair jobs: stale-payment reconciliation
// and the enrolled_count recount.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/righttechcentre/lms-api/internal/api/metrics"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

const jobTimeout = 2 * time.Minute

// Reconciler polls the provider for payments stuck in pending.
type Reconciler interface {
	ReconcilePending(ctx context.Context, olderThan time.Duration) (int, error)
}

type Config struct {
	Schedule   string
	PendingAge time.Duration
}

// Scheduler wraps a cron runner with the LMS repair jobs.
type Scheduler struct {
	cron        *cron.Cron
	cfg         Config
	payments    Reconciler
	enrollments ports.EnrollmentRepository
	courses     ports.CourseRepository
	log         zerolog.Logger
}

func New(cfg Config, payments Reconciler, enrollments ports.EnrollmentRepository, courses ports.CourseRepository, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		cfg:         cfg,
		payments:    payments,
		enrollments: enrollments,
		courses:     courses,
		log:         log,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() { s.run("reconcile_payments", s.ReconcilePayments) }); err != nil {
		return fmt.Errorf("schedule reconcile: %w", err)
	}
	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() { s.run("recount_enrollments", s.RecountEnrollments) }); err != nil {
		return fmt.Errorf("schedule recount: %w", err)
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.cfg.Schedule).Msg("scheduler started")
	return nil
}

// Stop halts the runner and waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) run(job string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	result := "ok"
	if err := fn(ctx); err != nil {
		result = "error"
		s.log.Error().Err(err).Str("job", job).Msg("scheduled job failed")
	}
	metrics.ReconcileRunsTotal.WithLabelValues(job, result).Inc()
}

// ReconcilePayments settles pending transactions older than PendingAge.
func (s *Scheduler) ReconcilePayments(ctx context.Context) error {
	n, err := s.payments.ReconcilePending(ctx, s.cfg.PendingAge)
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info().Int("moved", n).Msg("reconciled pending payments")
	}
	return nil
}

// RecountEnrollments overwrites every course's enrolled_count with the
// ledger's actual count.
func (s *Scheduler) RecountEnrollments(ctx context.Context) error {
	counts, err := s.enrollments.CountByCourse(ctx)
	if err != nil {
		return fmt.Errorf("count enrollments: %w", err)
	}
	if err := s.courses.SetEnrolledCounts(ctx, counts); err != nil {
		return fmt.Errorf("set enrolled counts: %w", err)
	}
	return nil
}
