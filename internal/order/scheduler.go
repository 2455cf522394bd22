package order

import (
	"context"
	"sync"
	"time"

	"marketplace-be/internal/logger"
	"marketplace-be/internal/metrics"

	"go.uber.org/zap"
)

// queue is one stale-status sweep of the auto-transition job.
type queue struct {
	status OrderStatus
	action Action
	maxAge time.Duration
	note   string
}

// SchedulerConfig carries the age thresholds per status and the tick
// interval between passes.
type SchedulerConfig struct {
	Interval        time.Duration
	PendingMaxAge   time.Duration
	PackingMaxAge   time.Duration
	ShippingMaxAge  time.Duration
	DeliveredMaxAge time.Duration
}

// Scheduler advances stale orders along the forward chain on a ticker. Every
// order is attempted independently; one order failing (typically on the stock
// guard at pack time) never stops the rest of the batch.
type Scheduler struct {
	svc    Service
	repo   Repository
	cfg    SchedulerConfig
	now    func() time.Time
	stop   chan struct{}
	doneWg sync.WaitGroup
}

func NewScheduler(svc Service, repo Repository, cfg SchedulerConfig) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	return &Scheduler{
		svc:  svc,
		repo: repo,
		cfg:  cfg,
		now:  time.Now,
		stop: make(chan struct{}),
	}
}

func (s *Scheduler) queues() []queue {
	return []queue{
		{StatusPending, ActionPack, s.cfg.PendingMaxAge, "auto: packed after pending timeout"},
		{StatusPacking, ActionShip, s.cfg.PackingMaxAge, "auto: shipped after packing timeout"},
		{StatusShipping, ActionDeliver, s.cfg.ShippingMaxAge, "auto: delivered after shipping timeout"},
		{StatusDelivered, ActionComplete, s.cfg.DeliveredMaxAge, "auto: completed after delivery timeout"},
	}
}

// Start launches the ticker loop. It returns immediately; Stop blocks until
// any in-flight pass finishes.
func (s *Scheduler) Start(ctx context.Context) {
	s.doneWg.Add(1)
	go func() {
		defer s.doneWg.Done()

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := s.RunOnce(ctx); err != nil {
					logger.L().Error("auto-transition pass failed", zap.Error(err))
				}
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	close(s.stop)
	s.doneWg.Wait()
}

// RunOnce executes one full pass over all queues and returns what it did.
// Also reachable through the admin trigger endpoint.
func (s *Scheduler) RunOnce(ctx context.Context) (*Report, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "scheduler"),
		zap.String("method", "RunOnce"),
	)

	metrics.AutoTransitionRuns.Inc()
	report := &Report{}
	actor := Actor{System: true}

	for _, q := range s.queues() {
		before := s.now().Add(-q.maxAge)

		candidates, err := s.repo.ListAutoCandidates(ctx, q.status, before)
		if err != nil {
			return nil, err
		}

		for _, o := range candidates {
			// an open dispute must stay reachable for admin review,
			// never timeout into completed
			if q.action == ActionComplete && o.Reported {
				continue
			}

			if _, err := s.svc.Transition(ctx, o.ID, actor, q.action, q.note); err != nil {
				report.FailedCount++
				report.FailedDetails = append(report.FailedDetails, FailedTransition{
					OrderID: o.ID,
					Code:    o.Code,
					Reason:  err.Error(),
				})
				metrics.AutoTransitionFailed.Inc()
				log.Warn("auto transition skipped order",
					zap.String("order_id", o.ID),
					zap.String("action", string(q.action)),
					zap.Error(err),
				)
				continue
			}

			report.UpdatedCount++
			report.UpdatedOrderIDs = append(report.UpdatedOrderIDs, o.ID)
			metrics.AutoTransitionOK.Inc()
		}
	}

	if report.UpdatedCount > 0 || report.FailedCount > 0 {
		log.Info("auto-transition pass finished",
			zap.Int("updated", report.UpdatedCount),
			zap.Int("failed", report.FailedCount),
		)
	}

	return report, nil
}
