package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shoplytics/backend/internal/application/abandonment"
	"github.com/shoplytics/backend/internal/infrastructure/config"
)

// AbandonmentScheduler runs the cart and checkout abandonment sweep on a
// fixed interval across all tenants.
type AbandonmentScheduler struct {
	service   *abandonment.Service
	logger    *zap.Logger
	config    config.AbandonmentConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewAbandonmentScheduler creates a new abandonment scheduler
func NewAbandonmentScheduler(
	service *abandonment.Service,
	logger *zap.Logger,
	cfg config.AbandonmentConfig,
) *AbandonmentScheduler {
	return &AbandonmentScheduler{
		service: service,
		logger:  logger,
		config:  cfg,
	}
}

// Start starts the abandonment scheduler
func (s *AbandonmentScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Abandonment scheduler is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runSweepLoop(ctx)

	s.logger.Info("Abandonment scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("window", s.config.Window),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *AbandonmentScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	// Wait for the sweep goroutine with timeout
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Abandonment scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Abandonment scheduler stop timed out")
		return ctx.Err()
	}
}

// runSweepLoop runs the sweep every configured interval
func (s *AbandonmentScheduler) runSweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Abandonment sweep loop stopping")
			return
		case <-ticker.C:
			s.executeSweep(ctx)
		}
	}
}

// executeSweep executes one abandonment sweep with a per-run timeout
func (s *AbandonmentScheduler) executeSweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	startTime := time.Now()
	result, err := s.service.ExpireStale(sweepCtx)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("Abandonment sweep failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return
	}

	if result.CartsAbandoned == 0 && result.CheckoutsAbandoned == 0 {
		s.logger.Debug("Abandonment sweep found nothing to expire",
			zap.Duration("duration", duration),
		)
		return
	}

	s.logger.Info("Abandonment sweep completed",
		zap.Duration("duration", duration),
		zap.Int64("carts_abandoned", result.CartsAbandoned),
		zap.Int64("checkouts_abandoned", result.CheckoutsAbandoned),
		zap.Int("tenants_touched", result.TenantsTouched),
	)
}

// TriggerImmediateSweep triggers an immediate sweep run
func (s *AbandonmentScheduler) TriggerImmediateSweep(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.wg.Add(1)
	s.mu.Unlock()

	s.logger.Info("Triggering immediate abandonment sweep")

	go func() {
		defer s.wg.Done()
		s.executeSweep(ctx)
	}()

	return nil
}

// IsRunning returns whether the scheduler is running
func (s *AbandonmentScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}
