package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Reclaimer is the sweep-side slice of the job table.
type Reclaimer interface {
	ReclaimStale(ctx context.Context, timeout time.Duration) (int64, error)
}

// Monitor periodically returns jobs stuck in processing past the timeout
// to pending. Stateless between sweeps; it may run in the worker process
// or on its own.
type Monitor struct {
	queue    Reclaimer
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

func NewMonitor(queue Reclaimer, interval, timeout time.Duration, logger *zap.Logger) *Monitor {
	return &Monitor{
		queue:    queue,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

func (m *Monitor) Run(ctx context.Context) {
	m.logger.Info("Recovery monitor started",
		zap.Duration("interval", m.interval),
		zap.Duration("stale_timeout", m.timeout),
	)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Recovery monitor stopping")
			return
		case <-ticker.C:
			count, err := m.queue.ReclaimStale(ctx, m.timeout)
			if err != nil {
				m.logger.Error("Stale job sweep failed", zap.Error(err))
				continue
			}
			if count > 0 {
				m.logger.Warn("Requeued stale jobs", zap.Int64("count", count))
			}
		}
	}
}
