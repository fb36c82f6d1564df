// Package scheduler runs periodic background jobs
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Pinger is the slice of the Redis client the monitor needs
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// CacheHealthMonitor periodically pings the cache and remembers the last result.
// Failures are logged once per transition, not on every tick.
type CacheHealthMonitor struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	healthy  atomic.Bool
}

func NewCacheHealthMonitor(pinger Pinger, interval time.Duration, logger *zap.Logger) *CacheHealthMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &CacheHealthMonitor{
		pinger:   pinger,
		interval: interval,
		timeout:  3 * time.Second,
		logger:   logger,
	}
	m.healthy.Store(true)
	return m
}

// Healthy reports the outcome of the most recent ping
func (m *CacheHealthMonitor) Healthy() bool {
	return m.healthy.Load()
}

// Start launches the monitor loop in a background goroutine and returns a stop function
func (m *CacheHealthMonitor) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (m *CacheHealthMonitor) runOnce(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.Ping(pingCtx)
	if ctx.Err() != nil {
		return
	}

	was := m.healthy.Swap(err == nil)
	switch {
	case err != nil && was:
		m.logger.Warn("cache healthcheck failed", zap.Error(err))
	case err == nil && !was:
		m.logger.Info("cache connectivity restored")
	}
}
