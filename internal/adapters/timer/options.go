package timer

import (
	"context"
	"time"

	"github.com/okian/regrow/pkg/logger"
)

// Option configures a Manager.
type Option func(*Manager)

// WithTicker replaces the tick source.
func WithTicker(f NewTickerFunc) Option {
	return func(m *Manager) {
		if f != nil {
			m.tick = f
		}
	}
}

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithContext sets the context passed to the expiry callback.
func WithContext(ctx context.Context) Option {
	return func(m *Manager) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}
