package service

import (
	"time"

	"github.com/okian/regrow/internal/adapters/timer"
	"github.com/okian/regrow/internal/domain/catalog"
	"github.com/okian/regrow/internal/domain/dedupe"
	"github.com/okian/regrow/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCatalog replaces the default task catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *Controller) {
		if cat != nil {
			c.catalog = cat
		}
	}
}

// WithLoader sets where Load reads the aggregate from.
func WithLoader(l Loader) Option {
	return func(c *Controller) {
		c.loader = l
	}
}

// WithPersister sets where snapshots go after every mutation.
func WithPersister(p Persister) Option {
	return func(c *Controller) {
		c.persister = p
	}
}

// WithClock sets the wall-clock source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLocation sets the time zone that defines calendar days.
func WithLocation(loc *time.Location) Option {
	return func(c *Controller) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithDeduper sets the request-id deduper.
func WithDeduper(d dedupe.Deduper) Option {
	return func(c *Controller) {
		if d != nil {
			c.deduper = d
		}
	}
}

// WithTimerOptions configures the countdown manager.
func WithTimerOptions(opts ...timer.Option) Option {
	return func(c *Controller) {
		c.timerOpts = append(c.timerOpts, opts...)
	}
}
