package seed

import (
	"github.com/okian/regrow/internal/domain/catalog"
	"github.com/okian/regrow/pkg/logger"
)

// Option configures a Generator.
type Option func(*Generator)

// WithRate sets the probability that a boolean task is done. Values are
// clamped to [0,1].
func WithRate(rate float64) Option {
	return func(g *Generator) {
		g.rate = min(max(rate, 0), 1)
	}
}

// WithGapRate sets the probability that a day has no record at all.
func WithGapRate(rate float64) Option {
	return func(g *Generator) {
		g.gapRate = min(max(rate, 0), 1)
	}
}

// WithSeed fixes the random sequence.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// WithCatalog sets the tasks to generate marks for.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(g *Generator) {
		if cat != nil {
			g.catalog = cat
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}
