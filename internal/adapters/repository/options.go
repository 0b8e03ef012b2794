package repository

import "github.com/okian/regrow/pkg/logger"

// Option configures a StateRepository.
type Option func(*StateRepository)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(r *StateRepository) {
		if key != "" {
			r.key = key
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *StateRepository) {
		if l != nil {
			r.log = l
		}
	}
}
