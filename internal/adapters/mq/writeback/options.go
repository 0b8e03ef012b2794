package writeback

import "github.com/okian/regrow/pkg/logger"

// Option configures a Writer.
type Option func(*Writer)

// WithQueueSize sets how many snapshots may wait for the writer.
func WithQueueSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.size = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.logger = l
		}
	}
}
