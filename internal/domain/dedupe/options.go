package dedupe

// Option configures the deduper.
type Option func(*window)

// WithMaxSize sets how many recent ids are remembered. Non-positive values
// keep the default.
func WithMaxSize(n int) Option {
	return func(w *window) {
		if n > 0 {
			w.ring = make([]string, n)
		}
	}
}
