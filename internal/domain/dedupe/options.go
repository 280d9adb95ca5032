package dedupe

const defaultCapacity = 64

// Option configures an in-memory deduper.
type Option func(*inMemoryDeduper)

// WithCapacity presizes the key set. Non-positive values keep the default.
func WithCapacity(n int) Option {
	return func(d *inMemoryDeduper) {
		if n > 0 {
			d.capacity = n
		}
	}
}
