package credits

import (
	"time"

	"github.com/okian/careshare/internal/domain/dedupe"
)

// Option configures a MemoryLedger.
type Option func(*MemoryLedger)

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *MemoryLedger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIDGenerator overrides the event id source.
func WithIDGenerator(gen func() string) Option {
	return func(l *MemoryLedger) {
		if gen != nil {
			l.newID = gen
		}
	}
}

// WithDeduper sets the idempotency key set.
func WithDeduper(d dedupe.Deduper) Option {
	return func(l *MemoryLedger) {
		l.keys = d
	}
}
