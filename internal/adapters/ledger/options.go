package ledger

import "time"

// DefaultPrefix namespaces ledger keys. The braces keep all keys in one
// cluster hash slot.
const DefaultPrefix = "careshare:{credits}"

// Option configures a RedisLedger.
type Option func(*RedisLedger)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(l *RedisLedger) {
		if prefix != "" {
			l.prefix = prefix
		}
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *RedisLedger) {
		if now != nil {
			l.now = now
		}
	}
}

// WithIDGenerator overrides the event id source.
func WithIDGenerator(gen func() string) Option {
	return func(l *RedisLedger) {
		if gen != nil {
			l.newID = gen
		}
	}
}
