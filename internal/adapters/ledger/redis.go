package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/okian/careshare/internal/domain/credits"
	"github.com/okian/careshare/internal/domain/model"
	"github.com/okian/careshare/pkg/metrics"
)

// awardScript records every (key, clinic, event) triple in ARGV whose key is
// not in the key set yet and returns the 1-based positions of those triples.
var awardScript = redis.NewScript(`
local created = {}
local n = 0
for i = 1, #ARGV, 3 do
  if redis.call('SADD', KEYS[1], ARGV[i]) == 1 then
    redis.call('HINCRBY', KEYS[2], ARGV[i + 1], 1)
    redis.call('RPUSH', KEYS[3], ARGV[i + 2])
    n = n + 1
    created[n] = (i + 2) / 3
  end
end
return created
`)

// RedisLedger stores credits in Redis so totals survive restarts and are
// shared between processes.
type RedisLedger struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
	newID  func() string
}

var _ credits.Ledger = (*RedisLedger)(nil)

// NewRedisLedger creates a ledger on client.
func NewRedisLedger(client redis.UniversalClient, opts ...Option) *RedisLedger {
	l := &RedisLedger{
		client: client,
		prefix: DefaultPrefix,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *RedisLedger) keysKey() string   { return l.prefix + ":keys" }
func (l *RedisLedger) totalsKey() string { return l.prefix + ":totals" }
func (l *RedisLedger) eventsKey() string { return l.prefix + ":events" }

func (l *RedisLedger) Award(ctx context.Context, patientKey, toClinic string, contributors []credits.Contributor) (_ []model.CreditEvent, _ bool, err error) {
	start := time.Now()
	defer func() { metrics.RecordLedgerLatency("award", err, time.Since(start)) }()

	eligible := credits.Eligible(contributors)
	if len(eligible) == 0 {
		return nil, false, nil
	}

	ts := l.now()
	candidates := make([]model.CreditEvent, 0, len(eligible))
	args := make([]any, 0, 3*len(eligible))
	for _, c := range eligible {
		ev := model.CreditEvent{
			ID:         l.newID(),
			PatientKey: patientKey,
			FromClinic: c.ClinicID,
			ToClinic:   toClinic,
			Timestamp:  ts,
		}
		raw, err := json.Marshal(ev)
		if err != nil {
			return nil, false, fmt.Errorf("%w: encode event: %v", ErrLedger, err)
		}
		candidates = append(candidates, ev)
		args = append(args, ev.IdempotencyKey(), c.ClinicID, string(raw))
	}

	positions, err := awardScript.Run(ctx, l.client,
		[]string{l.keysKey(), l.totalsKey(), l.eventsKey()}, args...).Int64Slice()
	if err != nil {
		return nil, false, fmt.Errorf("%w: award: %v", ErrLedger, err)
	}

	created := make([]model.CreditEvent, 0, len(positions))
	for _, p := range positions {
		if p >= 1 && int(p) <= len(candidates) {
			created = append(created, candidates[p-1])
		}
	}
	return created, len(created) > 0, nil
}

func (l *RedisLedger) Totals(ctx context.Context) (_ map[string]int, err error) {
	start := time.Now()
	defer func() { metrics.RecordLedgerLatency("totals", err, time.Since(start)) }()

	raw, err := l.client.HGetAll(ctx, l.totalsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: totals: %v", ErrLedger, err)
	}
	out := make(map[string]int, len(raw))
	for id, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%w: total for %q: %v", ErrLedger, id, err)
		}
		out[id] = n
	}
	return out, nil
}

func (l *RedisLedger) Recent(ctx context.Context, n int) (_ []model.CreditEvent, err error) {
	start := time.Now()
	defer func() { metrics.RecordLedgerLatency("recent", err, time.Since(start)) }()

	if n <= 0 {
		return []model.CreditEvent{}, nil
	}
	raw, err := l.client.LRange(ctx, l.eventsKey(), int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: recent: %v", ErrLedger, err)
	}
	out := make([]model.CreditEvent, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var ev model.CreditEvent
		if err := json.Unmarshal([]byte(raw[i]), &ev); err != nil {
			return nil, fmt.Errorf("%w: decode event: %v", ErrLedger, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func (l *RedisLedger) Reset(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { metrics.RecordLedgerLatency("reset", err, time.Since(start)) }()

	if err := l.client.Del(ctx, l.keysKey(), l.totalsKey(), l.eventsKey()).Err(); err != nil {
		return fmt.Errorf("%w: reset: %v", ErrLedger, err)
	}
	return nil
}

// Len returns the number of recorded events.
func (l *RedisLedger) Len(ctx context.Context) (int, error) {
	n, err := l.client.LLen(ctx, l.eventsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: len: %v", ErrLedger, err)
	}
	return int(n), nil
}

// Health pings the backend.
func (l *RedisLedger) Health(ctx context.Context) error {
	if err := l.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrLedger, err)
	}
	return nil
}
