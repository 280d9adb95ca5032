package credits

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/careshare/internal/domain/dedupe"
	"github.com/okian/careshare/internal/domain/model"
)

var _ Ledger = (*MemoryLedger)(nil)

// MemoryLedger keeps the ledger in process memory. A single mutex covers
// award, read and reset so no caller observes a half-applied award.
type MemoryLedger struct {
	mu     sync.RWMutex
	keys   dedupe.Deduper
	totals map[string]int
	events []model.CreditEvent

	now   func() time.Time
	newID func() string
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger(opts ...Option) *MemoryLedger {
	l := &MemoryLedger{
		totals: make(map[string]int),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.keys == nil {
		l.keys = dedupe.NewInMemoryDeduper()
	}
	return l
}

func (l *MemoryLedger) Award(ctx context.Context, patientKey, toClinic string, contributors []Contributor) ([]model.CreditEvent, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ts := l.now()
	var created []model.CreditEvent
	for _, c := range Eligible(contributors) {
		if l.keys.SeenAndRecord(ctx, model.CreditKey(patientKey, c.ClinicID, toClinic)) {
			continue
		}
		ev := model.CreditEvent{
			ID:         l.newID(),
			PatientKey: patientKey,
			FromClinic: c.ClinicID,
			ToClinic:   toClinic,
			Timestamp:  ts,
		}
		l.totals[c.ClinicID]++
		l.events = append(l.events, ev)
		created = append(created, ev)
	}
	return created, len(created) > 0, nil
}

func (l *MemoryLedger) Totals(_ context.Context) (map[string]int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]int, len(l.totals))
	for id, n := range l.totals {
		out[id] = n
	}
	return out, nil
}

func (l *MemoryLedger) Recent(_ context.Context, n int) ([]model.CreditEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 {
		return []model.CreditEvent{}, nil
	}
	if n > len(l.events) {
		n = len(l.events)
	}
	out := make([]model.CreditEvent, 0, n)
	for i := len(l.events) - 1; i >= len(l.events)-n; i-- {
		out = append(out, l.events[i])
	}
	return out, nil
}

func (l *MemoryLedger) Reset(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.keys.Reset(ctx)
	l.totals = make(map[string]int)
	l.events = nil
	return nil
}

func (l *MemoryLedger) Len(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events), nil
}
