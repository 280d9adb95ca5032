// Package credits awards continuity credits to clinics whose shared history
// was used by another clinic to continue care.
package credits

import (
	"context"

	"github.com/okian/careshare/internal/domain/model"
)

// Contributor is a clinic that shared data for a match, with the level at
// which the requester saw it.
type Contributor struct {
	ClinicID     string
	VisibleLevel int
}

// Ledger records credit events at most once per (patient, from, to) triple.
type Ledger interface {
	// Award credits every contributor with a visible level above zero whose
	// key was not recorded yet. It returns only the newly created events and
	// whether at least one was created. All keys of a call are checked and
	// recorded as one atomic step.
	Award(ctx context.Context, patientKey, toClinic string, contributors []Contributor) ([]model.CreditEvent, bool, error)

	// Totals maps every clinic with at least one credit to its count.
	Totals(ctx context.Context) (map[string]int, error)

	// Recent returns up to n events, most recent first.
	Recent(ctx context.Context, n int) ([]model.CreditEvent, error)

	// Reset drops all totals, events and recorded keys.
	Reset(ctx context.Context) error

	// Len returns the number of recorded events.
	Len(ctx context.Context) (int, error)
}

// Eligible filters contributors down to those that can earn a credit.
func Eligible(contributors []Contributor) []Contributor {
	out := make([]Contributor, 0, len(contributors))
	for _, c := range contributors {
		if c.VisibleLevel > 0 {
			out = append(out, c)
		}
	}
	return out
}
