package ledger

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNewRedisClient(t *testing.T) {
	Convey("Given a missing redis url", t, func() {
		_, err := NewRedisClient(context.Background(), "")
		So(errors.Is(err, ErrLedger), ShouldBeTrue)
	})

	Convey("Given a malformed redis url", t, func() {
		_, err := NewRedisClient(context.Background(), "http://not-redis")
		So(errors.Is(err, ErrLedger), ShouldBeTrue)
	})
}

func TestRedisLedgerKeys(t *testing.T) {
	Convey("Given a ledger with a custom prefix", t, func() {
		l := NewRedisLedger(nil, WithPrefix("test:{x}"))

		Convey("Then all keys share the prefix", func() {
			So(l.keysKey(), ShouldEqual, "test:{x}:keys")
			So(l.totalsKey(), ShouldEqual, "test:{x}:totals")
			So(l.eventsKey(), ShouldEqual, "test:{x}:events")
		})
	})

	Convey("Given only invisible contributors", t, func() {
		l := NewRedisLedger(nil)
		events, credited, err := l.Award(context.Background(), "p", "B", nil)

		Convey("Then the backend is not touched", func() {
			So(err, ShouldBeNil)
			So(credited, ShouldBeFalse)
			So(events, ShouldBeEmpty)
		})
	})
}
