package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When it is initialized with defaults", func() {
			So(Init(), ShouldBeNil)
			So(Get(), ShouldNotBeNil)
			So(Sync(), ShouldBeNil)
		})

		Convey("When it is initialized with an unknown level", func() {
			So(Init(WithLevel("loud")), ShouldNotBeNil)
		})

		Convey("When it writes JSON", func() {
			var buf bytes.Buffer
			So(Init(WithFormat("json"), WithWriter(&buf), WithLevel("debug")), ShouldBeNil)
			Get().Debug(context.Background(), "ledger award",
				String("clinic", "A"), Int("credits", 2), Bool("credited", true),
				Strings("contributors", []string{"A", "C"}), Duration("took", time.Millisecond),
				Error(errors.New("boom")))

			Convey("Then every field and the source are present", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "ledger award")
				So(line["clinic"], ShouldEqual, "A")
				So(line["credited"], ShouldEqual, true)
				So(line["error"], ShouldEqual, "boom")
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})
	})
}

func TestLoggerLevels(t *testing.T) {
	Convey("Given a logger at warn level", t, func() {
		var buf bytes.Buffer
		So(Init(WithWriter(&buf), WithLevel("warn")), ShouldBeNil)
		ctx := context.Background()

		Get().Info(ctx, "hidden")
		Get().Warn(ctx, "shown")

		So(buf.String(), ShouldNotContainSubstring, "hidden")
		So(buf.String(), ShouldContainSubstring, "shown")

		Convey("When the level is lowered at runtime", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			Get().Debug(ctx, "now visible")
			So(buf.String(), ShouldContainSubstring, "now visible")
		})

		Convey("When the level is unknown", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}

func TestLoggerNamed(t *testing.T) {
	Convey("Given a standalone logger", t, func() {
		var buf bytes.Buffer
		l := New(WithWriter(&buf)).Named("gating")
		l.Info(context.Background(), "check", String("clinic", "B"))

		Convey("Then fields are grouped under the name", func() {
			So(strings.Contains(buf.String(), "gating.clinic=B"), ShouldBeTrue)
		})
	})
}
