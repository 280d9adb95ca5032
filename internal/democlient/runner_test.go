package democlient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/careshare/internal/adapters/http/api"
	service "github.com/okian/careshare/internal/app"
	"github.com/okian/careshare/internal/democlient"
	"github.com/okian/careshare/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(t *testing.T, demo bool) *httptest.Server {
	t.Helper()
	svc := service.New(service.WithDemoMode(demo))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	srv := httptest.NewServer(api.NewServer(svc).Routes())
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return srv
}

func TestRun(t *testing.T) {
	Convey("Given a demo server", t, func() {
		srv := newServer(t, true)
		cfg := &democlient.Config{BaseURL: srv.URL, Timeout: 5 * time.Second, Reset: true}
		ctx := context.Background()

		Convey("When the scenario runs with a reset", func() {
			stats, err := democlient.Run(ctx, cfg)

			Convey("Then every expectation holds", func() {
				So(err, ShouldBeNil)
				So(stats.Failures, ShouldEqual, 0)
				So(stats.Checks, ShouldBeGreaterThan, 10)
				So(stats.Requests, ShouldEqual, 9)
			})

			Convey("And a second run without reset reports the already-recorded credits", func() {
				cfg.Reset = false
				stats, err := democlient.Run(ctx, cfg)
				So(errors.Is(err, democlient.ErrExpectation), ShouldBeTrue)
				So(stats.Failures, ShouldBeGreaterThan, 0)
			})

			Convey("And a second run with reset passes again", func() {
				_, err := democlient.Run(ctx, cfg)
				So(err, ShouldBeNil)
			})
		})
	})

	Convey("Given a server without demo mode", t, func() {
		srv := newServer(t, false)
		cfg := &democlient.Config{BaseURL: srv.URL, Timeout: 5 * time.Second, Reset: true}

		Convey("Then the reset step fails with the response status", func() {
			_, err := democlient.Run(context.Background(), cfg)
			var statusErr *democlient.StatusError
			So(errors.As(err, &statusErr), ShouldBeTrue)
			So(statusErr.Code, ShouldEqual, http.StatusNotFound)
			So(statusErr.Path, ShouldEqual, "/demo/reset")
		})
	})

	Convey("Given an unreachable server", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		Convey("Then the health step aborts the run", func() {
			_, err := democlient.Run(context.Background(), &democlient.Config{BaseURL: url, Timeout: time.Second})
			So(err, ShouldNotBeNil)
			So(errors.Is(err, democlient.ErrExpectation), ShouldBeFalse)
		})
	})
}
