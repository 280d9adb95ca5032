package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/careshare/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8000")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.DemoMode, convey.ShouldBeFalse)
			convey.So(cfg.LedgerBackend, convey.ShouldEqual, config.LedgerMemory)
			convey.So(cfg.RecentEventsLimit, convey.ShouldEqual, 5)
			convey.So(cfg.BenchmarkClinicWindow, convey.ShouldEqual, 100)
			convey.So(cfg.BenchmarkNetworkWindow, convey.ShouldEqual, 500)
			convey.So(cfg.ShutdownTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Origins(t *testing.T) {
	convey.Convey("Given allowed origins and a frontend url", t, func() {
		cfg := config.New()
		cfg.FrontendURL = "https://app.example.org"

		convey.So(cfg.Origins(), convey.ShouldResemble, []string{
			"http://localhost:5173", "http://localhost:5174", "https://app.example.org",
		})

		convey.Convey("When the frontend url is already allowed", func() {
			cfg.FrontendURL = "http://localhost:5173"
			convey.So(cfg.Origins(), convey.ShouldHaveLength, 2)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid configurations", t, func() {
		cases := map[string]func(c *config.Config){
			"empty addr":         func(c *config.Config) { c.Addr = "" },
			"unknown log format": func(c *config.Config) { c.LogFormat = "xml" },
			"unknown backend":    func(c *config.Config) { c.LedgerBackend = "postgres" },
			"redis without url":  func(c *config.Config) { c.LedgerBackend = config.LedgerRedis },
			"zero events limit":  func(c *config.Config) { c.RecentEventsLimit = 0 },
			"zero clinic window": func(c *config.Config) { c.BenchmarkClinicWindow = 0 },
			"negative shutdown":  func(c *config.Config) { c.ShutdownTimeoutMS = -1 },
		}
		for name, mutate := range cases {
			convey.Convey("Then "+name+" is rejected", func() {
				cfg := config.New()
				mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("Then redis with a url is accepted", func() {
			cfg := config.New()
			cfg.LedgerBackend = config.LedgerRedis
			cfg.RedisURL = "redis://localhost:6379/0"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}
