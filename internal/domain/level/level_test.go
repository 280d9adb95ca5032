package level_test

import (
	"testing"

	"github.com/okian/careshare/internal/domain/level"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromContribution(t *testing.T) {
	Convey("Given the level thresholds", t, func() {
		Convey("When the clinic is opted out", func() {
			Convey("Then the level is 0 regardless of percentage", func() {
				for _, pct := range []int{0, 9, 10, 50, 80, 100} {
					So(level.FromContribution(false, pct), ShouldEqual, level.Isolated)
				}
			})
		})

		Convey("When the clinic is opted in", func() {
			cases := map[int]int{
				0: 0, 9: 0,
				10: 1, 39: 1,
				40: 2, 79: 2,
				80: 3, 100: 3,
			}
			Convey("Then each boundary maps to the expected level", func() {
				for pct, want := range cases {
					So(level.FromContribution(true, pct), ShouldEqual, want)
				}
			})

			Convey("Then the level never decreases as the percentage grows", func() {
				prev := level.FromContribution(true, 0)
				for pct := 1; pct <= 100; pct++ {
					cur := level.FromContribution(true, pct)
					So(cur, ShouldBeGreaterThanOrEqualTo, prev)
					prev = cur
				}
			})
		})
	})
}

func TestNetworkStatus(t *testing.T) {
	Convey("Given context levels", t, func() {
		So(level.NetworkStatus(0), ShouldEqual, "Isolated")
		So(level.NetworkStatus(1), ShouldEqual, "Basic")
		So(level.NetworkStatus(2), ShouldEqual, "Collaborative")
		So(level.NetworkStatus(3), ShouldEqual, "Trusted Contributor")

		Convey("Unknown levels fall back to Isolated", func() {
			So(level.NetworkStatus(99), ShouldEqual, "Isolated")
			So(level.NetworkStatus(-1), ShouldEqual, "Isolated")
		})
	})
}

func TestLockedPreview(t *testing.T) {
	Convey("Given each level", t, func() {
		So(level.LockedPreview(0), ShouldResemble, []string{"Conditions and date ranges", "Contributing clinics count"})
		So(level.LockedPreview(1), ShouldContain, "Intervention categories")
		So(level.LockedPreview(2), ShouldHaveLength, 3)

		Convey("Level 3 has nothing left to unlock", func() {
			So(level.LockedPreview(3), ShouldBeEmpty)
			So(level.LockedPreview(3), ShouldNotBeNil)
		})
	})
}

func TestWhatIf(t *testing.T) {
	Convey("Given what-if scenarios", t, func() {
		Convey("When a clinic is at 30%", func() {
			scenarios := level.WhatIf(true, 30)

			Convey("Then only levels above 1 are listed", func() {
				So(scenarios, ShouldHaveLength, 2)
				So(scenarios[0].TargetLevel, ShouldEqual, 2)
				So(scenarios[0].IncreaseNeeded, ShouldEqual, 10)
				So(scenarios[1].TargetLevel, ShouldEqual, 3)
				So(scenarios[1].IncreaseNeeded, ShouldEqual, 50)
			})
		})

		Convey("When a clinic is opted out with a stale percentage", func() {
			scenarios := level.WhatIf(false, 50)

			Convey("Then every level is listed and the increase never goes negative", func() {
				So(scenarios, ShouldHaveLength, 3)
				So(scenarios[0].IncreaseNeeded, ShouldEqual, 0)
				So(scenarios[1].IncreaseNeeded, ShouldEqual, 0)
				So(scenarios[2].IncreaseNeeded, ShouldEqual, 30)
			})
		})

		Convey("When a clinic is already trusted", func() {
			So(level.WhatIf(true, 85), ShouldBeEmpty)
		})
	})
}

func TestMin(t *testing.T) {
	Convey("Given every requester/contributor pair", t, func() {
		for r := 0; r <= 3; r++ {
			for c := 0; c <= 3; c++ {
				got := level.Min(r, c)
				So(got, ShouldBeLessThanOrEqualTo, r)
				So(got, ShouldBeLessThanOrEqualTo, c)
				So(got == r || got == c, ShouldBeTrue)
			}
		}
	})
}
