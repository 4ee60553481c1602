package playback

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestFormatTime(t *testing.T) {
	Convey("FormatTime", t, func() {
		Convey("Should zero-pad minutes and seconds", func() {
			So(FormatTime(0), ShouldEqual, "00:00")
			So(FormatTime(5), ShouldEqual, "00:05")
			So(FormatTime(125), ShouldEqual, "02:05")
			So(FormatTime(600), ShouldEqual, "10:00")
		})

		Convey("Should truncate fractional seconds", func() {
			So(FormatTime(59.9), ShouldEqual, "00:59")
		})

		Convey("Should clamp negatives to zero", func() {
			So(FormatTime(-3), ShouldEqual, "00:00")
		})
	})
}

func TestFormatClock(t *testing.T) {
	Convey("FormatClock", t, func() {
		Convey("Should convert units to seconds at the native rate", func() {
			So(FormatClock(1, 300, 30), ShouldEqual, "00:00 / 00:10")
			So(FormatClock(150, 300, 30), ShouldEqual, "00:05 / 00:10")
			So(FormatClock(300, 300, 30), ShouldEqual, "00:10 / 00:10")
		})

		Convey("Should tolerate a zero rate", func() {
			So(FormatClock(0, 0, 0), ShouldEqual, "00:00 / 00:00")
		})
	})
}
