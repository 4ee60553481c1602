package playback

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseRate(t *testing.T) {
	Convey("parseRate", t, func() {
		Convey("Should resolve rational notation", func() {
			So(parseRate("25/1"), ShouldEqual, 25)
			So(parseRate("30000/1001"), ShouldAlmostEqual, 29.97, 0.01)
		})

		Convey("Should accept plain numbers", func() {
			So(parseRate("30"), ShouldEqual, 30)
		})

		Convey("Should report unusable notation as zero", func() {
			So(parseRate("bogus"), ShouldEqual, 0)
			So(parseRate("30/0"), ShouldEqual, 0)
			So(parseRate(""), ShouldEqual, 0)
		})
	})
}

func TestParseProbe(t *testing.T) {
	Convey("parseProbe", t, func() {
		Convey("With a fully described stream", func() {
			rate, total, err := parseProbe([]byte(`{
				"streams": [{"r_frame_rate": "24/1", "nb_frames": "240"}],
				"format": {"duration": "10.0"}
			}`))

			So(err, ShouldBeNil)
			So(rate, ShouldEqual, 24)
			So(total, ShouldEqual, 240)
		})

		Convey("Should derive the frame count from the duration", func() {
			rate, total, err := parseProbe([]byte(`{
				"streams": [{"r_frame_rate": "30/1"}],
				"format": {"duration": "12.5"}
			}`))

			So(err, ShouldBeNil)
			So(rate, ShouldEqual, 30)
			So(total, ShouldEqual, 375)
		})

		Convey("Should fall back when the stream reports no usable rate", func() {
			rate, total, err := parseProbe([]byte(`{
				"streams": [{"r_frame_rate": "0/0"}],
				"format": {"duration": "10.0"}
			}`))

			So(err, ShouldBeNil)
			So(rate, ShouldEqual, 30)
			So(total, ShouldEqual, 300)
		})

		Convey("Should fail without a video stream", func() {
			_, _, err := parseProbe([]byte(`{"streams": [], "format": {}}`))

			So(err, ShouldNotBeNil)
		})

		Convey("Should fail on malformed output", func() {
			_, _, err := parseProbe([]byte("not json"))

			So(err, ShouldNotBeNil)
		})
	})
}
