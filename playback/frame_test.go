package playback

import (
	"image"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func rgbaFrame(w, h int) *Frame {
	return &Frame{Index: 7, Image: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func TestFitTo(t *testing.T) {
	Convey("Frame.FitTo", t, func() {
		Convey("Should scale by the smaller dimension ratio", func() {
			fitted := rgbaFrame(100, 50).FitTo(50, 50)

			bounds := fitted.Image.Bounds()
			So(bounds.Dx(), ShouldEqual, 50)
			So(bounds.Dy(), ShouldEqual, 25)
			So(fitted.Index, ShouldEqual, 7)
		})

		Convey("Should upscale when the display is larger", func() {
			fitted := rgbaFrame(100, 50).FitTo(400, 100)

			bounds := fitted.Image.Bounds()
			So(bounds.Dx(), ShouldEqual, 200)
			So(bounds.Dy(), ShouldEqual, 100)
		})

		Convey("Should return the frame unscaled for an unmeasured display", func() {
			frame := rgbaFrame(100, 50)

			So(frame.FitTo(0, 0), ShouldEqual, frame)
			So(frame.FitTo(-1, 50), ShouldEqual, frame)
		})

		Convey("Should pass a perfectly sized frame through", func() {
			frame := rgbaFrame(80, 40)

			So(frame.FitTo(80, 40), ShouldEqual, frame)
		})

		Convey("Should pass a frame without pixels through", func() {
			frame := &Frame{Index: 1}

			So(frame.FitTo(80, 40), ShouldEqual, frame)
		})
	})
}
