package playback

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Frame is one decoded unit of media: its ordinal position in the source and
// its pixel data.
type Frame struct {
	Index int
	Image image.Image
}

// FitTo scales the frame uniformly to fit inside width x height, preserving
// aspect ratio (scale is the smaller of the two dimension ratios). An
// unmeasured display (zero or negative size) returns the frame unscaled;
// frames are never dropped for unknown sizing.
func (f *Frame) FitTo(width, height int) *Frame {
	if f.Image == nil || width <= 0 || height <= 0 {
		return f
	}

	bounds := f.Image.Bounds()
	fw, fh := bounds.Dx(), bounds.Dy()
	if fw == 0 || fh == 0 {
		return f
	}

	scale := math.Min(float64(width)/float64(fw), float64(height)/float64(fh))
	nw := int(float64(fw) * scale)
	nh := int(float64(fh) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	if nw == fw && nh == fh {
		return f
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), f.Image, bounds, xdraw.Src, nil)

	return &Frame{Index: f.Index, Image: dst}
}
