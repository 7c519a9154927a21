// Package render produces zoomed variants of frames for display. Zoomed
// frames carry the "-z" key suffix so they cache independently of the
// unzoomed decode at the same position.
package render

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/raceview/frameengine/pkg/frame"
)

// Scaler represents the scaling algorithm used for zoom rendering.
type Scaler draw.Scaler

// List of scaling algorithms.
var (
	ScalerNearestNeighbor = Scaler(draw.NearestNeighbor)
	ScalerApproxBiLinear  = Scaler(draw.ApproxBiLinear)
	ScalerBiLinear        = Scaler(draw.BiLinear)
	ScalerCatmullRom      = Scaler(draw.CatmullRom)
)

// Zoom crops rect out of f and rescales it back to f's full dimensions.
// The result is a new frame keyed with the zoom marker; f is untouched.
// Setting scaler=nil uses ScalerApproxBiLinear.
func Zoom(f *frame.Frame, rect image.Rectangle, scaler Scaler) (*frame.Frame, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("zoom: %w", err)
	}
	bounds := image.Rect(0, 0, f.Width, f.Height)
	rect = rect.Intersect(bounds)
	if rect.Empty() {
		return nil, fmt.Errorf("zoom: rect outside frame %s", f.Key)
	}
	if scaler == nil {
		scaler = ScalerApproxBiLinear
	}

	src := &image.RGBA{
		Pix:    f.Data,
		Stride: f.Stride,
		Rect:   bounds,
	}
	dst := image.NewRGBA(bounds)
	scaler.Scale(dst, bounds, src, rect, draw.Src, nil)

	out := *f
	out.Data = dst.Pix
	out.Stride = dst.Stride
	out.Key = frame.FormatKey(f.File, f.FrameNum, true)
	return &out, nil
}
