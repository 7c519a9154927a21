package synth

import (
	"fmt"

	"github.com/raceview/frameengine/pkg/frame"
)

// sharpenKernel is a fixed 3x3 edge-enhancement kernel applied per channel.
var sharpenKernel = [3][3]int{
	{0, -1, 0},
	{-1, 5, -1},
	{0, -1, 0},
}

// Sharpen convolves the frame's pixel buffer in place to counteract
// interpolation blur. Border pixels use clamped sampling. The pass is not
// idempotent: applying it again sharpens further instead of converging, so
// it must run exactly once, before the frame is published to the cache.
//
// A malformed buffer fails the call and leaves the frame untouched.
func Sharpen(f *frame.Frame) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("sharpen: %w", err)
	}

	src := make([]byte, len(f.Data))
	copy(src, f.Data)

	bpp := frame.BytesPerPixel
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			for c := 0; c < bpp; c++ {
				var acc int
				for ky := -1; ky <= 1; ky++ {
					sy := clamp(y+ky, 0, f.Height-1)
					for kx := -1; kx <= 1; kx++ {
						w := sharpenKernel[ky+1][kx+1]
						if w == 0 {
							continue
						}
						sx := clamp(x+kx, 0, f.Width-1)
						acc += w * int(src[sy*f.Stride+sx*bpp+c])
					}
				}
				f.Data[y*f.Stride+x*bpp+c] = byte(clamp(acc, 0, 255))
			}
		}
	}
	return nil
}
