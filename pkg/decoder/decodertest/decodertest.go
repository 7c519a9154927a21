// Package decodertest provides a deterministic synthetic decoder for
// testing the engine without video files. Every frame is a textured
// background with a bright vertical bar whose horizontal velocity is known,
// so tests have ground truth for motion and interpolation.
package decodertest

import (
	"context"
	"fmt"
	"math"

	"github.com/raceview/frameengine/pkg/decoder"
	"github.com/raceview/frameengine/pkg/frame"
)

// Decoder generates frames on demand. The bar starts at StartX and moves
// VelocityX pixels per frame.
type Decoder struct {
	Width     int
	Height    int
	FPS       float64
	NumFrames int
	StartX    int
	VelocityX int
	BarWidth  int

	// Decoded counts Frame calls per path, letting tests assert cache
	// behavior.
	Decoded map[string]int

	open map[string]bool
}

// New returns a decoder with a 320x80 stream of 100 frames at 50 fps and a
// bar moving 4 px per frame.
func New() *Decoder {
	return &Decoder{
		Width:     320,
		Height:    80,
		FPS:       50,
		NumFrames: 100,
		StartX:    40,
		VelocityX: 4,
		BarWidth:  3,
		Decoded:   make(map[string]int),
		open:      make(map[string]bool),
	}
}

func (d *Decoder) Open(_ context.Context, path string) (decoder.Info, error) {
	d.open[path] = true
	return decoder.Info{
		Width:     d.Width,
		Height:    d.Height,
		FPS:       d.FPS,
		NumFrames: d.NumFrames,
	}, nil
}

func (d *Decoder) Close(path string) error {
	delete(d.open, path)
	return nil
}

func (d *Decoder) Frame(_ context.Context, path string, idx int) (*frame.Frame, error) {
	if !d.open[path] {
		return nil, fmt.Errorf("%w: %s", decoder.ErrNotOpen, path)
	}
	if idx < 0 || idx >= d.NumFrames {
		return nil, fmt.Errorf("%w: %d of %d", decoder.ErrOutOfRange, idx, d.NumFrames)
	}
	d.Decoded[path]++

	f := frame.New(idx, path)
	f.NumFrames = d.NumFrames
	f.FPS = d.FPS
	f.Width = d.Width
	f.Height = d.Height
	f.Stride = d.Width * frame.BytesPerPixel
	f.Data = make([]byte, d.Height*f.Stride)
	f.TSMicro = uint64(math.Round(float64(idx) / d.FPS * 1e6))
	f.Timestamp = f.TSMicro / 1000

	// The whole scene translates by VelocityX per frame, like runners
	// crossing a fixed camera.
	shift := idx * d.VelocityX
	barX := d.StartX + shift
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			v := texture(x-shift, y)
			if x >= barX && x < barX+d.BarWidth {
				v = 255
			}
			i := y*f.Stride + x*frame.BytesPerPixel
			f.Data[i], f.Data[i+1], f.Data[i+2], f.Data[i+3] = v, v, v, 255
		}
	}
	return f, nil
}

// BarX reports where the bar's left edge is at the given fractional
// position.
func (d *Decoder) BarX(pos float64) float64 {
	return float64(d.StartX) + pos*float64(d.VelocityX)
}

// texture is a deterministic pseudo-random background, dim enough that the
// bar dominates it.
func texture(x, y int) byte {
	h := uint32(x)*0x1f1f1f1f ^ uint32(y)*0x9e3779b9
	h ^= h >> 13
	h *= 0x85ebca6b
	h ^= h >> 16
	return byte(h % 128)
}
