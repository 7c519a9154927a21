// Package frame defines the frame record shared between the decoder,
// the interpolation engine and the cache.
package frame

import (
	"fmt"
)

// BytesPerPixel is the channel depth of all frames handled by the engine.
// Decoders are expected to deliver RGBA.
const BytesPerPixel = 4

// Motion is a displacement estimated between two frames.
// When Valid is false the displacement is meaningless and must not be used
// for spatial shifting; callers fall back to a zero-displacement path.
type Motion struct {
	X     float64
	Y     float64
	DT    uint64 // elapsed time between the two frames in microseconds
	Valid bool
}

// Frame is one decoded or synthesized image sample.
//
// Data is shared by reference between the producing component, the cache and
// any number of readers. After a frame has been handed to the cache its
// buffer must not be modified; Sharpen runs before publication.
type Frame struct {
	FrameNum  float64 // fractional frame position
	NumFrames int
	FPS       float64
	Data      []byte
	Width     int
	Height    int
	Stride    int
	Timestamp uint64 // milliseconds
	TSMicro   uint64 // microseconds
	File      string
	Motion    Motion
	Key       string
}

// New creates a frame at an integer position and derives its identity key.
// Pixel data and geometry are filled in by the decoder.
func New(frameNum int, file string) *Frame {
	return &Frame{
		FrameNum: float64(frameNum),
		File:     file,
		Key:      FormatKey(file, float64(frameNum), false),
	}
}

// Validate checks that the pixel buffer is consistent with the declared
// geometry.
func (f *Frame) Validate() error {
	if f.Data == nil {
		return fmt.Errorf("frame %s: no pixel buffer", f.Key)
	}
	if f.Stride < f.Width*BytesPerPixel {
		return fmt.Errorf("frame %s: stride %d too small for width %d", f.Key, f.Stride, f.Width)
	}
	if len(f.Data) != f.Height*f.Stride {
		return fmt.Errorf("frame %s: buffer length %d, want %d", f.Key, len(f.Data), f.Height*f.Stride)
	}
	return nil
}

// Clone returns a frame with its own copy of the pixel buffer. Metadata is
// copied as-is.
func (f *Frame) Clone() *Frame {
	c := *f
	if f.Data != nil {
		c.Data = make([]byte, len(f.Data))
		copy(c.Data, f.Data)
	}
	return &c
}
