// Package decoder defines the contract the engine uses to obtain raw
// decoded frames from a video file. Implementations live in sub-packages;
// the engine treats any error as a hard stop for the current request.
package decoder

import (
	"context"
	"errors"

	"github.com/raceview/frameengine/pkg/frame"
)

var (
	// ErrNotOpen is returned when a frame is requested from a file that has
	// not been opened.
	ErrNotOpen = errors.New("decoder: file not open")
	// ErrOutOfRange is returned for a frame index outside the file.
	ErrOutOfRange = errors.New("decoder: frame index out of range")
)

// Info describes an opened video file.
type Info struct {
	Width     int
	Height    int
	FPS       float64
	NumFrames int
}

// Decoder decodes integer-indexed frames from video files.
type Decoder interface {
	// Open probes the file and prepares it for frame extraction.
	Open(ctx context.Context, path string) (Info, error)
	// Close releases per-file state. Closing an unopened file is a no-op.
	Close(path string) error
	// Frame decodes the frame at the given integer index as RGBA.
	Frame(ctx context.Context, path string, idx int) (*frame.Frame, error)
}
