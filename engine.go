// Package frameengine resolves frames at fractional positions in race
// videos. Integer positions come straight from the decoder; fractional
// positions are synthesized from the two bounding frames by motion
// estimation and interpolation. Every resolved frame passes through a
// bounded cache keyed by file, position and zoom state.
package frameengine

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/raceview/frameengine/internal/logging"
	"github.com/raceview/frameengine/pkg/cache"
	"github.com/raceview/frameengine/pkg/decoder"
	"github.com/raceview/frameengine/pkg/frame"
	"github.com/raceview/frameengine/pkg/metrics"
	"github.com/raceview/frameengine/pkg/motion"
	"github.com/raceview/frameengine/pkg/render"
	"github.com/raceview/frameengine/pkg/synth"
)

var logger = logging.NewLogger("frameengine")

// Request asks for the frame of file at a (possibly fractional) position.
type Request struct {
	File     string
	Position float64
	// Zoom, when non-nil, is the source rectangle to magnify to full size.
	Zoom *image.Rectangle
	// Blend selects the cross-dissolve output for fractional positions;
	// otherwise the motion-shifted variant is returned.
	Blend bool
}

// Engine wires the decoder collaborator, the motion estimator, the frame
// synthesizer and the cache. It is not internally synchronized: invoke it
// from a single logical sequence and serialize requests through the
// latest-wins mailbox (Submit / ProcessPending) when they originate from an
// interactive surface.
type Engine struct {
	dec   decoder.Decoder
	cache *cache.Cache
	synth *synth.Synthesizer
	cfg   Config

	mailbox mailbox
}

// New creates an engine over dec with the given configuration.
func New(dec decoder.Decoder, cfg Config) *Engine {
	if cfg.CacheCapacity <= 0 {
		cfg.CacheCapacity = cache.DefaultCapacity
	}
	est := motion.NewEstimator(
		motion.WithRange(cfg.SearchRangeX, cfg.SearchRangeY),
		motion.WithMinSeparation(cfg.MinSeparation),
	)
	return &Engine{
		dec: dec,
		cache: cache.New(
			cache.WithCapacity(cfg.CacheCapacity),
			cache.WithEvictFunc(func(f *frame.Frame) {
				metrics.CacheEvictionsTotal.Inc()
				logger.Tracef("evicted %s", f.Key)
			}),
		),
		synth: synth.New(est),
		cfg:   cfg,
	}
}

// Cache exposes the frame cache for inspection.
func (e *Engine) Cache() *cache.Cache {
	return e.cache
}

// Close releases the decoder state for file.
func (e *Engine) Close(file string) error {
	return e.dec.Close(file)
}

// FrameAt resolves the frame of file at position. Cache hits return the
// stored frame; misses decode the bounding integer frames, synthesize the
// fractional result, optionally sharpen it and insert it into the cache.
// Decode failures abort the request.
func (e *Engine) FrameAt(ctx context.Context, req Request) (*frame.Frame, error) {
	key := frame.FormatKey(req.File, req.Position, req.Zoom != nil)
	if f := e.cache.Get(key); f != nil {
		metrics.CacheHitsTotal.Inc()
		return f, nil
	}
	metrics.CacheMissesTotal.Inc()

	info, err := e.dec.Open(ctx, req.File)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", req.File, err)
	}
	if req.Position < 0 || (info.NumFrames > 0 && req.Position > float64(info.NumFrames-1)) {
		return nil, fmt.Errorf("position %v outside %s (0..%d)", req.Position, req.File, info.NumFrames-1)
	}

	f, err := e.resolve(ctx, req, info)
	if err != nil {
		return nil, err
	}

	if req.Zoom != nil {
		z, err := render.Zoom(f, *req.Zoom, nil)
		if err != nil {
			return nil, err
		}
		e.cache.Add(z)
		return z, nil
	}
	return f, nil
}

// resolve produces the unzoomed frame at req.Position and caches it.
func (e *Engine) resolve(ctx context.Context, req Request, info decoder.Info) (*frame.Frame, error) {
	lo := int(math.Floor(req.Position))
	pct := req.Position - float64(lo)
	if pct == 0 {
		return e.rawFrame(ctx, req.File, lo)
	}

	fa, err := e.rawFrame(ctx, req.File, lo)
	if err != nil {
		return nil, err
	}
	fb, err := e.rawFrame(ctx, req.File, lo+1)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	res, err := e.synth.Interpolate(fa, fb, pct, e.roi(info), req.Blend)
	if err != nil {
		return nil, err
	}
	out := res.Shifted
	if req.Blend {
		out = res.Blended
	}
	if e.cfg.Sharpen {
		if err := synth.Sharpen(out); err != nil {
			return nil, err
		}
	}
	metrics.SynthesisDuration.Observe(time.Since(started).Seconds())
	logger.Debugf("synthesized %s (pct=%.3f blend=%v motion=%+v)", out.Key, pct, req.Blend, out.Motion)

	e.cache.Add(out)
	return out, nil
}

// rawFrame returns the decoded frame at an integer index, through the cache.
func (e *Engine) rawFrame(ctx context.Context, file string, idx int) (*frame.Frame, error) {
	key := frame.FormatKey(file, float64(idx), false)
	if f := e.cache.Get(key); f != nil {
		metrics.CacheHitsTotal.Inc()
		return f, nil
	}

	f, err := e.dec.Frame(ctx, file, idx)
	if err != nil {
		metrics.DecodesTotal.WithLabelValues("error").Inc()
		logger.Errorf("decode %s frame %d: %v", file, idx, err)
		return nil, fmt.Errorf("decode %s frame %d: %w", file, idx, err)
	}
	metrics.DecodesTotal.WithLabelValues("ok").Inc()

	if err := f.Validate(); err != nil {
		return nil, err
	}
	e.cache.Add(f)
	return f, nil
}

// roi is the motion estimation window: a band of ROIRange pixels on either
// side of the finish line, full frame height.
func (e *Engine) roi(info decoder.Info) image.Rectangle {
	x := e.cfg.FinishX
	if x < 0 {
		x = info.Width / 2
	}
	return image.Rect(x-e.cfg.ROIRange, 0, x+e.cfg.ROIRange, info.Height)
}
