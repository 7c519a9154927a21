// Command framedump resolves a single frame of a race video at a fractional
// position and writes it out as PNG. It is the manual counterpart of the
// review UI: point it at a file, a position like 127.25, and optionally a
// zoom rectangle, and inspect what the engine would display.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/raceview/frameengine"
	"github.com/raceview/frameengine/pkg/decoder/ffmpeg"
	"github.com/raceview/frameengine/pkg/frame"
	"github.com/raceview/frameengine/pkg/metrics"
)

func main() {
	var (
		file  = flag.String("file", "", "video file to read")
		pos   = flag.Float64("pos", 0, "fractional frame position, e.g. 127.25")
		out   = flag.String("out", "frame.png", "output PNG path")
		blend = flag.Bool("blend", false, "cross-dissolve instead of motion shift")
		zoom  = flag.String("zoom", "", "zoom rectangle as x0,y0,x1,y1")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*file, *pos, *out, *blend, *zoom); err != nil {
		fmt.Fprintln(os.Stderr, "framedump:", err)
		os.Exit(1)
	}
}

func run(file string, pos float64, out string, blend bool, zoom string) error {
	cfg, err := frameengine.LoadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.MetricsPort > 0 {
		defer metrics.StartServer(cfg.MetricsPort).Close()
	}

	req := frameengine.Request{File: file, Position: pos, Blend: blend}
	if zoom != "" {
		rect, err := parseRect(zoom)
		if err != nil {
			return err
		}
		req.Zoom = &rect
	}

	eng := frameengine.New(ffmpeg.New(), cfg)
	defer eng.Close(file)

	eng.Submit(req)
	resp, err := eng.ProcessPending(context.Background())
	if err != nil {
		return err
	}
	return writePNG(out, resp.Frame)
}

func parseRect(s string) (image.Rectangle, error) {
	var x0, y0, x1, y1 int
	if _, err := fmt.Sscanf(s, "%d,%d,%d,%d", &x0, &y0, &x1, &y1); err != nil {
		return image.Rectangle{}, fmt.Errorf("zoom rectangle %q: want x0,y0,x1,y1", s)
	}
	return image.Rect(x0, y0, x1, y1), nil
}

func writePNG(path string, f *frame.Frame) error {
	img := &image.RGBA{
		Pix:    f.Data,
		Stride: f.Stride,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img)
}
