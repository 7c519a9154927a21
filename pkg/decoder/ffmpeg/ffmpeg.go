// Package ffmpeg implements the decoder contract over the ffmpeg and
// ffprobe binaries. Each frame is extracted as a single raw RGBA image,
// which keeps the process stateless between requests at the cost of a seek
// per decode; the engine's cache absorbs repeated positions.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/raceview/frameengine/internal/logging"
	"github.com/raceview/frameengine/pkg/decoder"
	"github.com/raceview/frameengine/pkg/frame"
)

var logger = logging.NewLogger("frameengine/decoder/ffmpeg")

// Decoder shells out to ffmpeg/ffprobe. Open/Close bookkeeping is per path;
// access is expected from a single logical sequence, like the rest of the
// engine.
type Decoder struct {
	files map[string]decoder.Info
}

// New creates an ffmpeg-backed decoder.
func New() *Decoder {
	return &Decoder{
		files: make(map[string]decoder.Info),
	}
}

// Open probes the file with ffprobe and records its stream properties.
func (d *Decoder) Open(ctx context.Context, path string) (decoder.Info, error) {
	if info, ok := d.files[path]; ok {
		return info, nil
	}

	out, err := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=width,height,r_frame_rate,nb_read_packets",
		"-of", "csv=p=0",
		path,
	).Output()
	if err != nil {
		return decoder.Info{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	info, err := parseProbe(string(out))
	if err != nil {
		return decoder.Info{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	d.files[path] = info
	logger.Infof("opened %s: %dx%d %.3f fps, %d frames",
		path, info.Width, info.Height, info.FPS, info.NumFrames)
	return info, nil
}

// Close forgets the per-file state.
func (d *Decoder) Close(path string) error {
	delete(d.files, path)
	return nil
}

// Frame extracts the frame at idx as raw RGBA. Seeking is done slightly
// before the target timestamp and the exact frame selected by index to stay
// frame-accurate across codecs with sparse keyframes.
func (d *Decoder) Frame(ctx context.Context, path string, idx int) (*frame.Frame, error) {
	info, ok := d.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", decoder.ErrNotOpen, path)
	}
	if idx < 0 || (info.NumFrames > 0 && idx >= info.NumFrames) {
		return nil, fmt.Errorf("%w: %d of %d", decoder.ErrOutOfRange, idx, info.NumFrames)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", path,
		"-vf", fmt.Sprintf("select=eq(n\\,%d)", idx),
		"-vframes", "1",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-",
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg %s frame %d: %w: %s", path, idx, err, stderr.String())
	}

	data := stdout.Bytes()
	want := info.Width * info.Height * frame.BytesPerPixel
	if len(data) != want {
		return nil, fmt.Errorf("ffmpeg %s frame %d: got %d bytes, want %d", path, idx, len(data), want)
	}

	f := frame.New(idx, path)
	f.NumFrames = info.NumFrames
	f.FPS = info.FPS
	f.Width = info.Width
	f.Height = info.Height
	f.Stride = info.Width * frame.BytesPerPixel
	f.Data = data
	f.TSMicro = uint64(math.Round(float64(idx) / info.FPS * 1e6))
	f.Timestamp = f.TSMicro / 1000
	return f, nil
}

// parseProbe decodes the csv line "width,height,num/den,packets".
func parseProbe(s string) (decoder.Info, error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	if len(fields) < 4 {
		return decoder.Info{}, fmt.Errorf("unexpected probe output %q", s)
	}

	var info decoder.Info
	var err error
	if info.Width, err = strconv.Atoi(fields[0]); err != nil {
		return decoder.Info{}, fmt.Errorf("width: %w", err)
	}
	if info.Height, err = strconv.Atoi(fields[1]); err != nil {
		return decoder.Info{}, fmt.Errorf("height: %w", err)
	}
	if info.FPS, err = parseRate(fields[2]); err != nil {
		return decoder.Info{}, err
	}
	if info.NumFrames, err = strconv.Atoi(fields[3]); err != nil {
		return decoder.Info{}, fmt.Errorf("frame count: %w", err)
	}
	return info, nil
}

// parseRate decodes an ffprobe rational like "30000/1001".
func parseRate(s string) (float64, error) {
	num, den, found := strings.Cut(s, "/")
	if !found {
		return strconv.ParseFloat(s, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("frame rate %q: %w", s, err)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("frame rate %q: bad denominator", s)
	}
	return n / d, nil
}
