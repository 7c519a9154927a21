package synth

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raceview/frameengine/pkg/frame"
	"github.com/raceview/frameengine/pkg/motion"
)

func testFrame(num int, w, h int, fill func(x, y int) byte) *frame.Frame {
	f := frame.New(num, "race.mp4")
	f.Width, f.Height, f.Stride = w, h, w*frame.BytesPerPixel
	f.NumFrames = 100
	f.FPS = 25
	f.Data = make([]byte, h*f.Stride)
	f.Timestamp = uint64(num) * 40
	f.TSMicro = uint64(num) * 40000
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := fill(x, y)
			i := y*f.Stride + x*frame.BytesPerPixel
			f.Data[i], f.Data[i+1], f.Data[i+2], f.Data[i+3] = v, v, v, 255
		}
	}
	return f
}

func noiseTex(x, y int) byte {
	h := uint32(x)*0x1f1f1f1f ^ uint32(y)*0x9e3779b9
	h ^= h >> 13
	h *= 0x85ebca6b
	h ^= h >> 16
	return byte(h)
}

func roiAll(f *frame.Frame) image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

func TestInterpolateEndpointsAreIdentity(t *testing.T) {
	a := testFrame(10, 32, 16, func(x, y int) byte { return noiseTex(x, y) })
	b := testFrame(11, 32, 16, func(x, y int) byte { return noiseTex(x+3, y) })
	s := New(nil)

	res, err := s.Interpolate(a, b, 0, roiAll(a), true)
	require.NoError(t, err)
	assert.Equal(t, a.Data, res.Blended.Data, "pct=0 blend must be pixel-identical to A")

	res, err = s.Interpolate(a, b, 1, roiAll(a), true)
	require.NoError(t, err)
	assert.Equal(t, b.Data, res.Blended.Data, "pct=1 blend must be pixel-identical to B")
}

func TestInterpolateTimestampMidpoint(t *testing.T) {
	a := testFrame(25, 16, 8, func(x, y int) byte { return 100 })
	b := testFrame(26, 16, 8, func(x, y int) byte { return 200 })
	a.Timestamp, a.TSMicro = 1000, 1000000
	b.Timestamp, b.TSMicro = 1100, 1100000

	res, err := New(nil).Interpolate(a, b, 0.5, roiAll(a), true)
	require.NoError(t, err)

	assert.EqualValues(t, 1050, res.Blended.Timestamp)
	assert.EqualValues(t, 1050000, res.Blended.TSMicro)
	assert.Equal(t, 25.5, res.Blended.FrameNum)
	assert.Equal(t, frame.FormatKey("race.mp4", 25.5, false), res.Blended.Key)
	assert.Equal(t, a.FPS, res.Blended.FPS)
	assert.Equal(t, a.NumFrames, res.Blended.NumFrames)
}

func TestInterpolateBlendMixesChannels(t *testing.T) {
	a := testFrame(0, 4, 4, func(x, y int) byte { return 100 })
	b := testFrame(1, 4, 4, func(x, y int) byte { return 200 })

	res, err := New(nil).Interpolate(a, b, 0.25, roiAll(a), true)
	require.NoError(t, err)

	// 100 + 0.25*(200-100) = 125 on color channels, alpha stays 255.
	assert.EqualValues(t, 125, res.Blended.Data[0])
	assert.EqualValues(t, 255, res.Blended.Data[3])
}

func TestInterpolateDimensionMismatch(t *testing.T) {
	a := testFrame(0, 32, 16, func(x, y int) byte { return 0 })
	b := testFrame(1, 16, 16, func(x, y int) byte { return 0 })

	res, err := New(nil).Interpolate(a, b, 0.5, roiAll(a), true)

	require.Error(t, err)
	assert.Nil(t, res.Blended)
	assert.Nil(t, res.Shifted)
}

func TestInterpolatePctOutOfRange(t *testing.T) {
	a := testFrame(0, 8, 8, func(x, y int) byte { return 0 })
	b := testFrame(1, 8, 8, func(x, y int) byte { return 0 })

	_, err := New(nil).Interpolate(a, b, 1.5, roiAll(a), true)
	assert.Error(t, err)
	_, err = New(nil).Interpolate(a, b, -0.1, roiAll(a), true)
	assert.Error(t, err)
}

func TestShiftedFollowsMotion(t *testing.T) {
	// Content moves 4 px right between frames; at pct 0.5 the shifted frame
	// carries A's pixels displaced by 2.
	a := testFrame(0, 64, 16, func(x, y int) byte { return noiseTex(x, y) })
	b := testFrame(1, 64, 16, func(x, y int) byte { return noiseTex(x-4, y) })

	res, err := New(nil).Interpolate(a, b, 0.5, roiAll(a), false)
	require.NoError(t, err)
	require.True(t, res.Shifted.Motion.Valid)
	assert.Equal(t, 4.0, res.Shifted.Motion.X)
	assert.Nil(t, res.Blended, "blend not requested")

	// Interior pixel: shifted(x) == a(x-2).
	x, y := 32, 8
	i := y*a.Stride + x*frame.BytesPerPixel
	j := y*a.Stride + (x-2)*frame.BytesPerPixel
	assert.Equal(t, a.Data[j], res.Shifted.Data[i])
}

func TestShiftedDegeneratesToCopyOnInvalidMotion(t *testing.T) {
	// Mismatched content in a degenerate roi makes the estimate invalid;
	// the shifted frame must be a plain copy of A at any pct.
	a := testFrame(0, 32, 16, func(x, y int) byte { return noiseTex(x, y) })
	b := testFrame(1, 32, 16, func(x, y int) byte { return noiseTex(x+9, y+3) })
	badROI := image.Rect(200, 0, 220, 16) // outside both frames

	for _, pct := range []float64{0, 0.25, 0.5, 0.9} {
		res, err := New(nil).Interpolate(a, b, pct, badROI, false)
		require.NoError(t, err)
		assert.False(t, res.Shifted.Motion.Valid)
		assert.Equal(t, a.Data, res.Shifted.Data, "pct=%v", pct)
	}
}

func TestShiftedBuffersDoNotAlias(t *testing.T) {
	a := testFrame(0, 16, 8, func(x, y int) byte { return 50 })
	b := testFrame(1, 16, 8, func(x, y int) byte { return 50 })

	res, err := New(motion.NewEstimator()).Interpolate(a, b, 0.5, roiAll(a), true)
	require.NoError(t, err)

	res.Shifted.Data[0] = 99
	res.Blended.Data[1] = 99
	assert.EqualValues(t, 50, a.Data[0], "outputs must own their buffers")
	assert.EqualValues(t, 50, a.Data[1])
}

func BenchmarkInterpolateBlend(b *testing.B) {
	fa := testFrame(0, 640, 120, func(x, y int) byte { return noiseTex(x, y) })
	fb := testFrame(1, 640, 120, func(x, y int) byte { return noiseTex(x-3, y) })
	roi := image.Rect(280, 0, 360, 120)
	s := New(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Interpolate(fa, fb, 0.5, roi, true); err != nil {
			b.Fatal(err)
		}
	}
}
