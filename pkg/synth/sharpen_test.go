package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raceview/frameengine/pkg/frame"
)

func TestSharpenEnhancesEdges(t *testing.T) {
	// Step edge: left half dark, right half bright.
	f := testFrame(0, 16, 8, func(x, y int) byte {
		if x < 8 {
			return 64
		}
		return 192
	})
	before := make([]byte, len(f.Data))
	copy(before, f.Data)

	require.NoError(t, Sharpen(f))

	assert.NotEqual(t, before, f.Data, "edge content must change")
	// The bright side of the edge overshoots, the dark side undershoots.
	y := 4
	dark := f.Data[y*f.Stride+7*frame.BytesPerPixel]
	bright := f.Data[y*f.Stride+8*frame.BytesPerPixel]
	assert.Less(t, dark, byte(64))
	assert.Greater(t, bright, byte(192))
}

func TestSharpenFlatRegionUnchanged(t *testing.T) {
	f := testFrame(0, 8, 8, func(x, y int) byte { return 128 })
	before := make([]byte, len(f.Data))
	copy(before, f.Data)

	require.NoError(t, Sharpen(f))

	assert.Equal(t, before, f.Data, "kernel sums to one, flat content is a fixed point")
}

func TestSharpenNotIdempotent(t *testing.T) {
	mk := func() *frame.Frame {
		return testFrame(0, 16, 8, func(x, y int) byte {
			if x < 8 {
				return 100
			}
			return 160
		})
	}

	once := mk()
	require.NoError(t, Sharpen(once))

	twice := mk()
	require.NoError(t, Sharpen(twice))
	require.NoError(t, Sharpen(twice))

	assert.NotEqual(t, once.Data, twice.Data, "re-applying must increase sharpening artifacts")
}

func TestSharpenMalformedBuffer(t *testing.T) {
	f := frame.New(0, "race.mp4")
	f.Width, f.Height, f.Stride = 8, 8, 8*frame.BytesPerPixel

	assert.Error(t, Sharpen(f), "missing buffer must fail")

	f.Data = make([]byte, 8*f.Stride-4)
	before := make([]byte, len(f.Data))
	copy(before, f.Data)
	assert.Error(t, Sharpen(f), "inconsistent buffer must fail")
	assert.Equal(t, before, f.Data, "failed call must leave the buffer unmodified")
}

func BenchmarkSharpen(b *testing.B) {
	f := testFrame(0, 640, 120, func(x, y int) byte { return noiseTex(x, y) })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := Sharpen(f); err != nil {
			b.Fatal(err)
		}
	}
}
