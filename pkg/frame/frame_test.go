package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDerivesKey(t *testing.T) {
	f := New(7, "race.mp4")
	assert.Equal(t, "race.mp4-7.000000", f.Key)
	assert.Equal(t, 7.0, f.FrameNum)
	assert.Equal(t, "race.mp4", f.File)
}

func TestValidate(t *testing.T) {
	f := New(0, "race.mp4")
	f.Width, f.Height, f.Stride = 4, 2, 16
	require.Error(t, f.Validate(), "nil buffer must fail")

	f.Data = make([]byte, 2*16)
	require.NoError(t, f.Validate())

	f.Data = make([]byte, 2*16-1)
	assert.Error(t, f.Validate(), "short buffer must fail")

	f.Data = make([]byte, 2*16)
	f.Stride = 15
	assert.Error(t, f.Validate(), "stride below width*4 must fail")
}

func TestCloneDetachesBuffer(t *testing.T) {
	f := New(1, "race.mp4")
	f.Width, f.Height, f.Stride = 1, 1, 4
	f.Data = []byte{1, 2, 3, 4}

	c := f.Clone()
	c.Data[0] = 99
	assert.EqualValues(t, 1, f.Data[0], "clone must not alias the source buffer")
	assert.Equal(t, f.Key, c.Key)
}
