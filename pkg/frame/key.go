package frame

import (
	"fmt"
	"strconv"
)

// FormatKey derives the canonical identity of a frame from its source file,
// its fractional position and the zoom state. The position is fixed to six
// decimal digits so that equal positions always format to equal keys.
// Every component that constructs or looks up a frame must go through this
// function, otherwise cache hits across call sites are not possible.
func FormatKey(file string, frameNum float64, hasZoom bool) string {
	if hasZoom {
		return fmt.Sprintf("%s-%.6f-z", file, frameNum)
	}
	return fmt.Sprintf("%s-%.6f", file, frameNum)
}

// ParseKeyPosition extracts the fractional position back out of a key
// produced by FormatKey. Used by diagnostics only; the engine itself always
// carries positions alongside keys.
func ParseKeyPosition(key string) (float64, bool) {
	end := len(key)
	if end > 2 && key[end-2:] == "-z" {
		end -= 2
	}
	// position is everything after the last '-' before the zoom suffix
	start := -1
	for i := end - 1; i >= 0; i-- {
		if key[i] == '-' {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= end {
		return 0, false
	}
	v, err := strconv.ParseFloat(key[start:end], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
