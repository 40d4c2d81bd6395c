// Package loudness rescales a whole recording to a fixed target loudness
// before it is cut into tracks.
package loudness

import (
	"math"

	"tracksplit/internal/pcm"
)

// DefaultTargetDBFS is the loudness every recording is normalized to.
const DefaultTargetDBFS = -20.0

// GainFor returns the decibel change that moves buf to targetDBFS. Silent
// buffers report ok=false since no finite gain reaches the target.
func GainFor(buf pcm.Buffer, targetDBFS float64) (float64, bool) {
	current := buf.DBFS()
	if math.IsInf(current, 0) || math.IsNaN(current) {
		return 0, false
	}
	return targetDBFS - current, true
}

// Normalize applies one uniform gain across the whole buffer so its RMS
// loudness equals targetDBFS. The input buffer is not modified.
func Normalize(buf pcm.Buffer, targetDBFS float64) pcm.Buffer {
	gain, ok := GainFor(buf, targetDBFS)
	if !ok {
		return buf.ApplyGain(0)
	}
	return buf.ApplyGain(gain)
}
