package pcm

import (
	"encoding/binary"
	"math"
)

// MaxAmplitude is the full-scale magnitude of a signed 16-bit sample.
const MaxAmplitude = 1 << 15

// Buffer is interleaved little-endian s16 audio.
type Buffer struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// FromBytes decodes s16le bytes. A trailing odd byte is dropped.
func FromBytes(data []byte, sampleRate, channels int) Buffer {
	if len(data)%2 != 0 {
		data = data[:len(data)-1]
	}
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
	}
	return Buffer{Samples: samples, SampleRate: sampleRate, Channels: channels}
}

// Bytes encodes the samples as s16le.
func (b Buffer) Bytes() []byte {
	buf := make([]byte, len(b.Samples)*2)
	for i, s := range b.Samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

// Frames returns the number of complete sample frames.
func (b Buffer) Frames() int {
	if b.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Channels
}

// DurationMs returns the buffer length in milliseconds, rounded to nearest
// with ties to even.
func (b Buffer) DurationMs() int64 {
	if b.SampleRate <= 0 {
		return 0
	}
	rate := int64(b.SampleRate)
	scaled := int64(b.Frames()) * 1000
	ms, rem := scaled/rate, scaled%rate
	switch {
	case 2*rem > rate:
		ms++
	case 2*rem == rate && ms%2 == 1:
		ms++
	}
	return ms
}

// Slice returns the frames covering [startMs, endMs). Bounds are clamped to
// the buffer and an inverted range yields an empty buffer.
func (b Buffer) Slice(startMs, endMs int64) Buffer {
	out := Buffer{SampleRate: b.SampleRate, Channels: b.Channels}
	start := b.frameAt(startMs)
	end := b.frameAt(endMs)
	if end <= start {
		out.Samples = []int16{}
		return out
	}
	out.Samples = make([]int16, (end-start)*b.Channels)
	copy(out.Samples, b.Samples[start*b.Channels:end*b.Channels])
	return out
}

func (b Buffer) frameAt(ms int64) int {
	if ms <= 0 || b.SampleRate <= 0 {
		return 0
	}
	frames := b.Frames()
	idx := ms * int64(b.SampleRate) / 1000
	if idx > int64(frames) {
		return frames
	}
	return int(idx)
}

// RMS returns the root mean square over every sample of every channel.
func (b Buffer) RMS() float64 {
	if len(b.Samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range b.Samples {
		v := float64(s)
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(b.Samples)))
}

// DBFS returns loudness relative to full scale. Silence is -Inf.
func (b Buffer) DBFS() float64 {
	rms := b.RMS()
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms/MaxAmplitude)
}

// ApplyGain scales every sample by db decibels, clipping to the int16 range.
func (b Buffer) ApplyGain(db float64) Buffer {
	factor := math.Pow(10, db/20)
	out := Buffer{SampleRate: b.SampleRate, Channels: b.Channels, Samples: make([]int16, len(b.Samples))}
	for i, s := range b.Samples {
		v := math.Round(float64(s) * factor)
		switch {
		case v > math.MaxInt16:
			v = math.MaxInt16
		case v < math.MinInt16:
			v = math.MinInt16
		}
		out.Samples[i] = int16(v)
	}
	return out
}
