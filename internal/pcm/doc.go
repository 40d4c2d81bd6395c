// Package pcm holds decoded audio as interleaved signed 16-bit samples and the
// whole-buffer operations the splitter needs: millisecond length, slicing,
// loudness measurement and uniform gain.
//
// Buffers are values; every operation returns a new buffer and leaves the
// receiver's samples untouched, so one decoded recording can be shared
// read-only across every segment export.
package pcm
