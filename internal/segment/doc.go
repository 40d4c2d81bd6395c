// Package segment turns the descriptor's track list into concrete millisecond
// ranges and output file names before any audio is touched.
//
// Resolve runs as a single pre-pass: a track without an explicit end borrows
// the next track's start, and the final track runs to the end of the
// recording. Overlapping, inverted or out-of-range timestamps are passed
// through unchanged; Inspect reports them so callers can warn about them.
package segment
