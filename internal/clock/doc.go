// Package clock converts between the HH:MM:SS.ffffff timestamps users write
// in split descriptors and integer millisecond offsets.
//
// Parse truncates to whole milliseconds, Format renders millisecond precision,
// and FormatDisplay renders the rounded MM:SS form used for human-facing
// durations.
package clock
