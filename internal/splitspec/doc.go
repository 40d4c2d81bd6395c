// Package splitspec loads the JSON split descriptor: the recording title, its
// opaque recording date, and the ordered track list with start times and
// optional end times or explicit output file names.
//
// Optional keys are tracked by presence. Load reports a missing required key
// with the JSON path of the offending field so users can fix the descriptor
// directly.
package splitspec
