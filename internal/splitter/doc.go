// Package splitter runs one split end to end: descriptor, preflight, output
// lock, probe, decode, normalize, segment resolution, export, manifest and
// history.
//
// A Splitter is built once from config and can serve several runs. Every
// run gets its own id, stamped on every log record. Any error aborts the
// run; tracks already written stay on disk, and manifest.json is only
// written when every export succeeded.
//
// The codec dependencies are interfaces so tests can drive the pipeline
// with in-memory fakes instead of ffmpeg.
package splitter
