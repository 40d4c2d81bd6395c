// Package manifest assembles and persists the JSON document that lists every
// exported track of a run.
//
// Track durations are whole seconds rounded up (CeilSeconds). This differs on
// purpose from the MM:SS display rounding in package clock.
package manifest
