// Package failure defines the error markers shared by every tracksplit stage.
//
// Each marker names one failure class (malformed input, missing descriptor
// keys, file-system errors, external tool failures, configuration problems,
// lock contention). Stages tag their errors with Wrap so callers can branch
// with errors.Is while the message still carries the stage and operation that
// failed. Kind maps any error back to a short stable label for logs and the
// run history.
package failure
