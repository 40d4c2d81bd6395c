// Package preflight provides readiness checks for the binaries and
// directories a split run depends on.
//
// These checks run in two contexts:
//   - The splitter calls RunAll before decoding so a run with a missing
//     codec or an unwritable output directory fails before any work.
//   - The CLI "tracksplit check" command displays the same results.
package preflight
