// Package main hosts the tracksplit CLI entrypoint and command graph.
//
// The root command performs a split: it takes the recording, the JSON
// descriptor and the output directory as positional arguments. Subcommands
// preview a plan, report dependency status, scaffold configuration, and list
// recorded runs. Configuration resolution and logger setup happen once in the
// command context so subcommands only deal with presentation.
package main
