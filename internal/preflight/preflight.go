package preflight

import (
	"errors"
	"fmt"
	"strings"

	"tracksplit/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the codec checks and, when outputDir is set, the output
// directory access check.
func RunAll(cfg *config.Config, outputDir string) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result
	for _, status := range CheckSystemDeps(cfg) {
		detail := status.Command
		if !status.Available {
			detail = status.Detail
		}
		results = append(results, Result{Name: status.Name, Passed: status.Available || status.Optional, Detail: detail})
	}
	if strings.TrimSpace(outputDir) != "" {
		results = append(results, CheckDirectoryAccess("Output directory", outputDir))
	}
	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	}
	return results
}

// Err joins every failed result into one error, or returns nil.
func Err(results []Result) error {
	var errs []error
	for _, r := range results {
		if !r.Passed {
			errs = append(errs, fmt.Errorf("%s: %s", r.Name, r.Detail))
		}
	}
	return errors.Join(errs...)
}
