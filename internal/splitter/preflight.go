package splitter

import (
	"log/slog"
	"strings"

	"tracksplit/internal/deps"
	"tracksplit/internal/failure"
	"tracksplit/internal/logging"
	"tracksplit/internal/preflight"
)

// preflight confirms the codec binaries resolve and the output directory
// exists with read/write access, creating it when missing.
func (s *Splitter) preflight(logger *slog.Logger, outputDir string) error {
	statuses := preflight.CheckSystemDeps(s.cfg)
	for _, status := range statuses {
		logPreflight(logger, preflight.Result{Name: status.Name, Passed: status.Available, Detail: statusDetail(status)})
	}
	if missing := deps.Missing(statuses); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, status := range missing {
			names = append(names, status.Name+" ("+status.Detail+")")
		}
		return failure.Wrap(failure.ErrExternalTool, "preflight", "dependencies", strings.Join(names, "; "), nil)
	}

	if err := ensureOutputDir(outputDir); err != nil {
		return err
	}
	access := preflight.CheckDirectoryAccess("Output directory", outputDir)
	logPreflight(logger, access)
	if !access.Passed {
		return failure.Wrap(failure.ErrIO, "preflight", "output directory", access.Detail, nil)
	}

	if err := s.cfg.EnsureDirectories(); err != nil {
		return failure.Wrap(failure.ErrIO, "preflight", "data directory", s.cfg.Paths.DataDir, err)
	}
	return nil
}

func statusDetail(status deps.Status) string {
	if status.Available {
		return status.Command
	}
	return status.Detail
}

func logPreflight(logger *slog.Logger, r preflight.Result) {
	if r.Passed {
		logger.Debug("preflight check passed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldEventType, "preflight_passed"),
		)
		return
	}
	logger.Error("preflight check failed",
		logging.String("check", r.Name),
		logging.String("detail", r.Detail),
		logging.String(logging.FieldEventType, "preflight_failed"),
		logging.String(logging.FieldErrorHint, "fix the reported issue and rerun"),
	)
}
