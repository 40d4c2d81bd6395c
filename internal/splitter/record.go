package splitter

import (
	"context"
	"log/slog"
	"time"

	"tracksplit/internal/failure"
	"tracksplit/internal/history"
	"tracksplit/internal/logging"
)

// record stores the run outcome when history is enabled. Failures to record
// are logged and never change the run result.
func (s *Splitter) record(ctx context.Context, logger *slog.Logger, req Request, result Result, runErr error, started time.Time) {
	store := s.history
	if store == nil {
		if !s.cfg.History.Enabled {
			return
		}
		opened, err := history.Open(s.cfg.History.Path)
		if err != nil {
			logging.WarnWithContext(logger, "open history failed", "history_unavailable",
				logging.String("path", s.cfg.History.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "run is not recorded in history"),
			)
			return
		}
		defer opened.Close()
		store = opened
	}

	run := history.Run{
		RunID:          result.RunID,
		InputPath:      req.InputPath,
		DescriptorPath: req.DescriptorPath,
		OutputDir:      req.OutputDir,
		Title:          result.Title,
		TrackCount:     len(result.Written),
		TotalSeconds:   result.Manifest.TotalSeconds(),
		Status:         history.StatusSucceeded,
		StartedAt:      started,
		FinishedAt:     time.Now(),
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.ErrorKind = failure.Kind(runErr)
		run.ErrorMessage = runErr.Error()
	}
	if _, err := store.Record(ctx, run); err != nil {
		logging.WarnWithContext(logger, "record history failed", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run is not recorded in history"),
		)
	}
}
