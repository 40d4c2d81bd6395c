package splitter

import (
	"context"

	"tracksplit/internal/failure"
	"tracksplit/internal/segment"
	"tracksplit/internal/splitspec"
)

// Plan is the resolved layout of a split, computed without decoding.
type Plan struct {
	Title        string
	DateRecorded string
	DurationMs   int64
	Segments     []segment.Segment
	Anomalies    []segment.Anomaly
}

// Plan probes the input duration and resolves the descriptor against it.
// Nothing is decoded or written.
func (s *Splitter) Plan(ctx context.Context, inputPath, descriptorPath string) (Plan, error) {
	spec, err := splitspec.Load(descriptorPath)
	if err != nil {
		return Plan{}, err
	}
	if err := checkInput(inputPath); err != nil {
		return Plan{}, err
	}
	probe, err := s.prober.Probe(ctx, inputPath)
	if err != nil {
		return Plan{}, failure.Wrap(failure.ErrExternalTool, "probe", "ffprobe", inputPath, err)
	}
	total := probe.DurationMs()
	segments, err := segment.Resolve(spec.Tracks, total, s.cfg.Audio.Extension)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Title:        spec.Title,
		DateRecorded: spec.DateRecorded,
		DurationMs:   total,
		Segments:     segments,
		Anomalies:    segment.Inspect(segments, total),
	}, nil
}
