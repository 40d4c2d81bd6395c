package splitter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tracksplit/internal/clock"
	"tracksplit/internal/config"
	"tracksplit/internal/export"
	"tracksplit/internal/failure"
	"tracksplit/internal/history"
	"tracksplit/internal/logging"
	"tracksplit/internal/loudness"
	"tracksplit/internal/manifest"
	"tracksplit/internal/media/ffmpeg"
	"tracksplit/internal/media/ffprobe"
	"tracksplit/internal/pcm"
	"tracksplit/internal/segment"
	"tracksplit/internal/splitspec"
)

// Prober reads container metadata for the input recording.
type Prober interface {
	Probe(ctx context.Context, path string) (ffprobe.Result, error)
}

// Codec decodes the recording to PCM and encodes tracks.
type Codec interface {
	export.Encoder
	Decode(ctx context.Context, path string, sampleRate, channels int) (pcm.Buffer, error)
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// Probe implements Prober.
func (f ProberFunc) Probe(ctx context.Context, path string) (ffprobe.Result, error) {
	return f(ctx, path)
}

// Options wires a Splitter. Prober and Codec default to the configured
// ffprobe and ffmpeg binaries.
type Options struct {
	Config *config.Config
	Logger *slog.Logger
	Prober Prober
	Codec  Codec
	// History overrides the store opened from config.
	History *history.Store
}

// Splitter executes split runs.
type Splitter struct {
	cfg     *config.Config
	logger  *slog.Logger
	prober  Prober
	codec   Codec
	history *history.Store
}

// Request names the three inputs of a run.
type Request struct {
	InputPath      string
	DescriptorPath string
	OutputDir      string
}

// Result summarizes a completed run.
type Result struct {
	RunID        string
	Title        string
	DurationMs   int64
	GainDB       float64
	Segments     []segment.Segment
	Anomalies    []segment.Anomaly
	Written      []export.Written
	Manifest     manifest.Manifest
	ManifestPath string
}

// New validates opts and returns a Splitter.
func New(opts Options) (*Splitter, error) {
	if opts.Config == nil {
		return nil, failure.Wrap(failure.ErrConfiguration, "splitter", "new", "config is required", nil)
	}
	cfg := opts.Config
	prober := opts.Prober
	if prober == nil {
		binary := cfg.Audio.FFprobeBinary
		prober = ProberFunc(func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, binary, path)
		})
	}
	codec := opts.Codec
	if codec == nil {
		codec = ffmpeg.New(cfg.Audio.FFmpegBinary)
	}
	return &Splitter{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(opts.Logger, "splitter"),
		prober:  prober,
		codec:   codec,
		history: opts.History,
	}, nil
}

// Run splits req.InputPath into the tracks described by req.DescriptorPath.
func (s *Splitter) Run(ctx context.Context, req Request) (result Result, err error) {
	started := time.Now()
	result.RunID = uuid.NewString()
	logger := logging.WithRunID(s.logger, result.RunID)

	req, err = normalizeRequest(req)
	if err != nil {
		return result, err
	}
	logger.Info("split started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("input", req.InputPath),
		logging.String("descriptor", req.DescriptorPath),
		logging.String("output_dir", req.OutputDir),
	)
	defer func() {
		s.finish(ctx, logger, req, result, err, started)
	}()

	spec, err := splitspec.Load(req.DescriptorPath)
	if err != nil {
		return result, err
	}
	result.Title = spec.Title

	if err := checkInput(req.InputPath); err != nil {
		return result, err
	}
	if err := s.preflight(logger, req.OutputDir); err != nil {
		return result, err
	}

	lock, err := acquireOutputLock(s.cfg.LockDir(), req.OutputDir)
	if err != nil {
		return result, err
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("release output lock failed", logging.Error(unlockErr))
		}
	}()

	probe, err := s.prober.Probe(ctx, req.InputPath)
	if err != nil {
		return result, failure.Wrap(failure.ErrExternalTool, "probe", "ffprobe", req.InputPath, err)
	}
	rate, channels, err := s.layout(probe)
	if err != nil {
		return result, err
	}
	logger.Info("input probed",
		logging.Int("audio_streams", probe.AudioStreamCount()),
		logging.Bool("native_layout", s.cfg.Audio.SampleRate <= 0 || s.cfg.Audio.Channels <= 0),
		logging.Int64("bitrate_kbps", probe.BitRateKbps()),
		logging.Int("sample_rate", rate),
		logging.Int("channels", channels),
		logging.Int64("size_bytes", probe.SizeBytes()),
	)

	audio, err := s.codec.Decode(ctx, req.InputPath, rate, channels)
	if err != nil {
		return result, failure.Wrap(failure.ErrExternalTool, "decode", "ffmpeg", req.InputPath, err)
	}
	result.DurationMs = audio.DurationMs()

	target := s.cfg.Audio.TargetDBFS
	if gain, ok := loudness.GainFor(audio, target); ok {
		result.GainDB = gain
		logger.Info("normalizing loudness",
			logging.Float64("source_dbfs", audio.DBFS()),
			logging.Float64("target_dbfs", target),
			logging.Float64("gain_db", gain),
		)
	} else {
		logging.WarnWithContext(logger, "input is silent; skipping normalization", "silent_input",
			logging.String(logging.FieldImpact, "tracks are exported without gain"),
		)
	}
	audio = loudness.Normalize(audio, target)

	segments, err := segment.Resolve(spec.Tracks, result.DurationMs, s.cfg.Audio.Extension)
	if err != nil {
		return result, err
	}
	result.Segments = segments
	result.Anomalies = segment.Inspect(segments, result.DurationMs)
	for _, anomaly := range result.Anomalies {
		logging.WarnWithContext(logger, "suspicious track range", "segment_anomaly",
			logging.Alert("segment_anomaly"),
			logging.Int(logging.FieldTrackIndex, anomaly.Index),
			logging.String("kind", string(anomaly.Kind)),
			logging.String("detail", anomaly.Detail),
			logging.String(logging.FieldErrorHint, "check the descriptor timestamps"),
			logging.String(logging.FieldImpact, "track is exported as described"),
		)
	}

	exporter := export.New(s.codec, export.Options{
		OutputDir:       req.OutputDir,
		Bitrate:         s.cfg.Audio.Bitrate,
		SourceSizeBytes: probe.SizeBytes(),
		Logger:          logger,
	})
	written := make([]export.Written, 0, len(segments))
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		w, err := exporter.Export(ctx, seg, audio)
		if err != nil {
			result.Written = written
			return result, err
		}
		written = append(written, w)
		logger.Info("track exported",
			logging.Int(logging.FieldTrackIndex, seg.Index),
			logging.Int(logging.FieldTrackCount, len(segments)),
			logging.String("file", seg.FileName),
			logging.String("title", seg.Title),
			logging.String("duration", clock.FormatDisplay(w.DurationMs)),
		)
	}
	result.Written = written

	result.Manifest = manifest.Build(spec.Title, spec.DateRecorded, written)
	result.ManifestPath = filepath.Join(req.OutputDir, manifest.FileName)
	if err := manifest.Write(result.ManifestPath, result.Manifest); err != nil {
		return result, err
	}
	return result, nil
}

func normalizeRequest(req Request) (Request, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"input", &req.InputPath},
		{"descriptor", &req.DescriptorPath},
		{"output directory", &req.OutputDir},
	}
	for _, field := range fields {
		trimmed := strings.TrimSpace(*field.value)
		if trimmed == "" {
			return req, failure.Wrap(failure.ErrConfiguration, "splitter", "request", field.name+" path is required", nil)
		}
		abs, err := filepath.Abs(trimmed)
		if err != nil {
			return req, failure.Wrap(failure.ErrIO, "splitter", "request", trimmed, err)
		}
		*field.value = abs
	}
	return req, nil
}

// checkInput confirms the recording is a readable regular file before any
// output is created.
func checkInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return failure.Wrap(failure.ErrIO, "input", "stat", path, err)
	}
	if info.IsDir() {
		return failure.Wrap(failure.ErrIO, "input", "stat", path+" is a directory", nil)
	}
	f, err := os.Open(path)
	if err != nil {
		return failure.Wrap(failure.ErrIO, "input", "open", path, err)
	}
	return f.Close()
}

// layout picks the decode sample rate and channel count, falling back to the
// input's native layout when config leaves them at 0.
func (s *Splitter) layout(probe ffprobe.Result) (int, int, error) {
	rate := s.cfg.Audio.SampleRate
	channels := s.cfg.Audio.Channels
	if rate > 0 && channels > 0 {
		return rate, channels, nil
	}
	stream, ok := probe.PrimaryAudio()
	if !ok {
		return 0, 0, failure.Wrap(failure.ErrFormat, "probe", "layout", "input has no audio stream", nil)
	}
	if rate <= 0 {
		rate = stream.SampleRateHz()
	}
	if channels <= 0 {
		channels = stream.Channels
	}
	if rate <= 0 || channels <= 0 {
		return 0, 0, failure.Wrap(failure.ErrFormat, "probe", "layout",
			fmt.Sprintf("cannot determine layout (%d Hz, %d channels)", rate, channels), nil)
	}
	return rate, channels, nil
}

func (s *Splitter) finish(ctx context.Context, logger *slog.Logger, req Request, result Result, runErr error, started time.Time) {
	elapsed := time.Since(started)
	if runErr != nil {
		logging.ErrorWithContext(logger, "split failed", "run_failed",
			logging.Alert("run_failed"),
			logging.String(logging.FieldErrorKind, failure.Kind(runErr)),
			logging.Int(logging.FieldTrackCount, len(result.Written)),
			logging.Duration("elapsed", elapsed),
			logging.Error(runErr),
		)
	} else {
		logger.Info("split completed",
			logging.String(logging.FieldEventType, "run_complete"),
			logging.Int(logging.FieldTrackCount, len(result.Written)),
			logging.String("manifest", result.ManifestPath),
			logging.Duration("elapsed", elapsed),
		)
	}
	s.record(context.WithoutCancel(ctx), logger, req, result, runErr, started)
}

func ensureOutputDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return failure.Wrap(failure.ErrIO, "preflight", "create output directory", path, err)
	}
	return nil
}
