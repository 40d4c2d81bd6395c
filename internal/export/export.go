// Package export materializes resolved segments as encoded track files.
package export

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"tracksplit/internal/failure"
	"tracksplit/internal/logging"
	"tracksplit/internal/pcm"
	"tracksplit/internal/segment"
)

// Encoder writes a PCM buffer to path at a constant bitrate.
type Encoder interface {
	Encode(ctx context.Context, buf pcm.Buffer, path, bitrate string) error
}

// Options configures an Exporter.
type Options struct {
	OutputDir string
	Bitrate   string
	// SourceSizeBytes enables the diagnostic byte-offset estimate.
	SourceSizeBytes int64
	Logger          *slog.Logger
}

// Exporter slices segments out of the normalized recording and encodes them.
type Exporter struct {
	encoder   Encoder
	outputDir string
	bitrate   string
	size      int64
	logger    *slog.Logger
}

// Written records a segment file that reached disk.
type Written struct {
	Segment segment.Segment
	Path    string
	// DurationMs is the length of the audio actually encoded, after clamping.
	DurationMs int64
}

// New builds an Exporter around encoder.
func New(encoder Encoder, opts Options) *Exporter {
	return &Exporter{
		encoder:   encoder,
		outputDir: opts.OutputDir,
		bitrate:   opts.Bitrate,
		size:      opts.SourceSizeBytes,
		logger:    logging.NewComponentLogger(opts.Logger, "export"),
	}
}

// Export encodes audio[seg.StartMs:seg.EndMs] to OutputDir/seg.FileName,
// overwriting any existing file. audio is only read.
func (e *Exporter) Export(ctx context.Context, seg segment.Segment, audio pcm.Buffer) (Written, error) {
	track := audio.Slice(seg.StartMs, seg.EndMs)
	path := filepath.Join(e.outputDir, seg.FileName)

	attrs := []logging.Attr{
		logging.Int(logging.FieldTrackIndex, seg.Index),
		logging.String("file", seg.FileName),
		logging.Int64("start_ms", seg.StartMs),
		logging.Int64("end_ms", seg.EndMs),
	}
	if startByte, endByte, ok := EstimateByteRange(e.size, audio.DurationMs(), seg); ok {
		attrs = append(attrs, logging.Int64("start_byte", startByte), logging.Int64("end_byte", endByte))
	}
	e.logger.Debug("encoding segment", logging.Args(attrs...)...)

	if err := checkDestination(path); err != nil {
		return Written{}, err
	}
	if err := e.encoder.Encode(ctx, track, path, e.bitrate); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return Written{}, failure.Wrap(failure.ErrIO, "export", "write", path, err)
		}
		return Written{}, failure.Wrap(failure.ErrExternalTool, "export", "encode", path, err)
	}
	return Written{Segment: seg, Path: path, DurationMs: track.DurationMs()}, nil
}

// checkDestination requires the track's parent directory to exist. Explicit
// output file names may point into subdirectories, which are not created.
func checkDestination(path string) error {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		return failure.Wrap(failure.ErrIO, "export", "write", path, err)
	}
	if !info.IsDir() {
		return failure.Wrap(failure.ErrIO, "export", "write", dir+" is not a directory", nil)
	}
	return nil
}

// EstimateByteRange maps a segment onto the source file using the average
// byte rate. The estimate ignores container headers and variable bitrate
// and is only used for diagnostics.
func EstimateByteRange(sizeBytes, durationMs int64, seg segment.Segment) (int64, int64, bool) {
	if sizeBytes <= 0 || durationMs <= 0 {
		return 0, 0, false
	}
	rate := float64(sizeBytes) / float64(durationMs)
	return int64(float64(seg.StartMs) * rate), int64(float64(seg.EndMs) * rate), true
}
