package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"tracksplit/internal/pcm"
)

// DefaultBitrate is the constant bitrate used for exported tracks.
const DefaultBitrate = "128k"

// Runner executes ffmpeg with the supplied stdin, returning stdout.
type Runner func(ctx context.Context, binary string, args []string, stdin []byte) ([]byte, error)

// Codec decodes and encodes audio through an ffmpeg binary.
type Codec struct {
	Binary string
	run    Runner
}

// New returns a Codec that executes binary ("ffmpeg" when empty).
func New(binary string) *Codec {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Codec{Binary: binary, run: execRunner}
}

// WithRunner replaces command execution, primarily for tests.
func (c *Codec) WithRunner(run Runner) *Codec {
	clone := *c
	clone.run = run
	return &clone
}

// Decode reads path fully into memory as s16le PCM at the given sample rate and
// channel count.
func (c *Codec) Decode(ctx context.Context, path string, sampleRate, channels int) (pcm.Buffer, error) {
	if sampleRate <= 0 || channels <= 0 {
		return pcm.Buffer{}, fmt.Errorf("ffmpeg decode: invalid layout %d Hz x %d channels", sampleRate, channels)
	}
	args := DecodeArgs(path, sampleRate, channels)
	out, err := c.run(ctx, c.Binary, args, nil)
	if err != nil {
		return pcm.Buffer{}, fmt.Errorf("ffmpeg decode %s: %w", path, err)
	}
	return pcm.FromBytes(out, sampleRate, channels), nil
}

// Encode writes buf to path as MP3 at bitrate, replacing any existing file.
func (c *Codec) Encode(ctx context.Context, buf pcm.Buffer, path, bitrate string) error {
	if buf.SampleRate <= 0 || buf.Channels <= 0 {
		return errors.New("ffmpeg encode: buffer has no sample layout")
	}
	if strings.TrimSpace(bitrate) == "" {
		bitrate = DefaultBitrate
	}
	args := EncodeArgs(path, buf.SampleRate, buf.Channels, bitrate)
	if _, err := c.run(ctx, c.Binary, args, buf.Bytes()); err != nil {
		return fmt.Errorf("ffmpeg encode %s: %w", path, err)
	}
	return nil
}

// DecodeArgs builds the argument list that decodes path to s16le on stdout.
func DecodeArgs(path string, sampleRate, channels int) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vn",
		"-ac", strconv.Itoa(channels),
		"-ar", strconv.Itoa(sampleRate),
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"pipe:1",
	}
}

// EncodeArgs builds the argument list that encodes s16le stdin to an MP3 file.
// The mp3 muxer is forced so explicit output names with other extensions
// still receive MP3 data.
func EncodeArgs(path string, sampleRate, channels int, bitrate string) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-f", "s16le",
		"-ar", strconv.Itoa(sampleRate),
		"-ac", strconv.Itoa(channels),
		"-i", "pipe:0",
		"-c:a", "libmp3lame",
		"-b:a", bitrate,
		"-f", "mp3",
		"-y",
		path,
	}
}

func execRunner(ctx context.Context, binary string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
