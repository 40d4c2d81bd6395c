package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleProbe = `{
  "streams": [
    {"index": 0, "codec_name": "mjpeg", "codec_type": "video"},
    {"index": 1, "codec_name": "mp3", "codec_type": "audio", "sample_rate": "44100", "channels": 2, "bit_rate": "192000", "duration": "245.812000"}
  ],
  "format": {"filename": "set.mp3", "nb_streams": 2, "duration": "245.812000", "size": "5898240", "bit_rate": "", "format_name": "mp3"}
}`

func TestParseAndHelpers(t *testing.T) {
	result, err := Parse([]byte(sampleProbe))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.AudioStreamCount() != 1 {
		t.Fatalf("expected 1 audio stream, got %d", result.AudioStreamCount())
	}
	stream, ok := result.PrimaryAudio()
	if !ok || stream.Index != 1 {
		t.Fatalf("unexpected primary audio %+v", stream)
	}
	if stream.SampleRateHz() != 44100 || stream.Channels != 2 {
		t.Fatalf("unexpected stream layout %+v", stream)
	}
	if result.DurationMs() != 245812 {
		t.Fatalf("unexpected duration: %d", result.DurationMs())
	}
	if result.SizeBytes() != 5898240 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 192000 || result.BitRateKbps() != 192 {
		t.Fatalf("expected stream bitrate fallback, got %d", result.BitRate())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.DurationMs() != 0 {
		t.Fatalf("expected duration 0ms, got %d", result.DurationMs())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
	if _, ok := result.PrimaryAudio(); ok {
		t.Fatal("expected no primary audio")
	}
}

func TestInspectUsesBinary(t *testing.T) {
	dir := t.TempDir()
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat <<'JSON'\n" + sampleProbe + "\nJSON\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	result, err := Inspect(context.Background(), stub, "/music/set.mp3")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.Format.FormatName != "mp3" {
		t.Fatalf("unexpected format %q", result.Format.FormatName)
	}

	if _, err := Inspect(context.Background(), stub, "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
