package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tracksplit/internal/config"
	"tracksplit/internal/testsupport"
)

// ffprobeStub reports 6 seconds of 1 kHz mono audio.
const ffprobeStub = `#!/bin/sh
cat <<'JSON'
{
  "streams": [{"index": 0, "codec_name": "mp3", "codec_type": "audio", "sample_rate": "1000", "channels": 1}],
  "format": {"duration": "6.000000", "size": "96000", "bit_rate": "128000", "format_name": "mp3"}
}
JSON
`

// ffmpegStub decodes to 6 seconds of silence and copies encoder stdin to the
// output path, which is always the last argument.
const ffmpegStub = `#!/bin/sh
for last; do :; done
if [ "$last" = "pipe:1" ]; then
  head -c 12000 /dev/zero
  exit 0
fi
cat > "$last"
`

const cliDescriptor = `{
  "title": "Garage Session",
  "dateRecorded": "2024-05-04",
  "tracks": [
    {"title": "Warm Up", "startTime": "00:00:00.000"},
    {"title": "Main Set", "startTime": "00:00:02.500", "endTime": "00:00:05.000"},
    {"title": "Jam", "startTime": "00:00:05.000", "outputFile": "jam.mp3"}
  ]
}`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	input      string
	descriptor string
	outDir     string
}

func setupCLITestEnv(t *testing.T, history bool) *cliTestEnv {
	t.Helper()

	var opts []testsupport.ConfigOption
	if history {
		opts = append(opts, testsupport.WithHistory())
	}
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	binDir := filepath.Join(base, "bin")
	cfg.Audio.FFprobeBinary = writeStub(t, filepath.Join(binDir, "ffprobe"), ffprobeStub)
	cfg.Audio.FFmpegBinary = writeStub(t, filepath.Join(binDir, "ffmpeg"), ffmpegStub)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	input := filepath.Join(base, "session.mp3")
	testsupport.WriteFile(t, input, 96000)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		input:      input,
		descriptor: testsupport.WriteText(t, filepath.Join(base, "session.json"), cliDescriptor),
		outDir:     filepath.Join(base, "out"),
	}
}

func writeStub(t *testing.T, path, script string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir stub dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", path, err)
	}
	return path
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\n\n[audio]\nffmpeg_binary = %q\nffprobe_binary = %q\n\n[history]\nenabled = %t\npath = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.DataDir,
		cfg.Audio.FFmpegBinary,
		cfg.Audio.FFprobeBinary,
		cfg.History.Enabled,
		cfg.History.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
