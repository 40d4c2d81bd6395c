package splitter_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"tracksplit/internal/config"
	"tracksplit/internal/failure"
	"tracksplit/internal/history"
	"tracksplit/internal/manifest"
	"tracksplit/internal/media/ffprobe"
	"tracksplit/internal/pcm"
	"tracksplit/internal/segment"
	"tracksplit/internal/splitter"
	"tracksplit/internal/testsupport"
)

const threeTrackDescriptor = `{
  "title": "Live at the Hall",
  "dateRecorded": "2024-03-01",
  "tracks": [
    {"title": "Opening", "startTime": "00:00:00.000"},
    {"title": "Rock & Roll", "startTime": "00:00:03.500"},
    {"title": "Encore", "startTime": "00:00:07.000"}
  ]
}`

type encodeCall struct {
	path    string
	bitrate string
	frames  int
	first   int16
}

type fakeCodec struct {
	audio     pcm.Buffer
	decodeErr error
	failAt    int
	calls     []encodeCall
	rate      int
	channels  int
}

func (f *fakeCodec) Decode(_ context.Context, _ string, sampleRate, channels int) (pcm.Buffer, error) {
	f.rate = sampleRate
	f.channels = channels
	if f.decodeErr != nil {
		return pcm.Buffer{}, f.decodeErr
	}
	return f.audio, nil
}

func (f *fakeCodec) Encode(_ context.Context, buf pcm.Buffer, path, bitrate string) error {
	if f.failAt > 0 && len(f.calls)+1 == f.failAt {
		return errors.New("encoder exploded")
	}
	call := encodeCall{path: path, bitrate: bitrate, frames: buf.Frames()}
	if len(buf.Samples) > 0 {
		call.first = buf.Samples[0]
	}
	f.calls = append(f.calls, call)
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// constantAudio returns mono audio at 1 kHz with every sample at amplitude.
func constantAudio(ms int, amplitude int16) pcm.Buffer {
	buf := pcm.Buffer{SampleRate: 1000, Channels: 1, Samples: make([]int16, ms)}
	for i := range buf.Samples {
		buf.Samples[i] = amplitude
	}
	return buf
}

func probeResult(durationMs int64) ffprobe.Result {
	return ffprobe.Result{
		Streams: []ffprobe.Stream{{Index: 0, CodecType: "audio", SampleRate: "1000", Channels: 1}},
		Format: ffprobe.Format{
			Duration: formatSeconds(durationMs),
			Size:     "160000",
			BitRate:  "128000",
		},
	}
}

func formatSeconds(ms int64) string {
	data, _ := json.Marshal(float64(ms) / 1000)
	return string(data)
}

type fixture struct {
	cfg        *config.Config
	codec      *fakeCodec
	input      string
	descriptor string
	outDir     string
}

func newFixture(t *testing.T, descriptor string, opts ...testsupport.ConfigOption) *fixture {
	t.Helper()
	opts = append([]testsupport.ConfigOption{testsupport.WithStubbedBinaries()}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)

	input := filepath.Join(base, "show.mp3")
	testsupport.WriteFile(t, input, 160000)
	return &fixture{
		cfg:        cfg,
		codec:      &fakeCodec{audio: constantAudio(10000, 1000)},
		input:      input,
		descriptor: testsupport.WriteText(t, filepath.Join(base, "show.json"), descriptor),
		outDir:     filepath.Join(base, "out"),
	}
}

func (f *fixture) splitter(t *testing.T, store *history.Store) *splitter.Splitter {
	t.Helper()
	s, err := splitter.New(splitter.Options{
		Config: f.cfg,
		Prober: splitter.ProberFunc(func(context.Context, string) (ffprobe.Result, error) {
			return probeResult(10000), nil
		}),
		Codec:   f.codec,
		History: store,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func (f *fixture) request() splitter.Request {
	return splitter.Request{InputPath: f.input, DescriptorPath: f.descriptor, OutputDir: f.outDir}
}

func TestRunSplitsThreeTracks(t *testing.T) {
	f := newFixture(t, threeTrackDescriptor)
	result, err := f.splitter(t, nil).Run(context.Background(), f.request())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.RunID == "" {
		t.Fatal("expected run id")
	}
	if result.DurationMs != 10000 {
		t.Fatalf("expected 10000ms, got %d", result.DurationMs)
	}
	if len(f.codec.calls) != 3 {
		t.Fatalf("expected 3 encodes, got %d", len(f.codec.calls))
	}
	wantFiles := []string{"01_opening.mp3", "02_rock_and_roll.mp3", "03_encore.mp3"}
	wantFrames := []int{3500, 3500, 3000}
	var totalFrames int
	for i, call := range f.codec.calls {
		if filepath.Base(call.path) != wantFiles[i] {
			t.Fatalf("call %d: expected %s, got %s", i, wantFiles[i], call.path)
		}
		if call.frames != wantFrames[i] {
			t.Fatalf("call %d: expected %d frames, got %d", i, wantFrames[i], call.frames)
		}
		if call.bitrate != "128k" {
			t.Fatalf("call %d: unexpected bitrate %q", i, call.bitrate)
		}
		// 1000 at -30.3 dBFS lifted to -20 dBFS.
		if call.first < 3270 || call.first > 3285 {
			t.Fatalf("call %d: expected normalized sample near 3277, got %d", i, call.first)
		}
		totalFrames += call.frames
	}
	if totalFrames != 10000 {
		t.Fatalf("expected tracks to cover the recording, got %d frames", totalFrames)
	}

	data, err := os.ReadFile(filepath.Join(f.outDir, manifest.FileName))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var got manifest.Manifest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if got.Title != "Live at the Hall" || got.DateRecorded != "2024-03-01" {
		t.Fatalf("unexpected manifest header: %#v", got)
	}
	wantDurations := []int64{4, 4, 3}
	for i, track := range got.Tracks {
		if track.Index != i+1 || track.File != wantFiles[i] || track.Duration != wantDurations[i] {
			t.Fatalf("track %d: unexpected entry %#v", i, track)
		}
	}
	if result.ManifestPath != filepath.Join(f.outDir, manifest.FileName) {
		t.Fatalf("unexpected manifest path %s", result.ManifestPath)
	}

	entries, err := os.ReadDir(f.outDir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	want := append(append([]string{}, wantFiles...), manifest.FileName)
	sort.Strings(want)
	if len(names) != len(want) {
		t.Fatalf("unexpected output files %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("unexpected output files %v", names)
		}
	}
}

func TestRunUsesNativeLayout(t *testing.T) {
	f := newFixture(t, threeTrackDescriptor)
	if _, err := f.splitter(t, nil).Run(context.Background(), f.request()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.codec.rate != 1000 || f.codec.channels != 1 {
		t.Fatalf("expected native 1000 Hz mono decode, got %d Hz x %d", f.codec.rate, f.codec.channels)
	}
}

func TestRunReportsAnomaliesWithoutFailing(t *testing.T) {
	descriptor := `{
  "title": "Odd",
  "dateRecorded": "2024-03-01",
  "tracks": [
    {"title": "Late", "startTime": "00:00:06.000"},
    {"title": "Early", "startTime": "00:00:02.000"}
  ]
}`
	f := newFixture(t, descriptor)
	result, err := f.splitter(t, nil).Run(context.Background(), f.request())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Anomalies) == 0 {
		t.Fatal("expected anomalies for out-of-order tracks")
	}
	var sawEmpty bool
	for _, a := range result.Anomalies {
		if a.Kind == segment.AnomalyEmpty && a.Index == 1 {
			sawEmpty = true
		}
	}
	if !sawEmpty {
		t.Fatalf("expected first track to be reported empty, got %#v", result.Anomalies)
	}
	if len(result.Manifest.Tracks) != 2 || result.Manifest.Tracks[0].Duration != 0 {
		t.Fatalf("unexpected manifest %#v", result.Manifest)
	}
}

func TestRunFailsOnMissingField(t *testing.T) {
	f := newFixture(t, `{"title": "x", "tracks": []}`)
	_, err := f.splitter(t, nil).Run(context.Background(), f.request())
	if !errors.Is(err, failure.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	if _, statErr := os.Stat(f.outDir); !os.IsNotExist(statErr) {
		t.Fatalf("expected output dir to be untouched, stat err %v", statErr)
	}
}

func TestRunFailsOnMalformedTimestamp(t *testing.T) {
	f := newFixture(t, `{"title": "x", "dateRecorded": "d", "tracks": [{"title": "a", "startTime": "0:0:1"}]}`)
	_, err := f.splitter(t, nil).Run(context.Background(), f.request())
	if !errors.Is(err, failure.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if len(f.codec.calls) != 0 {
		t.Fatal("expected no exports")
	}
}

func TestRunFailsWhenCodecMissing(t *testing.T) {
	f := newFixture(t, threeTrackDescriptor)
	f.cfg.Audio.FFmpegBinary = "clearly-missing-ffmpeg"
	_, err := f.splitter(t, nil).Run(context.Background(), f.request())
	if !errors.Is(err, failure.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestRunStopsOnEncodeFailure(t *testing.T) {
	f := newFixture(t, threeTrackDescriptor)
	f.codec.failAt = 2
	result, err := f.splitter(t, nil).Run(context.Background(), f.request())
	if !errors.Is(err, failure.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if len(result.Written) != 1 {
		t.Fatalf("expected one written track, got %d", len(result.Written))
	}
	if _, statErr := os.Stat(filepath.Join(f.outDir, "01_opening.mp3")); statErr != nil {
		t.Fatalf("expected first track to stay on disk: %v", statErr)
	}
	if _, statErr := os.Stat(filepath.Join(f.outDir, manifest.FileName)); !os.IsNotExist(statErr) {
		t.Fatalf("expected no manifest, stat err %v", statErr)
	}
}

func TestRunFailsOnDecodeError(t *testing.T) {
	f := newFixture(t, threeTrackDescriptor)
	f.codec.decodeErr = errors.New("corrupt stream")
	_, err := f.splitter(t, nil).Run(context.Background(), f.request())
	if !errors.Is(err, failure.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	f := newFixture(t, threeTrackDescriptor)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.splitter(t, nil).Run(ctx, f.request())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(f.codec.calls) != 0 {
		t.Fatal("expected no exports after cancellation")
	}
}

func TestRunRecordsHistory(t *testing.T) {
	f := newFixture(t, threeTrackDescriptor, testsupport.WithHistory())
	s := f.splitter(t, nil)
	ctx := context.Background()

	ok, err := s.Run(ctx, f.request())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	f.codec.failAt = 1
	f.codec.calls = nil
	if _, err := s.Run(ctx, f.request()); err == nil {
		t.Fatal("expected second run to fail")
	}

	store := testsupport.MustOpenHistory(t, f.cfg)
	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 recorded runs, got %d", len(runs))
	}
	byID := map[string]history.Run{}
	for _, r := range runs {
		byID[r.RunID] = r
	}
	success, found := byID[ok.RunID]
	if !found {
		t.Fatalf("expected run %s to be recorded", ok.RunID)
	}
	if success.Status != history.StatusSucceeded || success.TrackCount != 3 || success.TotalSeconds != 11 {
		t.Fatalf("unexpected success record %#v", success)
	}
	var failed history.Run
	for _, r := range runs {
		if r.RunID != ok.RunID {
			failed = r
		}
	}
	if failed.Status != history.StatusFailed || failed.ErrorKind != "external_tool" {
		t.Fatalf("unexpected failure record %#v", failed)
	}
}

func TestPlanResolvesWithoutDecoding(t *testing.T) {
	f := newFixture(t, threeTrackDescriptor)
	plan, err := f.splitter(t, nil).Plan(context.Background(), f.input, f.descriptor)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if plan.DurationMs != 10000 || len(plan.Segments) != 3 {
		t.Fatalf("unexpected plan %#v", plan)
	}
	if plan.Segments[2].StartMs != 7000 || plan.Segments[2].EndMs != 10000 {
		t.Fatalf("unexpected last segment %#v", plan.Segments[2])
	}
	if len(plan.Anomalies) != 0 {
		t.Fatalf("expected clean plan, got %#v", plan.Anomalies)
	}
	if f.codec.rate != 0 || len(f.codec.calls) != 0 {
		t.Fatal("plan must not decode or encode")
	}
	if _, err := os.Stat(f.outDir); !os.IsNotExist(err) {
		t.Fatalf("plan must not create output, stat err %v", err)
	}
}

func TestNewRequiresConfig(t *testing.T) {
	if _, err := splitter.New(splitter.Options{}); !errors.Is(err, failure.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestRunOnlyFirstTrackSetsEnd(t *testing.T) {
	descriptor := `{
  "title": "Late Show",
  "dateRecorded": "2024-03-02",
  "tracks": [
    {"title": "Intro", "startTime": "00:00:00.000", "endTime": "00:00:03.200"},
    {"title": "Song", "startTime": "00:00:03.200"},
    {"title": "Outro", "startTime": "00:00:06.700"}
  ]
}`
	f := newFixture(t, descriptor)
	result, err := f.splitter(t, nil).Run(context.Background(), f.request())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(f.codec.calls) != 3 {
		t.Fatalf("expected 3 output files, got %d", len(f.codec.calls))
	}
	for _, name := range []string{"01_intro.mp3", "02_song.mp3", "03_outro.mp3"} {
		if _, err := os.Stat(filepath.Join(f.outDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}
	tracks := result.Manifest.Tracks
	if len(tracks) != 3 {
		t.Fatalf("expected 3 manifest entries, got %d", len(tracks))
	}
	var sum int64
	for i, track := range tracks {
		if track.Index != i+1 {
			t.Fatalf("expected index %d, got %d", i+1, track.Index)
		}
		sum += track.Duration
	}
	total := result.DurationMs / 1000
	if diff := sum - total; diff < -int64(len(tracks)) || diff > int64(len(tracks)) {
		t.Fatalf("durations sum to %ds, want %d±%d", sum, total, len(tracks))
	}
	if result.Segments[1].EndMs != 6700 || result.Segments[2].EndMs != 10000 {
		t.Fatalf("unexpected inferred ends %#v", result.Segments)
	}
}

func TestRunMissingInputIsIOError(t *testing.T) {
	f := newFixture(t, threeTrackDescriptor)
	f.input = filepath.Join(filepath.Dir(f.input), "nope.mp3")
	_, err := f.splitter(t, nil).Run(context.Background(), f.request())
	if !errors.Is(err, failure.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if failure.Kind(err) != "io" {
		t.Fatalf("expected io kind, got %s", failure.Kind(err))
	}
	if _, statErr := os.Stat(f.outDir); !os.IsNotExist(statErr) {
		t.Fatalf("expected output dir to be untouched, stat err %v", statErr)
	}
}

func TestRunOutputFileInMissingSubdirectoryIsIOError(t *testing.T) {
	descriptor := `{"title": "x", "dateRecorded": "d", "tracks": [
    {"title": "a", "startTime": "00:00:00.000", "outputFile": "missing/dir/a.mp3"}
  ]}`
	f := newFixture(t, descriptor)
	_, err := f.splitter(t, nil).Run(context.Background(), f.request())
	if !errors.Is(err, failure.ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(f.outDir, manifest.FileName)); !os.IsNotExist(statErr) {
		t.Fatalf("expected no manifest, stat err %v", statErr)
	}
}

func TestRunHonoursTargetLoudness(t *testing.T) {
	f := newFixture(t, threeTrackDescriptor, testsupport.WithTargetDBFS(-10))
	result, err := f.splitter(t, nil).Run(context.Background(), f.request())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 1000 lifted to -10 dBFS is about 10362.
	for i, call := range f.codec.calls {
		if call.first < 10350 || call.first > 10375 {
			t.Fatalf("call %d: expected sample near 10362, got %d", i, call.first)
		}
	}
	if result.GainDB < 20 || result.GainDB > 20.5 {
		t.Fatalf("unexpected gain %.2f", result.GainDB)
	}
}
