package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"tracksplit/internal/export"
	"tracksplit/internal/failure"
	"tracksplit/internal/fileutil"
)

// FileName is the manifest's name inside the output directory.
const FileName = "manifest.json"

// Manifest describes a finished run. Field order is the serialized key order.
type Manifest struct {
	Title        string  `json:"title"`
	DateRecorded string  `json:"dateRecorded"`
	Tracks       []Track `json:"tracks"`
}

// Track is one exported file.
type Track struct {
	Index    int    `json:"index"`
	File     string `json:"file"`
	Title    string `json:"title"`
	Duration int64  `json:"duration"`
}

// Build lists written segments in the order given.
func Build(title, dateRecorded string, written []export.Written) Manifest {
	m := Manifest{
		Title:        title,
		DateRecorded: dateRecorded,
		Tracks:       make([]Track, 0, len(written)),
	}
	for _, w := range written {
		m.Tracks = append(m.Tracks, Track{
			Index:    w.Segment.Index,
			File:     w.Segment.FileName,
			Title:    w.Segment.Title,
			Duration: CeilSeconds(w.DurationMs),
		})
	}
	return m
}

// CeilSeconds converts milliseconds to whole seconds, rounding up.
func CeilSeconds(ms int64) int64 {
	if ms <= 0 {
		return 0
	}
	return (ms + 999) / 1000
}

// TotalSeconds sums the track durations.
func (m Manifest) TotalSeconds() int64 {
	var total int64
	for _, t := range m.Tracks {
		total += t.Duration
	}
	return total
}

// Marshal renders the manifest with two-space indentation and a trailing
// newline. HTML characters are not escaped.
func Marshal(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// Write persists m at path, replacing any existing file.
func Write(path string, m Manifest) error {
	data, err := Marshal(m)
	if err != nil {
		return failure.Wrap(failure.ErrFormat, "manifest", "encode", "", err)
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return failure.Wrap(failure.ErrIO, "manifest", "write", path, err)
	}
	return nil
}
