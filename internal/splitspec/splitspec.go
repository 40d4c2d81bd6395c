package splitspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"tracksplit/internal/failure"
)

// SplitSpec is the parsed split descriptor.
type SplitSpec struct {
	Title        string      `json:"title"`
	DateRecorded string      `json:"dateRecorded"`
	Tracks       []TrackSpec `json:"tracks"`
}

// TrackSpec requests one output track.
type TrackSpec struct {
	Title      string  `json:"title"`
	StartTime  string  `json:"startTime"`
	EndTime    *string `json:"endTime,omitempty"`
	OutputFile *string `json:"outputFile,omitempty"`
}

// MissingFieldError reports a required descriptor key that was absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("descriptor is missing required field %q", e.Field)
}

func (e *MissingFieldError) Unwrap() error { return failure.ErrMissingField }

type rawSpec struct {
	Title        *string     `json:"title"`
	DateRecorded *string     `json:"dateRecorded"`
	Tracks       *[]rawTrack `json:"tracks"`
}

type rawTrack struct {
	Title      *string `json:"title"`
	StartTime  *string `json:"startTime"`
	EndTime    *string `json:"endTime"`
	OutputFile *string `json:"outputFile"`
}

// Load reads and validates the descriptor at path.
func Load(path string) (SplitSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SplitSpec{}, failure.Wrap(failure.ErrIO, "descriptor", "read", path, err)
	}
	spec, err := Parse(bytes.NewReader(data))
	if err != nil {
		return SplitSpec{}, fmt.Errorf("descriptor %s: %w", path, err)
	}
	return spec, nil
}

// Parse decodes a descriptor document. A JSON null counts as absent.
func Parse(r io.Reader) (SplitSpec, error) {
	var raw rawSpec
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return SplitSpec{}, failure.Wrap(failure.ErrFormat, "descriptor", "decode", "", err)
	}
	if raw.Title == nil {
		return SplitSpec{}, &MissingFieldError{Field: "title"}
	}
	if raw.DateRecorded == nil {
		return SplitSpec{}, &MissingFieldError{Field: "dateRecorded"}
	}
	if raw.Tracks == nil {
		return SplitSpec{}, &MissingFieldError{Field: "tracks"}
	}

	spec := SplitSpec{
		Title:        *raw.Title,
		DateRecorded: *raw.DateRecorded,
		Tracks:       make([]TrackSpec, 0, len(*raw.Tracks)),
	}
	for i, track := range *raw.Tracks {
		if track.Title == nil {
			return SplitSpec{}, &MissingFieldError{Field: fmt.Sprintf("tracks[%d].title", i)}
		}
		if track.StartTime == nil {
			return SplitSpec{}, &MissingFieldError{Field: fmt.Sprintf("tracks[%d].startTime", i)}
		}
		spec.Tracks = append(spec.Tracks, TrackSpec{
			Title:      *track.Title,
			StartTime:  *track.StartTime,
			EndTime:    track.EndTime,
			OutputFile: track.OutputFile,
		})
	}
	return spec, nil
}
