package segment

import (
	"fmt"

	"tracksplit/internal/clock"
	"tracksplit/internal/failure"
	"tracksplit/internal/splitspec"
	"tracksplit/internal/textutil"
)

// DefaultExtension is appended to synthesized output file names.
const DefaultExtension = "mp3"

// Segment is one resolved output track. EndMs is exclusive.
type Segment struct {
	Index    int
	Title    string
	StartMs  int64
	EndMs    int64
	FileName string
}

// LengthMs returns the requested length, which may be zero or negative for
// malformed descriptors.
func (s Segment) LengthMs() int64 {
	return s.EndMs - s.StartMs
}

// Resolve computes the [start, end) range and file name for every track, in
// order. totalMs is the length of the decoded recording.
func Resolve(tracks []splitspec.TrackSpec, totalMs int64, ext string) ([]Segment, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	segments := make([]Segment, 0, len(tracks))
	for i, track := range tracks {
		start, err := clock.Parse(track.StartTime)
		if err != nil {
			return nil, failure.Wrap(failure.ErrFormat, "plan", fmt.Sprintf("track %d startTime", i+1), track.Title, err)
		}

		var end int64
		switch {
		case track.EndTime != nil:
			end, err = clock.Parse(*track.EndTime)
			if err != nil {
				return nil, failure.Wrap(failure.ErrFormat, "plan", fmt.Sprintf("track %d endTime", i+1), track.Title, err)
			}
		case i+1 < len(tracks):
			end, err = clock.Parse(tracks[i+1].StartTime)
			if err != nil {
				return nil, failure.Wrap(failure.ErrFormat, "plan", fmt.Sprintf("track %d startTime", i+2), tracks[i+1].Title, err)
			}
		default:
			end = totalMs
		}

		name := FileName(i+1, track.Title, ext)
		if track.OutputFile != nil {
			name = *track.OutputFile
		}

		segments = append(segments, Segment{
			Index:    i + 1,
			Title:    track.Title,
			StartMs:  start,
			EndMs:    end,
			FileName: name,
		})
	}
	return segments, nil
}

// FileName synthesizes "<2-digit index>_<slug>.<ext>".
func FileName(index int, title, ext string) string {
	return fmt.Sprintf("%02d_%s.%s", index, textutil.Slug(title), ext)
}
