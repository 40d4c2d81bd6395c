package segment

import (
	"fmt"

	"tracksplit/internal/clock"
)

// AnomalyKind classifies a suspicious range.
type AnomalyKind string

const (
	AnomalyEmpty      AnomalyKind = "empty"
	AnomalyOverlap    AnomalyKind = "overlap"
	AnomalyPastEnd    AnomalyKind = "past_end"
	AnomalyOutOfOrder AnomalyKind = "out_of_order"
	AnomalyDuplicate  AnomalyKind = "duplicate_file"
)

// Anomaly describes one suspicious segment. Anomalies never block a run.
type Anomaly struct {
	Index  int
	Kind   AnomalyKind
	Detail string
}

// Inspect reports segments that will export as empty, overlapping,
// truncated or clobbered audio.
func Inspect(segments []Segment, totalMs int64) []Anomaly {
	var anomalies []Anomaly
	seen := make(map[string]int, len(segments))
	for i, seg := range segments {
		if seg.EndMs <= seg.StartMs {
			anomalies = append(anomalies, Anomaly{
				Index:  seg.Index,
				Kind:   AnomalyEmpty,
				Detail: fmt.Sprintf("end %s is not after start %s", clock.Format(seg.EndMs), clock.Format(seg.StartMs)),
			})
		}
		if seg.EndMs > totalMs {
			anomalies = append(anomalies, Anomaly{
				Index:  seg.Index,
				Kind:   AnomalyPastEnd,
				Detail: fmt.Sprintf("end %s is beyond recording length %s", clock.Format(seg.EndMs), clock.Format(totalMs)),
			})
		}
		if i > 0 {
			prev := segments[i-1]
			switch {
			case seg.StartMs < prev.StartMs:
				anomalies = append(anomalies, Anomaly{
					Index:  seg.Index,
					Kind:   AnomalyOutOfOrder,
					Detail: fmt.Sprintf("start %s precedes track %d start %s", clock.Format(seg.StartMs), prev.Index, clock.Format(prev.StartMs)),
				})
			case seg.StartMs < prev.EndMs:
				anomalies = append(anomalies, Anomaly{
					Index:  seg.Index,
					Kind:   AnomalyOverlap,
					Detail: fmt.Sprintf("start %s overlaps track %d ending %s", clock.Format(seg.StartMs), prev.Index, clock.Format(prev.EndMs)),
				})
			}
		}
		if first, ok := seen[seg.FileName]; ok {
			anomalies = append(anomalies, Anomaly{
				Index:  seg.Index,
				Kind:   AnomalyDuplicate,
				Detail: fmt.Sprintf("file %q is also written by track %d", seg.FileName, first),
			})
		} else {
			seen[seg.FileName] = seg.Index
		}
	}
	return anomalies
}
