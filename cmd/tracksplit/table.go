package main

import (
	"path/filepath"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"tracksplit/internal/clock"
	"tracksplit/internal/history"
	"tracksplit/internal/splitter"
)

type column struct {
	header string
	align  text.Align
}

var (
	colIndex   = column{"#", text.AlignRight}
	colFile    = column{"File", text.AlignLeft}
	colTitle   = column{"Title", text.AlignLeft}
	colStart   = column{"Start", text.AlignRight}
	colEnd     = column{"End", text.AlignRight}
	colLength  = column{"Length", text.AlignRight}
	colStarted = column{"Started", text.AlignLeft}
	colTracks  = column{"Tracks", text.AlignRight}
	colStatus  = column{"Status", text.AlignLeft}
	colElapsed = column{"Elapsed", text.AlignRight}
	colOutput  = column{"Output", text.AlignLeft}
)

// renderRows lays rows out under columns. Missing trailing cells render empty.
func renderRows(columns []column, rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.header
		configs[i] = table.ColumnConfig{Number: i + 1, Align: c.align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

// trackLength renders a segment length for display; inverted ranges show as 00:00.
func trackLength(ms int64) string {
	return clock.FormatDisplay(max(ms, 0))
}

// renderPlanTable shows every resolved segment with its source range.
func renderPlanTable(plan splitter.Plan) string {
	rows := make([][]string, 0, len(plan.Segments))
	for _, seg := range plan.Segments {
		rows = append(rows, []string{
			strconv.Itoa(seg.Index),
			seg.FileName,
			seg.Title,
			clock.Format(seg.StartMs),
			clock.Format(seg.EndMs),
			trackLength(seg.LengthMs()),
		})
	}
	return renderRows([]column{colIndex, colFile, colTitle, colStart, colEnd, colLength}, rows)
}

// renderSplitTable shows the files a run wrote and their encoded length.
func renderSplitTable(result splitter.Result) string {
	rows := make([][]string, 0, len(result.Written))
	for _, w := range result.Written {
		rows = append(rows, []string{
			strconv.Itoa(w.Segment.Index),
			filepath.Base(w.Path),
			w.Segment.Title,
			trackLength(w.DurationMs),
		})
	}
	return renderRows([]column{colIndex, colFile, colTitle, colLength}, rows)
}

// renderHistoryTable shows recorded runs, newest first.
func renderHistoryTable(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		status := run.Status
		if run.ErrorKind != "" {
			status += " (" + run.ErrorKind + ")"
		}
		rows = append(rows, []string{
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Title,
			strconv.Itoa(run.TrackCount),
			status,
			run.Elapsed().Round(time.Millisecond).String(),
			filepath.Base(run.OutputDir),
		})
	}
	return renderRows([]column{colStarted, colTitle, colTracks, colStatus, colElapsed, colOutput}, rows)
}
