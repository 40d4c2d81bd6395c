package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"tracksplit/internal/config"
	"tracksplit/internal/deps"
	"tracksplit/internal/preflight"
)

type checkState int

const (
	checkInfo checkState = iota
	checkOK
	checkWarn
	checkFailed
)

func (s checkState) label() string {
	switch s {
	case checkOK:
		return "OK"
	case checkWarn:
		return "WARN"
	case checkFailed:
		return "ERROR"
	default:
		return "INFO"
	}
}

func (s checkState) color() string {
	switch s {
	case checkOK:
		return "\x1b[32m"
	case checkWarn:
		return "\x1b[33m"
	case checkFailed:
		return "\x1b[31m"
	default:
		return "\x1b[34m"
	}
}

// checkRow is one line of `tracksplit check` output.
type checkRow struct {
	label  string
	state  checkState
	detail string
}

type checkSection struct {
	title string
	rows  []checkRow
}

func dependencyRow(status deps.Status) checkRow {
	row := checkRow{label: status.Name, state: checkOK, detail: status.Command}
	if !status.Available {
		row.state = checkFailed
		if status.Optional {
			row.state = checkWarn
		}
		row.detail = status.Detail
	}
	return row
}

func directoryRow(result preflight.Result) checkRow {
	row := checkRow{label: result.Name, state: checkOK, detail: result.Detail}
	if !result.Passed {
		row.state = checkFailed
	}
	return row
}

func historyRow(cfg *config.Config) checkRow {
	if !cfg.History.Enabled {
		return checkRow{label: "History database", state: checkInfo, detail: "disabled"}
	}
	return checkRow{label: "History database", state: checkInfo, detail: cfg.History.Path}
}

// buildCheckReport gathers the codec binaries, data directory, history and
// config file rows shown by the check command.
func buildCheckReport(cfg *config.Config, configPath string) []checkSection {
	codecs := checkSection{title: "Codecs"}
	for _, status := range preflight.CheckSystemDeps(cfg) {
		codecs.rows = append(codecs.rows, dependencyRow(status))
	}

	storage := checkSection{title: "Storage"}
	storage.rows = append(storage.rows,
		directoryRow(preflight.CheckDirectoryAccess("Data directory", cfg.Paths.DataDir)),
		checkRow{label: "Lock directory", state: checkInfo, detail: cfg.LockDir()},
		historyRow(cfg),
	)

	if strings.TrimSpace(configPath) == "" {
		configPath = "(defaults)"
	}
	settings := checkSection{title: "Configuration", rows: []checkRow{
		{label: "Config file", state: checkInfo, detail: configPath},
		{label: "Target loudness", state: checkInfo, detail: fmt.Sprintf("%.1f dBFS", cfg.Audio.TargetDBFS)},
		{label: "Encoding", state: checkInfo, detail: cfg.Audio.Bitrate + " " + cfg.Audio.Extension},
	}}

	return []checkSection{codecs, storage, settings}
}

// renderCheckReport lays sections out as aligned "[STATE] label  detail" lines.
func renderCheckReport(sections []checkSection, colorize bool) string {
	width := 0
	for _, section := range sections {
		for _, row := range section.rows {
			width = max(width, len(row.label))
		}
	}

	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(section.title + "\n")
		for _, row := range section.rows {
			line := fmt.Sprintf("  %-7s %-*s  %s", "["+row.state.label()+"]", width, row.label, row.detail)
			if colorize {
				line = row.state.color() + line + "\x1b[0m"
			}
			b.WriteString(strings.TrimRight(line, " ") + "\n")
		}
	}
	return b.String()
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
