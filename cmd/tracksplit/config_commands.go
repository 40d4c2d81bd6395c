package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tracksplit/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Write or validate the tracksplit configuration",
	}
	configCmd.AddCommand(newConfigValidateCommand(ctx), newConfigInitCommand())
	return configCmd
}

// resolveInitTarget expands an explicit --path or falls back to the default
// config location.
func resolveInitTarget(flagValue string) (string, error) {
	target := strings.TrimSpace(flagValue)
	if target == "" {
		return config.DefaultConfigPath()
	}
	return config.ExpandPath(target)
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration with codec, loudness and history settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := resolveInitTarget(targetPath)
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}
			if !overwrite {
				_, statErr := os.Stat(target)
				switch {
				case statErr == nil:
					return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
				case !errors.Is(statErr, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", statErr)
				}
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set audio.ffmpeg_binary and audio.ffprobe_binary if the codecs are not on PATH.")
			fmt.Fprintln(out, "Run `tracksplit check` to confirm the codecs and data directory.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing configuration file")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Parse the configuration and print the settings a split would use",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configFlagValue())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			if exists {
				fmt.Fprintf(out, "Config file: %s\n", path)
			} else {
				fmt.Fprintf(out, "Config file: %s (not found, using defaults)\n", path)
			}
			writeSettingsSummary(out, cfg)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func writeSettingsSummary(out io.Writer, cfg *config.Config) {
	layout := "follow input"
	if cfg.Audio.SampleRate > 0 && cfg.Audio.Channels > 0 {
		layout = fmt.Sprintf("%d Hz x %d ch", cfg.Audio.SampleRate, cfg.Audio.Channels)
	}
	history := "disabled"
	if cfg.History.Enabled {
		history = cfg.History.Path
	}
	fmt.Fprintf(out, "  data dir:        %s\n", cfg.Paths.DataDir)
	fmt.Fprintf(out, "  ffmpeg/ffprobe:  %s / %s\n", cfg.Audio.FFmpegBinary, cfg.Audio.FFprobeBinary)
	fmt.Fprintf(out, "  decode layout:   %s\n", layout)
	fmt.Fprintf(out, "  target loudness: %.1f dBFS\n", cfg.Audio.TargetDBFS)
	fmt.Fprintf(out, "  encoding:        %s .%s\n", cfg.Audio.Bitrate, cfg.Audio.Extension)
	fmt.Fprintf(out, "  history:         %s\n", history)
}
