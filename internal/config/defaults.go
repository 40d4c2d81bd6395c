package config

const (
	defaultDataDir       = "~/.local/share/tracksplit"
	defaultHistoryFile   = "history.db"
	defaultFFmpegBinary  = "ffmpeg"
	defaultFFprobeBinary = "ffprobe"
	defaultTargetDBFS    = -20.0
	defaultBitrate       = "128k"
	defaultExtension     = "mp3"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Audio: Audio{
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
			TargetDBFS:    defaultTargetDBFS,
			Bitrate:       defaultBitrate,
			Extension:     defaultExtension,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
