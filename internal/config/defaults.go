package config

const (
	defaultStagingDir       = "~/.local/share/strava2gpx/staging"
	defaultLogDir           = "~/.local/share/strava2gpx/logs"
	defaultDataDir          = "~/.local/share/strava2gpx"
	defaultIndexFile        = "activities.csv"
	defaultConverterBinary  = "gpsbabel"
	defaultConverterTimeout = 120
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			DataDir:    defaultDataDir,
		},
		Export: Export{
			IndexFile: defaultIndexFile,
		},
		Converter: Converter{
			Binary:  defaultConverterBinary,
			Timeout: defaultConverterTimeout,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
