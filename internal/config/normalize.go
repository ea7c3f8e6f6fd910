package config

import (
	"os"
	"strings"
)

// normalize expands filesystem paths, applies environment fallbacks, and
// canonicalizes string fields before validation.
func (c *Config) normalize() error {
	if env := strings.TrimSpace(os.Getenv("STRAVA2GPX_GPSBABEL")); env != "" {
		c.Converter.Binary = env
	}
	c.Converter.Binary = strings.TrimSpace(c.Converter.Binary)

	c.Export.IndexFile = strings.TrimSpace(c.Export.IndexFile)
	if c.Export.IndexFile == "" {
		c.Export.IndexFile = defaultIndexFile
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	for _, field := range []*string{
		&c.Paths.OutputDir,
		&c.Paths.StagingDir,
		&c.Paths.LogDir,
		&c.Paths.DataDir,
	} {
		if strings.TrimSpace(*field) == "" {
			*field = ""
			continue
		}
		expanded, err := expandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	return nil
}
