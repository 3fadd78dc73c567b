package config

import "strings"

const (
	defaultJSONDir      = "~/.local/share/trackman/json"
	defaultLogDir       = "~/.local/share/trackman/logs"
	defaultSettingsPath = "~/.config/trackman/settings.json"
	defaultHistoryDB    = "~/.local/share/trackman/history.db"
	defaultMKVPropedit  = "mkvpropedit"
	defaultMediaInfo    = "mediainfo"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			JSONDir:      defaultJSONDir,
			LogDir:       defaultLogDir,
			SettingsPath: defaultSettingsPath,
			HistoryDB:    defaultHistoryDB,
		},
		Tools: Tools{
			MKVPropedit: defaultMKVPropedit,
			MediaInfo:   defaultMediaInfo,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// normalize expands and fills in path fields after decoding.
func (c *Config) normalize() error {
	fields := []*string{
		&c.Paths.JSONDir,
		&c.Paths.LogDir,
		&c.Paths.SettingsPath,
		&c.Paths.HistoryDB,
	}
	defaults := []string{defaultJSONDir, defaultLogDir, defaultSettingsPath, defaultHistoryDB}
	for i, field := range fields {
		value := *field
		if value == "" {
			value = defaults[i]
		}
		expanded, err := expandPath(value)
		if err != nil {
			return err
		}
		*field = expanded
	}

	c.Tools.MKVPropedit = trimOr(c.Tools.MKVPropedit, defaultMKVPropedit)
	c.Tools.MediaInfo = trimOr(c.Tools.MediaInfo, defaultMediaInfo)
	c.Logging.Format = trimOr(c.Logging.Format, defaultLogFormat)
	c.Logging.Level = trimOr(c.Logging.Level, defaultLogLevel)
	return nil
}

func trimOr(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
