package config

import (
	"errors"
	"fmt"
	"strings"
)

var validLogFormats = map[string]struct{}{
	"console": {},
	"json":    {},
}

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.JSONDir) == "" {
		return errors.New("paths.json_dir must be set")
	}
	if strings.TrimSpace(c.Tools.MKVPropedit) == "" {
		return errors.New("tools.mkvpropedit must be set")
	}
	if strings.TrimSpace(c.Tools.MediaInfo) == "" {
		return errors.New("tools.mediainfo must be set")
	}
	if _, ok := validLogFormats[strings.ToLower(c.Logging.Format)]; !ok {
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if _, ok := validLogLevels[strings.ToLower(c.Logging.Level)]; !ok {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
