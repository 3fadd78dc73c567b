package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"trackman/internal/bulkops"
	"trackman/internal/config"
	"trackman/internal/history"
	"trackman/internal/logging"
	"trackman/internal/media/mediainfo"
	"trackman/internal/propedit"
	"trackman/internal/settings"
	"trackman/internal/showcache"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	servicesOnce sync.Once
	services     *services
	servicesErr  error
}

// services holds the wired application components. Everything is built
// once, on first use, from the loaded configuration.
type services struct {
	cfg       *config.Config
	logger    *slog.Logger
	logFile   *os.File
	inspector *mediainfo.Inspector
	cache     *showcache.Store
	client    *propedit.Client
	journal   *history.Store
	settings  *settings.Store
	orch      *bulkops.Orchestrator
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureServices() (*services, error) {
	c.servicesOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.servicesErr = err
			return
		}
		c.services, c.servicesErr = buildServices(cfg)
	})
	return c.services, c.servicesErr
}

// buildServices wires the component graph. Logs go to a file under the
// log directory so the interactive menus stay clean; if the file cannot
// be opened, logging falls back to stderr.
func buildServices(cfg *config.Config) (*services, error) {
	var logOutput *os.File
	logPath := filepath.Join(cfg.Paths.LogDir, "trackman.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		logOutput = logFile
	} else {
		logOutput = os.Stderr
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: logOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	inspector := mediainfo.New(cfg.Tools.MediaInfo, logger)
	cache := showcache.NewStore(cfg.Paths.JSONDir, inspector, logger)
	client := propedit.New(cfg.Tools.MKVPropedit, logger)
	settingsStore := settings.NewStore(cfg.Paths.SettingsPath, logger)

	// A broken journal degrades to an unrecorded session rather than
	// blocking flag operations.
	journal, err := history.Open(cfg.Paths.HistoryDB, logger)
	if err != nil {
		logger.Warn("mutation journal unavailable", logging.Error(err))
		journal = nil
	}

	lockDir := filepath.Join(cfg.Paths.LogDir, "locks")
	orch := bulkops.New(cache, client, journal, lockDir, logger)

	return &services{
		cfg:       cfg,
		logger:    logger,
		logFile:   logFile,
		inspector: inspector,
		cache:     cache,
		client:    client,
		journal:   journal,
		settings:  settingsStore,
		orch:      orch,
	}, nil
}

func (s *services) close() {
	if s == nil {
		return
	}
	if s.journal != nil {
		_ = s.journal.Close()
	}
	if s.logFile != nil {
		_ = s.logFile.Close()
	}
}
