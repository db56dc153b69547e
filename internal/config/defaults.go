package config

import (
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/export"
)

const (
	CurrentVersion     = "1"
	defaultOutput      = "./dist"
	defaultPreviewAddr = "127.0.0.1:4173"
	defaultHistoryPath = ".sitepress/history.db"
)

// DefaultApplier fills defaults for one configuration section.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

type exportDefaults struct{}

func (exportDefaults) Domain() string { return "export" }

func (exportDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Site == "" {
		cfg.Site = "site.yaml"
	}
	if cfg.Export.Target == "" {
		cfg.Export.Target = string(export.TargetStatic)
	}
	if cfg.Export.Output == "" {
		cfg.Export.Output = defaultOutput
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = "dir"
	}
	cfg.Export.Format = strings.ToLower(strings.TrimSpace(cfg.Export.Format))
	cfg.Export.HostingPlatform = strings.TrimSpace(cfg.Export.HostingPlatform)
	return nil
}

type previewDefaults struct{}

func (previewDefaults) Domain() string { return "preview" }

func (previewDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Preview.Addr == "" {
		cfg.Preview.Addr = defaultPreviewAddr
	}
	return nil
}

type historyDefaults struct{}

func (historyDefaults) Domain() string { return "history" }

func (historyDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.History.Path == "" {
		cfg.History.Path = defaultHistoryPath
	}
	return nil
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

var appliers = []DefaultApplier{exportDefaults{}, previewDefaults{}, historyDefaults{}, loggingDefaults{}}

func applyDefaults(cfg *Config) error {
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}
	for _, a := range appliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
