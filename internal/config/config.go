// Package config loads the sitepress.yaml file that supplies defaults for the
// CLI: which site description to export, where to write it and how.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "sitepress.yaml"

// Config is the root of sitepress.yaml.
type Config struct {
	Version string        `yaml:"version"`
	Site    string        `yaml:"site"` // path to the site description
	Export  ExportConfig  `yaml:"export"`
	Preview PreviewConfig `yaml:"preview"`
	History HistoryConfig `yaml:"history"`
	Logging LoggingConfig `yaml:"logging"`
}

// ExportConfig configures `sitepress export`.
type ExportConfig struct {
	Target            string                  `yaml:"target"`
	Output            string                  `yaml:"output"`
	Format            string                  `yaml:"format"` // dir | zip
	HostingPlatform   string                  `yaml:"hosting_platform,omitempty"`
	SiteURL           string                  `yaml:"site_url,omitempty"`
	FormActionURL     string                  `yaml:"form_action_url,omitempty"`
	Workers           int                     `yaml:"workers,omitempty"`
	ImageOptimization *export.ProfileOverride `yaml:"image_optimization,omitempty"`
	Report            string                  `yaml:"report,omitempty"` // optional path of the JSON export report
}

// PreviewConfig configures `sitepress preview`.
type PreviewConfig struct {
	Addr    string `yaml:"addr"`
	Watch   bool   `yaml:"watch"`
	Metrics bool   `yaml:"metrics"`
}

// HistoryConfig configures the export history database.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures the default slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Options converts the export section into generator options.
func (c *Config) Options() export.Options {
	return export.Options{
		ImageOptimization: c.Export.ImageOptimization,
		HostingPlatform:   c.Export.HostingPlatform,
		FormActionURL:     c.Export.FormActionURL,
		SiteURL:           c.Export.SiteURL,
		Workers:           c.Export.Workers,
	}
}

// Load reads path, expands environment variables (after loading .env files),
// applies defaults and validates the result. A missing file at the default
// path yields the defaults; a missing explicit path is an error.
func Load(path string) (*Config, error) {
	loadEnvFiles(filepath.Dir(path))

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) && filepath.Base(path) == DefaultPath {
			return Default()
		}
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").WithContext("path", path).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read configuration file").WithContext("path", path).Build()
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes configuration data; relative paths resolve against baseDir.
func Parse(data []byte, baseDir string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "decode configuration").Build()
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	cfg.resolvePaths(baseDir)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a validated configuration with every default applied.
func Default() (*Config, error) {
	var cfg Config
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolvePaths(baseDir string) {
	if baseDir == "" || baseDir == "." {
		return
	}
	for _, p := range []*string{&c.Site, &c.Export.Output, &c.Export.Report, &c.History.Path} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(baseDir, *p)
		}
	}
}

// Init writes an example configuration to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").WithContext("path", path).Build()
	}

	quality := 80
	example := Config{
		Version: CurrentVersion,
		Site:    "site.yaml",
		Export: ExportConfig{
			Target:            string(export.TargetStatic),
			Output:            "./dist",
			Format:            "dir",
			HostingPlatform:   "netlify",
			SiteURL:           "${SITE_URL}",
			ImageOptimization: &export.ProfileOverride{Quality: &quality},
			Report:            "./dist-report.json",
		},
		Preview: PreviewConfig{Addr: defaultPreviewAddr, Watch: true},
		History: HistoryConfig{Enabled: true, Path: defaultHistoryPath},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.InternalError("marshal example configuration").WithCause(err).Build()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "create configuration directory").WithContext("path", dir).Build()
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write configuration file").WithContext("path", path).Build()
	}
	return nil
}
