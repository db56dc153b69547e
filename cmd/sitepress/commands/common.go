// Package commands implements the sitepress command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitepress/internal/config"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/history"
	"git.home.luguber.info/inful/sitepress/internal/logfields"
)

// Global carries state shared by all commands.
type Global struct {
	Out    io.Writer
	Config *config.Config
}

// CLI definition and global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"sitepress.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Export  ExportCmd  `cmd:"" help:"Export a site description as a static site or React project"`
	Preview PreviewCmd `cmd:"" help:"Serve a live preview of a site description"`
	Presets PresetsCmd `cmd:"" help:"List hosting platform presets"`
	History HistoryCmd `cmd:"" help:"Show previous exports"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration and site description"`
}

// AfterApply runs after flag parsing and sets up logging once. The logging
// section of the configuration is honored when the file loads.
func (c *CLI) AfterApply(g *Global) error {
	if g.Out == nil {
		g.Out = os.Stdout
	}
	logging := config.LoggingConfig{Level: config.LogLevelInfo, Format: config.LogFormatText}
	if cfg, err := config.Load(c.Config); err == nil {
		g.Config = cfg
		logging = cfg.Logging
	}
	slog.SetDefault(logging.NewLogger(os.Stderr, c.Verbose))
	return nil
}

// loadConfig returns the configuration loaded in AfterApply, reloading to
// surface the error when it failed.
func loadConfig(g *Global, root *CLI) (*config.Config, error) {
	if g.Config != nil {
		return g.Config, nil
	}
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	g.Config = cfg
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func openHistory(p string) (*history.SQLiteStore, error) {
	if dir := filepath.Dir(p); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "create history directory").WithContext("path", dir).Build()
		}
	}
	store, err := history.NewSQLiteStore(p)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryHistory, "open export history").WithContext("path", p).Build()
	}
	slog.Debug("Opened export history", logfields.Path(p))
	return store, nil
}
