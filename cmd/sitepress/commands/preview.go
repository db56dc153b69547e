package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/sitepress/internal/logfields"
	"git.home.luguber.info/inful/sitepress/internal/preview"
	"git.home.luguber.info/inful/sitepress/internal/site"
)

// PreviewCmd serves rendered pages of a site description from memory.
type PreviewCmd struct {
	Site    string `arg:"" optional:"" help:"Site description; defaults to the configured site" type:"path"`
	Addr    string `help:"Listen address (default from configuration)"`
	Watch   bool   `short:"w" help:"Reload when the site description changes"`
	Metrics bool   `help:"Expose Prometheus metrics on /metrics"`
}

func (p *PreviewCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	path := cfg.Site
	if p.Site != "" {
		path = p.Site
	}
	addr := cfg.Preview.Addr
	if p.Addr != "" {
		addr = p.Addr
	}

	s, err := site.Load(path)
	if err != nil {
		return err
	}

	var reg *prom.Registry
	if p.Metrics || cfg.Preview.Metrics {
		reg = prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	ctx, cancel := signalContext()
	defer cancel()

	srv := preview.NewServer(addr, s, preview.Options{FormActionURL: cfg.Export.FormActionURL}, reg)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()
	slog.Info("Preview server listening", slog.String("addr", addr), logfields.Path(path))
	_, _ = fmt.Fprintf(g.Out, "Preview: http://%s/\n", addr)

	if p.Watch || cfg.Preview.Watch {
		go func() {
			if err := preview.Watch(ctx, path, srv.SetSite); err != nil {
				slog.Warn("Watching site description failed", logfields.Path(path), logfields.Error(err))
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("Shutting down preview server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
