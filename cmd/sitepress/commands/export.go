package commands

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"git.home.luguber.info/inful/sitepress/internal/config"
	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/exporter"
	"git.home.luguber.info/inful/sitepress/internal/logfields"
	"git.home.luguber.info/inful/sitepress/internal/packaging"
	"git.home.luguber.info/inful/sitepress/internal/site"
)

// ExportCmd implements the 'export' command. Flags override the configuration file.
type ExportCmd struct {
	Site       string `arg:"" optional:"" help:"Site description (YAML or JSON); defaults to the configured site" type:"path"`
	Target     string `short:"t" help:"Export target (static|project)"`
	Output     string `short:"o" help:"Output directory or zip file" type:"path"`
	Format     string `short:"f" help:"Output format (dir|zip)"`
	Platform   string `short:"p" name:"platform" help:"Hosting platform preset (see 'sitepress presets')"`
	SiteURL    string `name:"site-url" help:"Public base URL used for sitemap and canonical links"`
	FormAction string `name:"form-action" help:"Submission URL for forms"`
	Workers    int    `help:"Image optimization workers (0 = number of CPUs)"`
	NoOptimize bool   `name:"no-optimize" help:"Copy images without optimization"`
	Quality    int    `help:"Image quality override (1-100)"`
	MaxWidth   int    `name:"max-width" help:"Maximum image width override"`
	Report     string `help:"Write the JSON export report to this path" type:"path"`
	NoHistory  bool   `name:"no-history" help:"Do not record this export in the history database"`
	Progress   bool   `help:"Print progress events"`
}

func (e *ExportCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	e.applyOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	s, err := site.Load(cfg.Site)
	if err != nil {
		return err
	}

	svc := exporter.NewService()
	if cfg.History.Enabled && !e.NoHistory {
		store, err := openHistory(cfg.History.Path)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		svc.WithHistory(store)
	}

	ctx, cancel := signalContext()
	defer cancel()

	var onProgress export.ProgressFunc
	if e.Progress {
		onProgress = printProgress(g.Out)
	}
	target := export.ParseTarget(cfg.Export.Target)
	res, err := svc.Generate(ctx, s, target, cfg.Options(), onProgress)
	if err != nil {
		return err
	}

	format := packaging.ParseFormat(cfg.Export.Format)
	if err := packaging.Write(ctx, res.Files, cfg.Export.Output, format); err != nil {
		return err
	}
	slog.Info("Wrote export", logfields.Path(cfg.Export.Output), slog.String("format", string(format)))

	if cfg.Export.Report != "" {
		if err := packaging.PersistReport(res.Report, cfg.Export.Report); err != nil {
			slog.Warn("Failed to write export report", logfields.Path(cfg.Export.Report), logfields.Error(err))
		}
	}
	printSummary(g.Out, res, cfg.Export.Output)
	return nil
}

func (e *ExportCmd) applyOverrides(cfg *config.Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Site, e.Site)
	set(&cfg.Export.Target, e.Target)
	set(&cfg.Export.Output, e.Output)
	set(&cfg.Export.Format, packagingFormat(e.Format))
	set(&cfg.Export.HostingPlatform, e.Platform)
	set(&cfg.Export.SiteURL, e.SiteURL)
	set(&cfg.Export.FormActionURL, e.FormAction)
	set(&cfg.Export.Report, e.Report)
	if e.Workers > 0 {
		cfg.Export.Workers = e.Workers
	}

	if !e.NoOptimize && e.Quality == 0 && e.MaxWidth == 0 {
		return
	}
	o := export.ProfileOverride{}
	if cfg.Export.ImageOptimization != nil {
		o = *cfg.Export.ImageOptimization
	}
	if e.NoOptimize {
		off := false
		o.Enabled = &off
	}
	if e.Quality != 0 {
		q := e.Quality
		o.Quality = &q
	}
	if e.MaxWidth != 0 {
		w := e.MaxWidth
		o.MaxWidth = &w
	}
	cfg.Export.ImageOptimization = &o
}

// packagingFormat keeps unknown values as typed so validation reports them.
func packagingFormat(v string) string {
	if f := packaging.ParseFormat(v); f != "" && v != "" {
		return string(f)
	}
	return v
}

func printProgress(w io.Writer) export.ProgressFunc {
	return func(p export.Progress) {
		if p.Total > 0 {
			_, _ = fmt.Fprintf(w, "[%s %d/%d] %s\n", p.Phase, p.Current, p.Total, p.Message)
			return
		}
		_, _ = fmt.Fprintf(w, "[%s] %s\n", p.Phase, p.Message)
	}
}

func printSummary(w io.Writer, res *export.Result, output string) {
	st := res.Stats
	_, _ = fmt.Fprintf(w, "Exported %s files (%s pages, %s images) to %s\n",
		humanize.Comma(int64(st.Files)), humanize.Comma(int64(st.Pages)), humanize.Comma(int64(st.Assets)), output)
	if st.Assets > 0 && st.OriginalBytes > 0 {
		saved := 100 * (1 - float64(st.OptimizedBytes)/float64(st.OriginalBytes))
		_, _ = fmt.Fprintf(w, "Images: %s -> %s (%d%% smaller)\n",
			humanize.Bytes(uint64(st.OriginalBytes)), humanize.Bytes(uint64(st.OptimizedBytes)), int(math.Round(saved)))
	}
	if n := res.Report.Warnings(); n > 0 {
		_, _ = fmt.Fprintf(w, "Warnings: %d\n", n)
		for _, is := range res.Report.Issues {
			if is.Severity == export.SeverityInfo {
				continue
			}
			_, _ = fmt.Fprintf(w, "  %s %s: %s\n", is.Code, is.Subject, is.Message)
		}
	}
	_, _ = fmt.Fprintf(w, "Outcome: %s in %s\n", res.Report.Outcome, res.Report.Duration().Round(time.Millisecond))
}
