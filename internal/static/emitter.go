package static

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/sitepress/internal/assets"
	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/hosting"
	"git.home.luguber.info/inful/sitepress/internal/linkcheck"
	"git.home.luguber.info/inful/sitepress/internal/logfields"
	"git.home.luguber.info/inful/sitepress/internal/metrics"
	"git.home.luguber.info/inful/sitepress/internal/render"
	"git.home.luguber.info/inful/sitepress/internal/seo"
	"git.home.luguber.info/inful/sitepress/internal/site"
	"git.home.luguber.info/inful/sitepress/internal/theme"
)

const (
	stylesheetFile = "styles.css"
	scriptFile     = "script.js"
)

// Config configures an Emitter. Site must already be normalized.
type Config struct {
	Site      *site.Site
	Options   export.Options
	Profile   export.OptimizationProfile
	Preset    hosting.Preset
	Progress  export.ProgressFunc
	Recorder  metrics.Recorder
	Report    *export.Report
	Optimizer assets.Optimizer
}

// Emitter holds the state of one static export.
type Emitter struct {
	cfg       Config
	renderer  *render.Renderer
	session   *render.Session
	extractor *assets.Extractor
	variants  []site.Variant
	files     []export.ExportedFile
}

// New creates an Emitter for cfg.
func New(cfg Config) *Emitter {
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NoopRecorder{}
	}
	if cfg.Report == nil {
		cfg.Report = export.NewReport("", export.TargetStatic)
	}
	return &Emitter{
		cfg:      cfg,
		renderer: render.New(),
		session:  render.NewSession(),
		extractor: assets.NewExtractor(assets.Config{
			Profile:   cfg.Profile,
			PathStyle: assets.PathRelative,
			Workers:   cfg.Options.Workers,
			Progress:  cfg.Progress,
			Recorder:  cfg.Recorder,
			Optimizer: cfg.Optimizer,
		}),
		variants: cfg.Site.Variants(),
	}
}

// Stages returns the ordered export stages.
func (e *Emitter) Stages() []export.StageDef {
	return export.NewPipeline().
		Add(export.StageRenderPages, e.renderPages).
		Add(export.StageSynthesize, e.synthesize).
		Add(export.StageSEOArtifacts, e.seoArtifacts).
		Add(export.StageExtractImages, e.extractImages).
		Add(export.StageHostingFiles, e.hostingFiles).
		Add(export.StageVerifyLinks, e.verifyLinks).
		Add(export.StagePackage, e.pack).
		Build()
}

// Files returns the emitted files in emission order.
func (e *Emitter) Files() []export.ExportedFile { return e.files }

// Stats summarizes the emitted output.
func (e *Emitter) Stats() export.Stats {
	as := e.extractor.Stats()
	return export.Stats{
		Pages:          len(e.variants),
		Files:          len(e.files),
		Assets:         as.Count,
		OriginalBytes:  as.OriginalBytes,
		OptimizedBytes: as.OptimizedBytes,
	}
}

// DocumentPath maps a route to its output document ("/" -> "index.html",
// "/fr/about" -> "fr/about/index.html").
func DocumentPath(route string) string {
	dir := strings.Trim(route, "/")
	if dir == "" {
		return "index.html"
	}
	return dir + "/index.html"
}

func (e *Emitter) renderPages(ctx context.Context) error {
	s := e.cfg.Site
	total := len(e.variants)
	for i, v := range e.variants {
		if err := ctx.Err(); err != nil {
			return errors.CanceledError("export canceled while rendering").WithCause(err).
				WithContext("page", v.Page.Slug).WithContext("language", v.Language).Build()
		}
		e.cfg.Progress.Emit(export.Progress{
			Phase:   export.PhaseGenerating,
			Current: i + 1,
			Total:   total,
			Message: "Generating " + describe(v),
		})

		p := DocumentPath(v.Route)
		depth := strings.Count(p, "/")
		before := len(e.session.Failures())
		body := e.renderer.RenderTree(v.Components(), render.Context{
			Theme:           s.Theme,
			Pages:           s.Pages,
			CurrentSlug:     v.Page.Slug,
			Language:        v.Language,
			DefaultLanguage: s.DefaultLanguage,
			IsHomePage:      v.Page.IsHomePage,
			Links:           relativeLinks{site: s, depth: depth},
			FormActionURL:   e.cfg.Options.FormActionURL,
			Session:         e.session,
		})
		for _, f := range e.session.Failures()[before:] {
			e.cfg.Report.AddIssue(export.IssueRenderFailure, export.StageRenderPages, export.SeverityWarning,
				describe(v), string(f.Kind)+": "+f.Reason)
		}
		e.files = append(e.files, export.TextFile(p, seo.Document(e.head(v, depth), body)))
		slog.Debug("Rendered document", logfields.Page(v.Page.Slug), logfields.Language(v.Language), logfields.Path(p))
	}
	return nil
}

func (e *Emitter) head(v site.Variant, depth int) seo.Head {
	s := e.cfg.Site
	prefix := export.RelativePrefix(depth)
	meta := v.SEO()
	if meta == nil {
		meta = &site.SEO{}
	}
	title := meta.Title
	if title == "" {
		title = v.Title()
		if s.Name != "" && s.Name != title {
			title += " | " + s.Name
		}
	}
	lang := v.Language
	if lang == "" {
		lang = s.DefaultLanguage
	}
	h := seo.Head{
		Lang:           lang,
		Title:          title,
		SiteName:       s.Name,
		Description:    meta.Description,
		Keywords:       meta.Keywords,
		Image:          meta.Image,
		NoIndex:        meta.NoIndex,
		Favicon:        favicon(s.Favicon, prefix),
		Fonts:          s.Theme.WebFonts(),
		StylesheetHref: prefix + stylesheetFile,
		ScriptSrc:      prefix + scriptFile,
	}
	if e.cfg.Options.SiteURL != "" {
		h.Canonical = seo.AbsoluteURL(e.cfg.Options.SiteURL, v.Route)
	}
	if len(v.Page.Translations) > 0 {
		h.Alternates = append(h.Alternates, e.alternate(s.DefaultLanguage, s.RouteFor(v.Page.Slug, ""), prefix))
		for _, l := range v.Page.TranslationLanguages() {
			h.Alternates = append(h.Alternates, e.alternate(l, s.RouteFor(v.Page.Slug, l), prefix))
		}
		h.Alternates = append(h.Alternates, e.alternate("x-default", s.RouteFor(v.Page.Slug, ""), prefix))
	}
	return h
}

func (e *Emitter) alternate(lang, route, prefix string) seo.Alternate {
	if e.cfg.Options.SiteURL != "" {
		return seo.Alternate{Lang: lang, Href: seo.AbsoluteURL(e.cfg.Options.SiteURL, route)}
	}
	return seo.Alternate{Lang: lang, Href: relativeHref(prefix, route)}
}

func (e *Emitter) synthesize(context.Context) error {
	e.files = append(e.files,
		export.TextFile(stylesheetFile, theme.Stylesheet(e.cfg.Site.Theme)),
		export.TextFile(scriptFile, theme.BehaviorScript()),
	)
	return nil
}

func (e *Emitter) seoArtifacts(context.Context) error {
	base := e.cfg.Options.SiteURL
	var disallow []string
	var entries []seo.Entry
	for _, v := range e.variants {
		if meta := v.SEO(); meta != nil && meta.NoIndex {
			disallow = append(disallow, v.Route)
			continue
		}
		entry := seo.Entry{Route: v.Route}
		if v.Page.IsHomePage && v.Language == "" {
			entry.Priority = "1.0"
		}
		entries = append(entries, entry)
	}
	if base == "" {
		e.files = append(e.files, export.TextFile("robots.txt", seo.Robots("", disallow)))
		return nil
	}
	e.files = append(e.files, export.TextFile("robots.txt", seo.Robots(seo.AbsoluteURL(base, "/sitemap.xml"), disallow)))
	sitemap, err := seo.Sitemap(base, entries)
	if err != nil {
		return errors.InternalError("failed to encode sitemap").WithCause(err).Build()
	}
	e.files = append(e.files, export.TextFile("sitemap.xml", sitemap))
	return nil
}

func (e *Emitter) extractImages(ctx context.Context) error {
	files, err := e.extractor.Process(ctx, e.files)
	e.extractor.RecordIssues(e.cfg.Report, export.StageExtractImages)
	if err != nil {
		return err
	}
	e.files = files
	return nil
}

func (e *Emitter) hostingFiles(context.Context) error {
	extra := e.cfg.Preset.ConfigFiles(hosting.FileContext{
		Target:   export.TargetStatic,
		SiteSlug: siteSlug(e.cfg.Site),
	})
	e.files = hosting.AppendFiles(e.files, extra, e.cfg.Report)
	return nil
}

func (e *Emitter) verifyLinks(context.Context) error {
	broken, err := linkcheck.Check(e.files)
	if err != nil {
		return export.NewWarnStageError(export.StageVerifyLinks, err)
	}
	for _, b := range broken {
		e.cfg.Report.AddIssue(export.IssueBrokenLink, export.StageVerifyLinks, export.SeverityWarning,
			b.Source, b.Link.Tag+" "+b.Link.Attribute+"="+strconv.Quote(b.Link.URL)+" does not resolve to "+b.Target)
	}
	if len(broken) > 0 {
		slog.Warn("Broken internal links", slog.Int("count", len(broken)))
	}
	return nil
}

func (e *Emitter) pack(context.Context) error {
	st := e.Stats()
	e.cfg.Progress.Emit(export.Progress{
		Phase:      export.PhasePackaging,
		Current:    st.Files,
		Total:      st.Files,
		Message:    "Packaging " + strconv.Itoa(st.Files) + " files",
		ImageCount: st.Assets,
		FileCount:  st.Files,
	})
	return nil
}

// favicon makes a relative favicon path valid from a nested document.
func favicon(href, prefix string) string {
	if href == "" || strings.HasPrefix(href, "/") || strings.HasPrefix(href, "data:") || strings.Contains(href, "://") {
		return href
	}
	return prefix + strings.TrimPrefix(href, "./")
}

func describe(v site.Variant) string {
	if v.Language == "" {
		return v.Page.Slug
	}
	return v.Page.Slug + " (" + v.Language + ")"
}

func siteSlug(s *site.Site) string {
	if s.Slug != "" {
		return s.Slug
	}
	return site.Slugify(s.Name)
}

