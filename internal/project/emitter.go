package project

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitepress/internal/assets"
	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/foundation/errors"
	"git.home.luguber.info/inful/sitepress/internal/hosting"
	"git.home.luguber.info/inful/sitepress/internal/logfields"
	"git.home.luguber.info/inful/sitepress/internal/metrics"
	"git.home.luguber.info/inful/sitepress/internal/render"
	"git.home.luguber.info/inful/sitepress/internal/seo"
	"git.home.luguber.info/inful/sitepress/internal/site"
	"git.home.luguber.info/inful/sitepress/internal/theme"
)

// PublicDir is copied verbatim into the build output by Vite.
const PublicDir = "public"

// Config configures an Emitter. Site must already be normalized. Preset is
// nil when no hosting platform was requested.
type Config struct {
	Site      *site.Site
	Options   export.Options
	Profile   export.OptimizationProfile
	Preset    *hosting.Preset
	Progress  export.ProgressFunc
	Recorder  metrics.Recorder
	Report    *export.Report
	Optimizer assets.Optimizer
}

// Route is one client-side route and the view serving it.
type Route struct {
	Path    string
	View    string
	Variant site.Variant
}

// Emitter holds the state of one project export.
type Emitter struct {
	cfg       Config
	renderer  *render.Renderer
	session   *render.Session
	extractor *assets.Extractor
	routes    []Route
	files     []export.ExportedFile
}

// New creates an Emitter for cfg and resolves the route table.
func New(cfg Config) *Emitter {
	if cfg.Recorder == nil {
		cfg.Recorder = metrics.NoopRecorder{}
	}
	if cfg.Report == nil {
		cfg.Report = export.NewReport("", export.TargetProject)
	}
	return &Emitter{
		cfg:      cfg,
		renderer: render.New(),
		session:  render.NewSession(),
		extractor: assets.NewExtractor(assets.Config{
			Profile:    cfg.Profile,
			PathStyle:  assets.PathRootAbsolute,
			OutputDir:  PublicDir + "/assets",
			PublicPath: "/assets",
			Workers:    cfg.Options.Workers,
			Progress:   cfg.Progress,
			Recorder:   cfg.Recorder,
			Optimizer:  cfg.Optimizer,
		}),
		routes: Routes(cfg.Site),
	}
}

// Routes resolves the route table: one route per page and translation,
// each with a unique view identifier.
func Routes(s *site.Site) []Route {
	namer := newViewNamer()
	var out []Route
	for _, v := range s.Variants() {
		out = append(out, Route{Path: v.Route, View: namer.name(v.Page.Slug, v.Language), Variant: v})
	}
	return out
}

// Stages returns the ordered export stages.
func (e *Emitter) Stages() []export.StageDef {
	return export.NewPipeline().
		Add(export.StageScaffold, e.scaffold).
		Add(export.StageSynthesize, e.synthesize).
		Add(export.StageRenderPages, e.renderPages).
		Add(export.StageExtractImages, e.extractImages).
		Add(export.StageSEOArtifacts, e.seoArtifacts).
		Add(export.StageHostingFiles, e.hostingFiles).
		Add(export.StagePackage, e.pack).
		Build()
}

// Files returns the emitted files in emission order.
func (e *Emitter) Files() []export.ExportedFile { return e.files }

// RouteTable returns the resolved routes.
func (e *Emitter) RouteTable() []Route { return e.routes }

// Stats summarizes the emitted output.
func (e *Emitter) Stats() export.Stats {
	as := e.extractor.Stats()
	return export.Stats{
		Pages:          len(e.routes),
		Files:          len(e.files),
		Assets:         as.Count,
		OriginalBytes:  as.OriginalBytes,
		OptimizedBytes: as.OptimizedBytes,
	}
}

func (e *Emitter) add(files ...export.ExportedFile) { e.files = append(e.files, files...) }

func (e *Emitter) scaffold(context.Context) error {
	s := e.cfg.Site
	home := e.routes[0].Variant
	for _, r := range e.routes {
		if r.Path == "/" {
			home = r.Variant
		}
	}
	desc := ""
	if meta := home.SEO(); meta != nil {
		desc = meta.Description
	}
	index, err := execute("index.html", map[string]string{
		"Lang":        html.EscapeString(s.DefaultLanguage),
		"Title":       html.EscapeString(s.Name),
		"Description": html.EscapeString(desc),
		"Favicon":     html.EscapeString(s.Favicon),
		"FontsURL":    html.EscapeString(seo.FontsURL(s.Theme.WebFonts())),
	})
	if err != nil {
		return templateError("index.html", err)
	}

	e.add(
		packageManifest(npmName(siteSlug(s))),
		tsconfigFile(),
		export.TextFile("index.html", index),
	)
	for _, f := range []struct{ path, tmpl string }{
		{"vite.config.ts", "vite.config.ts"},
		{".gitignore", "gitignore"},
		{"src/main.tsx", "main.tsx"},
		{"src/components/ThemeToggle.tsx", "ThemeToggle.tsx"},
		{"src/lib/seo.ts", "seo.ts"},
		{"src/lib/behavior.d.ts", "behavior.d.ts"},
	} {
		out, err := execute(f.tmpl, nil)
		if err != nil {
			return templateError(f.path, err)
		}
		e.add(export.TextFile(f.path, out))
	}
	e.add(
		export.TextFile("src/vite-env.d.ts", "/// <reference types=\"vite/client\" />\n"),
		export.TextFile("src/lib/behavior.js", theme.BehaviorModule()),
	)
	return nil
}

func (e *Emitter) synthesize(context.Context) error {
	e.add(export.TextFile("src/styles.css", theme.Stylesheet(e.cfg.Site.Theme)+appShellCSS))
	return nil
}

type seoMeta struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Keywords    []string        `json:"keywords,omitempty"`
	Image       string          `json:"image,omitempty"`
	Canonical   string          `json:"canonical,omitempty"`
	Lang        string          `json:"lang"`
	NoIndex     bool            `json:"noIndex,omitempty"`
	Alternates  []seo.Alternate `json:"alternates,omitempty"`
}

func (e *Emitter) renderPages(ctx context.Context) error {
	s := e.cfg.Site
	total := len(e.routes)
	for i, r := range e.routes {
		v := r.Variant
		if err := ctx.Err(); err != nil {
			return errors.CanceledError("export canceled while rendering").WithCause(err).
				WithContext("page", v.Page.Slug).WithContext("language", v.Language).Build()
		}
		e.cfg.Progress.Emit(export.Progress{
			Phase:   export.PhaseGenerating,
			Current: i + 1,
			Total:   total,
			Message: "Generating " + r.View,
		})

		before := len(e.session.Failures())
		markup := e.renderer.RenderTree(v.Components(), render.Context{
			Theme:           s.Theme,
			Pages:           s.Pages,
			CurrentSlug:     v.Page.Slug,
			Language:        v.Language,
			DefaultLanguage: s.DefaultLanguage,
			IsHomePage:      v.Page.IsHomePage,
			Links:           routeLinks{site: s},
			FormActionURL:   e.cfg.Options.FormActionURL,
			Session:         e.session,
		})
		for _, f := range e.session.Failures()[before:] {
			e.cfg.Report.AddIssue(export.IssueRenderFailure, export.StageRenderPages, export.SeverityWarning,
				r.View, string(f.Kind)+": "+f.Reason)
		}

		meta, err := json.MarshalIndent(e.seoFor(r), "", "  ")
		if err != nil {
			return errors.InternalError("failed to encode page metadata").WithCause(err).WithContext("page", v.Page.Slug).Build()
		}
		view, err := execute("view.tsx", map[string]string{
			"View":   r.View,
			"Markup": jsString(markup),
			"SEO":    string(meta),
			"Lang":   e.lang(v),
		})
		if err != nil {
			return templateError(r.View, err)
		}

		processed, err := e.extractor.Process(ctx, []export.ExportedFile{export.TextFile("src/pages/"+r.View+".tsx", view)})
		e.extractor.RecordIssues(e.cfg.Report, export.StageRenderPages)
		if err != nil {
			return err
		}
		e.add(processed...)
		slog.Debug("Generated view", logfields.Page(v.Page.Slug), logfields.Language(v.Language), slog.String("view", r.View))
	}

	app, err := execute("App.tsx", map[string]any{
		"Routes":    e.routes,
		"ShellNav":  !hasNavigation(s),
		"NavRoutes": e.navRoutes(),
	})
	if err != nil {
		return templateError("App.tsx", err)
	}
	notFound, err := execute("NotFound.tsx", map[string]string{
		"Title": "Page not found | " + s.Name,
		"Lang":  s.DefaultLanguage,
	})
	if err != nil {
		return templateError("NotFound.tsx", err)
	}
	e.add(
		export.TextFile("src/App.tsx", app),
		export.TextFile("src/pages/NotFound.tsx", notFound),
	)
	return nil
}

func (e *Emitter) lang(v site.Variant) string {
	if v.Language != "" {
		return v.Language
	}
	return e.cfg.Site.DefaultLanguage
}

func (e *Emitter) seoFor(r Route) seoMeta {
	s := e.cfg.Site
	v := r.Variant
	meta := v.SEO()
	if meta == nil {
		meta = &site.SEO{}
	}
	out := seoMeta{
		Title:       meta.Title,
		Description: meta.Description,
		Keywords:    meta.Keywords,
		Image:       meta.Image,
		Lang:        e.lang(v),
		NoIndex:     meta.NoIndex,
	}
	if out.Title == "" {
		out.Title = v.Title()
		if s.Name != "" && s.Name != out.Title {
			out.Title += " | " + s.Name
		}
	}
	if e.cfg.Options.SiteURL != "" {
		out.Canonical = seo.AbsoluteURL(e.cfg.Options.SiteURL, r.Path)
	}
	if len(v.Page.Translations) > 0 {
		out.Alternates = e.alternates(v.Page)
	}
	return out
}

func (e *Emitter) alternates(p *site.Page) []seo.Alternate {
	s := e.cfg.Site
	base := e.cfg.Options.SiteURL
	href := func(route string) string {
		if base == "" {
			return route
		}
		return seo.AbsoluteURL(base, route)
	}
	out := []seo.Alternate{{Lang: s.DefaultLanguage, Href: href(s.RouteFor(p.Slug, ""))}}
	for _, l := range p.TranslationLanguages() {
		out = append(out, seo.Alternate{Lang: l, Href: href(s.RouteFor(p.Slug, l))})
	}
	return append(out, seo.Alternate{Lang: "x-default", Href: href(s.RouteFor(p.Slug, ""))})
}

type navRoute struct {
	Path  string
	Title string
}

// navRoutes lists the default-language routes for the shell navigation.
func (e *Emitter) navRoutes() []navRoute {
	var out []navRoute
	for _, r := range e.routes {
		if r.Variant.Language == "" {
			out = append(out, navRoute{Path: r.Path, Title: r.Variant.Title()})
		}
	}
	return out
}

// hasNavigation reports whether any page carries its own navigation component.
func hasNavigation(s *site.Site) bool {
	var walk func([]site.Component) bool
	walk = func(cs []site.Component) bool {
		for _, c := range cs {
			if c.Kind == site.KindNavbar || c.Kind == site.KindMobileMenu || c.Kind == site.KindSidebarNav {
				return true
			}
			if walk(c.Children) {
				return true
			}
		}
		return false
	}
	for _, v := range s.Variants() {
		if walk(v.Components()) {
			return true
		}
	}
	return false
}

// extractImages handles inline images outside page views, such as a data URI favicon.
func (e *Emitter) extractImages(ctx context.Context) error {
	for i, f := range e.files {
		if f.Path != "index.html" {
			continue
		}
		processed, err := e.extractor.Process(ctx, []export.ExportedFile{f})
		e.extractor.RecordIssues(e.cfg.Report, export.StageExtractImages)
		if err != nil {
			return err
		}
		e.files[i] = processed[0]
		e.add(processed[1:]...)
		break
	}
	return nil
}

func (e *Emitter) seoArtifacts(context.Context) error {
	base := seo.BaseURL(e.cfg.Options.SiteURL)
	var disallow []string
	var entries []seo.Entry
	for _, r := range e.routes {
		if meta := r.Variant.SEO(); meta != nil && meta.NoIndex {
			disallow = append(disallow, r.Path)
			continue
		}
		entry := seo.Entry{Route: r.Path}
		if r.Path == "/" {
			entry.Priority = "1.0"
		}
		entries = append(entries, entry)
	}
	sitemap, err := seo.Sitemap(base, entries)
	if err != nil {
		return errors.InternalError("failed to encode sitemap").WithCause(err).Build()
	}
	e.add(
		export.TextFile(PublicDir+"/sitemap.xml", sitemap),
		export.TextFile(PublicDir+"/robots.txt", seo.Robots(seo.AbsoluteURL(base, "/sitemap.xml"), disallow)),
	)
	return nil
}

func (e *Emitter) hostingFiles(context.Context) error {
	var platformFiles []export.ExportedFile
	if e.cfg.Preset != nil {
		platformFiles = e.cfg.Preset.ConfigFiles(hosting.FileContext{
			Target:    export.TargetProject,
			SiteSlug:  siteSlug(e.cfg.Site),
			PublicDir: PublicDir,
		})
	}
	paths := make([]string, 0, len(platformFiles))
	for _, f := range platformFiles {
		paths = append(paths, f.Path)
	}
	sample := "/"
	if len(e.routes) > 1 {
		sample = e.routes[1].Path
	}
	note, err := execute("DEPLOY.md", map[string]any{
		"SiteName":       e.cfg.Site.Name,
		"Preset":         e.cfg.Preset,
		"Files":          paths,
		"Routes":         e.routes,
		"SampleRoute":    sample,
		"BaseURL":        seo.BaseURL(e.cfg.Options.SiteURL),
		"PlaceholderURL": e.cfg.Options.SiteURL == "",
	})
	if err != nil {
		return templateError("DEPLOY.md", err)
	}
	e.files = hosting.AppendFiles(e.files, append(platformFiles, export.TextFile("DEPLOY.md", note)), e.cfg.Report)
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

func templateError(name string, err error) error {
	return errors.InternalError("failed to render project template").WithCause(err).WithContext("path", name).Build()
}

func siteSlug(s *site.Site) string {
	if s.Slug != "" {
		return s.Slug
	}
	return site.Slugify(s.Name)
}

// routeLinks resolves page links to client-side routes.
type routeLinks struct {
	site *site.Site
}

func (l routeLinks) PageHref(slug, lang string) string { return l.site.RouteFor(slug, lang) }

const appShellCSS = `
/* application shell */
.sp-app-bar {
  display: flex;
  align-items: center;
  justify-content: flex-end;
  gap: 1rem;
  padding: 0.5rem 1rem;
}
.sp-app-nav {
  display: flex;
  flex-wrap: wrap;
  gap: 1rem;
  margin-right: auto;
}
.sp-app-nav a {
  color: var(--sp-text);
  text-decoration: none;
}
.sp-app-nav a.active {
  color: var(--sp-primary);
  font-weight: 600;
}
.sp-theme-toggle {
  background: transparent;
  border: 1px solid var(--sp-border);
  border-radius: 999px;
  color: var(--sp-text);
  cursor: pointer;
  height: 2.25rem;
  width: 2.25rem;
}
.sp-loading {
  min-height: 50vh;
}
.sp-not-found {
  text-align: center;
}
`
