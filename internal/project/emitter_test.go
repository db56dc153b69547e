package project

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepress/internal/export"
	"git.home.luguber.info/inful/sitepress/internal/hosting"
	"git.home.luguber.info/inful/sitepress/internal/site"
	"git.home.luguber.info/inful/sitepress/internal/theme"
)

var (
	pixel      = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nproject-png"))
	identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

func heading(text string) site.Component {
	return site.Component{Kind: site.KindHeading, Props: site.Props{"text": text}}
}

func emit(t *testing.T, in *site.Site, cfg Config) (map[string]string, *Emitter) {
	t.Helper()
	s, _, err := site.Normalize(in)
	require.NoError(t, err)
	cfg.Site = s
	if cfg.Profile == (export.OptimizationProfile{}) {
		cfg.Profile = export.DefaultProfile()
		cfg.Profile.Enabled = false
	}
	cfg.Report = export.NewReport("test", export.TargetProject)
	e := New(cfg)
	require.NoError(t, export.RunStages(context.Background(), cfg.Report, nil, e.Stages()))
	byPath := map[string]string{}
	for _, f := range e.Files() {
		_, dup := byPath[f.Path]
		require.False(t, dup, "duplicate path %s", f.Path)
		byPath[f.Path] = f.Text()
	}
	return byPath, e
}

func TestProjectLayout(t *testing.T) {
	files, _ := emit(t, &site.Site{Name: "Acme & Co", Pages: []site.Page{
		{Slug: "home", Title: "Home", IsHomePage: true, Components: []site.Component{heading("Hello")}},
	}}, Config{})

	for _, p := range []string{
		"package.json", "tsconfig.json", "vite.config.ts", "index.html", ".gitignore",
		"src/main.tsx", "src/App.tsx", "src/styles.css", "src/vite-env.d.ts",
		"src/components/ThemeToggle.tsx", "src/lib/behavior.js", "src/lib/behavior.d.ts", "src/lib/seo.ts",
		"src/pages/HomePage.tsx", "src/pages/NotFound.tsx",
		"public/sitemap.xml", "public/robots.txt", "DEPLOY.md",
	} {
		assert.Contains(t, files, p)
	}

	var pkg packageJSON
	require.NoError(t, json.Unmarshal([]byte(files["package.json"]), &pkg))
	assert.Equal(t, "acme-co", pkg.Name)
	assert.Equal(t, "vite build", strings.TrimPrefix(pkg.Scripts["build"], "tsc --noEmit && "))
	assert.Contains(t, pkg.Dependencies, "react-router-dom")

	assert.Equal(t, theme.BehaviorModule(), files["src/lib/behavior.js"])
	assert.Contains(t, files["index.html"], "<title>Acme &amp; Co</title>")
	assert.Contains(t, files["index.html"], `<script type="module" src="/src/main.tsx"></script>`)
	assert.Contains(t, files["src/styles.css"], "--sp-primary")
	assert.Contains(t, files["src/styles.css"], ".sp-theme-toggle")
	assert.Contains(t, files["src/components/ThemeToggle.tsx"], "localStorage")
	assert.Contains(t, files["public/sitemap.xml"], "<loc>https://example.com/</loc>")
}

func TestViewEmbedsMarkupAndMountHook(t *testing.T) {
	files, _ := emit(t, &site.Site{Pages: []site.Page{
		{Slug: "home", IsHomePage: true, Components: []site.Component{heading(`Say "hi" </script>`)},
			SEO: &site.SEO{Description: "Welcome"}},
	}}, Config{})

	view := files["src/pages/HomePage.tsx"]
	assert.Contains(t, view, "export default function HomePage()")
	assert.Contains(t, view, "applySeo(seo);")
	assert.Contains(t, view, "window.scrollTo(0, 0);")
	assert.Contains(t, view, "return initSitepress(ref.current ?? document);")
	assert.Contains(t, view, `"description": "Welcome"`)
	assert.Contains(t, view, `<h2 class=\"sp-heading\">Say &#34;hi&#34; &lt;/script&gt;</h2>`)
	assert.NotContains(t, view, "</script>")
}

func TestScenarioC_DistinctRoutesAndViews(t *testing.T) {
	files, e := emit(t, &site.Site{Pages: []site.Page{
		{Slug: "home", IsHomePage: true},
		{Slug: "about", Title: "About", Translations: map[string]site.Translation{"fr": {Title: "À propos"}}},
	}}, Config{})

	byPath := map[string]string{}
	for _, r := range e.RouteTable() {
		byPath[r.Path] = r.View
	}
	assert.Equal(t, "AboutPage", byPath["/about"])
	assert.Equal(t, "AboutPageFr", byPath["/fr/about"])

	app := files["src/App.tsx"]
	assert.Contains(t, app, `const AboutPageFr = lazy(() => import('./pages/AboutPageFr'));`)
	assert.Contains(t, app, `<Route path={"/fr/about"} element={<AboutPageFr />} />`)
	assert.Contains(t, app, `<Route path="*" element={<NotFound />} />`)
	assert.Contains(t, files["src/pages/AboutPageFr.tsx"], `lang={"fr"}`)
	assert.Contains(t, files["src/pages/AboutPageFr.tsx"], `"href": "/fr/about"`)
	assert.Contains(t, files["src/pages/AboutPage.tsx"], `"lang": "x-default"`)
}

func TestRouteUniquenessWithSpecialSlugs(t *testing.T) {
	slugs := []string{"Über uns!", "uber-uns", "404", "App", "not found", "***", "café", "cafe", "über uns"}
	var pages []site.Page
	for i, s := range slugs {
		pages = append(pages, site.Page{Slug: s, IsHomePage: i == 0, Translations: map[string]site.Translation{"pt-BR": {}}})
	}
	files, e := emit(t, &site.Site{Pages: pages}, Config{})

	routes := map[string]bool{}
	views := map[string]bool{}
	for _, r := range e.RouteTable() {
		assert.False(t, routes[r.Path], "duplicate route %s", r.Path)
		assert.False(t, views[r.View], "duplicate view %s", r.View)
		assert.Regexp(t, identifier, r.View)
		assert.NotEqual(t, "App", r.View)
		assert.NotEqual(t, "NotFound", r.View)
		routes[r.Path] = true
		views[r.View] = true
		assert.Contains(t, files, "src/pages/"+r.View+".tsx")
	}
	assert.Len(t, e.RouteTable(), 2*len(slugs))
}

func TestViewName(t *testing.T) {
	tests := []struct{ slug, lang, want string }{
		{"about", "", "AboutPage"},
		{"about-us", "", "AboutUsPage"},
		{"über-uns", "", "UberUnsPage"},
		{"about", "fr", "AboutPageFr"},
		{"about", "pt-BR", "AboutPagePtBr"},
		{"404", "", "View404Page"},
		{"", "", "UntitledPage"},
		{"!!!", "de", "UntitledPageDe"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ViewName(tt.slug, tt.lang), tt.slug)
	}

	n := newViewNamer()
	assert.Equal(t, "AboutPage", n.name("about", ""))
	assert.Equal(t, "AboutPage2", n.name("About!", ""))
}

func TestHiddenEverywhereIsAbsent(t *testing.T) {
	hidden := heading("secret")
	hidden.Hidden = site.Breakpoints{Desktop: true, Tablet: true, Mobile: true}
	files, _ := emit(t, &site.Site{Pages: []site.Page{
		{Slug: "home", IsHomePage: true, Components: []site.Component{hidden, heading("visible")}},
	}}, Config{})
	assert.NotContains(t, files["src/pages/HomePage.tsx"], "secret")
	assert.Contains(t, files["src/pages/HomePage.tsx"], "visible")
}

func TestSharedAssetNumberingAcrossPages(t *testing.T) {
	img := site.Component{Kind: site.KindImage, Props: site.Props{"src": pixel}}
	files, e := emit(t, &site.Site{Favicon: pixel, Pages: []site.Page{
		{Slug: "home", IsHomePage: true, Components: []site.Component{img}},
		{Slug: "about", Components: []site.Component{img}},
	}}, Config{})

	var assetPaths []string
	for _, f := range e.Files() {
		if strings.HasPrefix(f.Path, "public/assets/") {
			assetPaths = append(assetPaths, f.Path)
		}
	}
	assert.Equal(t, []string{"public/assets/image-1.png"}, assetPaths)
	assert.Contains(t, files["src/pages/HomePage.tsx"], `src=\"/assets/image-1.png\"`)
	assert.Contains(t, files["src/pages/AboutPage.tsx"], `src=\"/assets/image-1.png\"`)
	assert.Contains(t, files["index.html"], `<link rel="icon" href="/assets/image-1.png">`)
	assert.Equal(t, 1, e.Stats().Assets)
}

func TestDeployNote(t *testing.T) {
	generic, _ := emit(t, &site.Site{Name: "Acme", Pages: []site.Page{{Slug: "home", IsHomePage: true}, {Slug: "about"}}}, Config{})
	assert.Contains(t, generic["DEPLOY.md"], "Configure your host to serve `index.html`")
	assert.Contains(t, generic["DEPLOY.md"], "`/about`")
	assert.Contains(t, generic["DEPLOY.md"], "replace it with your domain")

	preset := hosting.Resolve("netlify")
	netlify, _ := emit(t, &site.Site{Name: "Acme", Pages: []site.Page{{Slug: "home", IsHomePage: true}}},
		Config{Preset: &preset, Options: export.Options{SiteURL: "https://acme.test"}})
	note := netlify["DEPLOY.md"]
	assert.Contains(t, note, "## Deploy to Netlify")
	assert.Contains(t, note, "1. Push the exported files")
	assert.Contains(t, note, "- `netlify.toml`")
	assert.Contains(t, note, "- `public/_redirects`")
	assert.NotContains(t, note, "replace it with your domain")
	assert.Contains(t, netlify, "netlify.toml")
	assert.Contains(t, netlify["public/sitemap.xml"], "https://acme.test/")
}

func TestShellNavigationOnlyWithoutNavbar(t *testing.T) {
	files, _ := emit(t, &site.Site{Pages: []site.Page{{Slug: "home", Title: "Home", IsHomePage: true}, {Slug: "about", Title: "About"}}}, Config{})
	assert.Contains(t, files["src/App.tsx"], `<NavLink to={"/about"} end>{"About"}</NavLink>`)

	nav := site.Component{Kind: site.KindNavbar, Props: site.Props{"brand": "Acme"}}
	files, _ = emit(t, &site.Site{Pages: []site.Page{{Slug: "home", IsHomePage: true, Components: []site.Component{nav}}}}, Config{})
	assert.NotContains(t, files["src/App.tsx"], "<NavLink")
	assert.Contains(t, files["src/pages/HomePage.tsx"], `href=\"/\"`)
}

func TestProjectIdempotent(t *testing.T) {
	in := &site.Site{Name: "Acme", Pages: []site.Page{
		{Slug: "home", IsHomePage: true, Components: []site.Component{
			{Kind: site.KindParagraph, Props: site.Props{"text": "p"}, Styles: site.Styles{Tablet: map[string]string{"color": "red"}}},
			{Kind: site.KindImage, Props: site.Props{"src": pixel}},
		}},
		{Slug: "about", Translations: map[string]site.Translation{"fr": {}, "es": {}}},
	}}
	_, a := emit(t, in, Config{})
	_, b := emit(t, in, Config{})
	assert.Equal(t, a.Files(), b.Files())
}
