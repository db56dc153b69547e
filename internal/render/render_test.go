package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

const panicKind site.Kind = "test-panic"

func init() {
	register(panicKind, func(*node) string { panic("handler exploded") })
}

func testContext() Context {
	return Context{
		Theme: site.DefaultTheme(),
		Pages: []site.Page{
			{Slug: "home", Title: "Home", IsHomePage: true},
			{Slug: "about", Title: "About", Translations: map[string]site.Translation{"fr": {Title: "À propos"}}},
		},
		CurrentSlug:     "about",
		DefaultLanguage: "en",
	}
}

// findAll returns the element nodes of a fragment matching pred.
func findAll(t *testing.T, markup string, pred func(*html.Node) bool) []*html.Node {
	t.Helper()
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	require.NoError(t, err)
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return out
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestEveryKindHasHandler(t *testing.T) {
	for _, k := range site.AllKinds() {
		assert.True(t, HasHandler(k), "missing handler for %s", k)
	}
}

func TestEveryKindRendersWithEmptyProps(t *testing.T) {
	r := New()
	for _, k := range site.AllKinds() {
		out := r.Render(site.Component{Kind: k}, testContext())
		assert.NotContains(t, out, "render failed", "kind %s", k)
	}
}

func TestHeadingEscapesText(t *testing.T) {
	r := New()
	out := r.Render(site.Component{Kind: site.KindHeading, Props: site.Props{"text": "Hello"}}, testContext())
	assert.Equal(t, `<h2 class="sp-heading">Hello</h2>`, out)

	out = r.Render(site.Component{Kind: site.KindHeading, Props: site.Props{"text": "<script>x</script>", "level": 1}}, testContext())
	assert.Equal(t, `<h1 class="sp-heading">&lt;script&gt;x&lt;/script&gt;</h1>`, out)
}

func TestRawPropsPassThrough(t *testing.T) {
	r := New()
	out := r.Render(site.Component{Kind: site.KindRichText, Props: site.Props{"html": "<b>bold</b>"}}, testContext())
	assert.Contains(t, out, "<b>bold</b>")

	out = r.Render(site.Component{Kind: site.KindCustomHTML, Props: site.Props{"html": "<marquee>hi</marquee>"}}, testContext())
	assert.Contains(t, out, "<marquee>hi</marquee>")
}

func TestMarkdownDropsRawHTML(t *testing.T) {
	r := New()
	out := r.Render(site.Component{Kind: site.KindMarkdown, Props: site.Props{"content": "# Title\n\n<script>alert(1)</script>\n\n*em*"}}, testContext())
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<em>em</em>")
	assert.NotContains(t, out, "<script>")
}

func TestUnknownKindIsInertMarker(t *testing.T) {
	r := New()
	var out string
	require.NotPanics(t, func() {
		out = r.Render(site.Component{Kind: "hologram"}, testContext())
	})
	assert.Equal(t, `<!-- sitepress: unknown component "hologram" -->`, out)
}

func TestHiddenEverywhereIsElided(t *testing.T) {
	r := New()
	c := site.Component{
		Kind:   site.KindParagraph,
		Props:  site.Props{"text": "secret"},
		Hidden: site.Breakpoints{Desktop: true, Tablet: true, Mobile: true},
		Styles: site.Styles{Mobile: map[string]string{"color": "red"}},
	}
	assert.Empty(t, r.Render(c, testContext()))
}

func TestColumnsWithMobileHiddenChild(t *testing.T) {
	r := New()
	c := site.Component{
		Kind: site.KindColumns,
		Children: []site.Component{
			{Kind: site.KindParagraph, Props: site.Props{"text": "one"}},
			{Kind: site.KindParagraph, Props: site.Props{"text": "two"}, Hidden: site.Breakpoints{Mobile: true}},
			{Kind: site.KindParagraph, Props: site.Props{"text": "three"}},
		},
	}
	out := r.Render(c, testContext())

	paras := findAll(t, out, func(n *html.Node) bool { return n.Data == "p" })
	require.Len(t, paras, 3)
	marked := findAll(t, out, func(n *html.Node) bool { return hasClass(n, "hide-mobile") })
	require.Len(t, marked, 1)
	assert.Equal(t, "two", marked[0].FirstChild.Data)
	assert.Empty(t, findAll(t, out, func(n *html.Node) bool { return hasClass(n, "hide-desktop") || hasClass(n, "hide-tablet") }))
}

func TestResponsiveOverridesUseSessionCounter(t *testing.T) {
	r := New()
	ctx := testContext()
	ctx.Session = NewSession()
	c := site.Component{
		Kind:  site.KindParagraph,
		Props: site.Props{"text": "x"},
		Styles: site.Styles{
			Desktop: map[string]string{"fontSize": "20px", "color": "blue"},
			Tablet:  map[string]string{"fontSize": "18px"},
			Mobile:  map[string]string{"fontSize": "14px"},
		},
	}
	first := r.Render(c, ctx)
	second := r.Render(c, ctx)

	assert.Equal(t, `<style>@media (max-width:1024px){.rs-1{font-size:18px !important}}@media (max-width:640px){.rs-1{font-size:14px !important}}</style>`+
		`<p class="sp-paragraph rs-1" style="color:blue;font-size:20px">x</p>`, first)
	assert.Contains(t, second, "rs-2")

	fresh := testContext()
	fresh.Session = NewSession()
	assert.Equal(t, first, r.Render(c, fresh), "a new session restarts numbering")
}

func TestStyleValuesCannotEscapeRule(t *testing.T) {
	r := New()
	c := site.Component{
		Kind:   site.KindParagraph,
		Styles: site.Styles{Mobile: map[string]string{"color": "red}</style><script>"}},
	}
	out := r.Render(c, testContext())
	assert.NotContains(t, out, "<script>")
	assert.Equal(t, 1, strings.Count(out, "</style>"))
}

func TestAnimationAttributes(t *testing.T) {
	r := New()
	c := site.Component{
		Kind:      site.KindHeading,
		Props:     site.Props{"text": "Hi"},
		Animation: &site.Animation{Kind: "fade-up", Delay: 200, Speed: "fast"},
	}
	out := r.Render(c, testContext())
	assert.Contains(t, out, `data-animate="fade-up"`)
	assert.Contains(t, out, `data-animate-delay="200"`)
	assert.Contains(t, out, `data-animate-speed="fast"`)
}

func TestDeterministicOutput(t *testing.T) {
	r := New()
	tree := []site.Component{
		{Kind: site.KindNavbar, Props: site.Props{"brand": "Acme"}},
		{Kind: site.KindTabs, Props: site.Props{"tabs": []any{map[string]any{"label": "A", "content": "a"}, map[string]any{"label": "B", "content": "b"}}}},
		{Kind: site.KindSection, Styles: site.Styles{Tablet: map[string]string{"padding": "8px", "margin": "0"}}, Children: []site.Component{
			{Kind: site.KindAccordion, Props: site.Props{"items": []any{map[string]any{"title": "Q", "content": "A"}}}},
		}},
	}
	render := func() string {
		ctx := testContext()
		ctx.Session = NewSession()
		return r.RenderTree(tree, ctx)
	}
	assert.Equal(t, render(), render())
}

func TestCountdownEmitsTargetOnly(t *testing.T) {
	r := New()
	out := r.Render(site.Component{Kind: site.KindCountdown, Props: site.Props{"target": "2030-01-02"}}, testContext())
	assert.Contains(t, out, `data-countdown-target="2030-01-02T00:00:00Z"`)
	assert.Contains(t, out, `data-unit="days">0<`)
}

func TestCollectionCoercion(t *testing.T) {
	r := New()
	out := r.Render(site.Component{Kind: site.KindList, Props: site.Props{"items": "single"}}, testContext())
	assert.Contains(t, out, "<li>single</li>")

	out = r.Render(site.Component{Kind: site.KindGallery, Props: site.Props{"images": map[string]any{"src": "a.png"}}}, testContext())
	assert.Contains(t, out, `src="a.png"`)
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	r := New()
	ctx := testContext()
	ctx.Session = NewSession()
	out := r.RenderTree([]site.Component{
		{Kind: panicKind, ID: "c1"},
		{Kind: site.KindParagraph, Props: site.Props{"text": "after"}},
	}, ctx)

	assert.Contains(t, out, `<!-- sitepress: render failed for "test-panic" -->`)
	assert.Contains(t, out, "after")
	failures := ctx.Session.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, "c1", failures[0].ComponentID)
	assert.Equal(t, "about", failures[0].Page)
}

func TestNavbarLinksAndActivePage(t *testing.T) {
	r := New()
	out := r.Render(site.Component{Kind: site.KindNavbar, Props: site.Props{"brand": "Acme"}}, testContext())
	active := findAll(t, out, func(n *html.Node) bool { return n.Data == "a" && hasClass(n, "is-active") })
	require.Len(t, active, 1)
	assert.Equal(t, "/about", attrOf(active[0], "href"))
	assert.Equal(t, "page", attrOf(active[0], "aria-current"))
}

func TestLanguageSwitcherLinksTranslations(t *testing.T) {
	r := New()
	ctx := testContext()
	ctx.Language = "fr"
	out := r.Render(site.Component{Kind: site.KindLanguageSwitcher}, ctx)
	links := findAll(t, out, func(n *html.Node) bool { return n.Data == "a" })
	require.Len(t, links, 2)
	assert.Equal(t, "/about", attrOf(links[0], "href"))
	assert.Equal(t, "/fr/about", attrOf(links[1], "href"))
	assert.True(t, hasClass(links[1], "is-active"))
	assert.Equal(t, "FR", links[1].FirstChild.Data)
}

func TestFormActionFromContext(t *testing.T) {
	r := New()
	ctx := testContext()
	ctx.FormActionURL = "https://forms.example.com/submit"
	out := r.Render(site.Component{Kind: site.KindContactForm}, ctx)
	forms := findAll(t, out, func(n *html.Node) bool { return n.Data == "form" })
	require.Len(t, forms, 1)
	assert.Equal(t, "https://forms.example.com/submit", attrOf(forms[0], "action"))
	assert.Len(t, findAll(t, out, func(n *html.Node) bool { return n.Data == "input" || n.Data == "textarea" }), 3)
}

func TestUnsafeURLsAreNeutralized(t *testing.T) {
	r := New()
	out := r.Render(site.Component{Kind: site.KindButton, Props: site.Props{"label": "Go", "href": "javascript:alert(1)"}}, testContext())
	assert.Contains(t, out, `href="#"`)
}

func TestVideoEmbedURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/embed/abc123", videoEmbedURL("https://www.youtube.com/watch?v=abc123&t=4", false))
	assert.Equal(t, "https://www.youtube.com/embed/xyz", videoEmbedURL("https://youtu.be/xyz", false))
	assert.Equal(t, "https://player.vimeo.com/video/42", videoEmbedURL("https://vimeo.com/42", false))
	assert.Empty(t, videoEmbedURL("https://cdn.example.com/clip.mp4", false))
}

func TestBackgroundImageURLCannotBreakOutOfDeclaration(t *testing.T) {
	hostile := `x.png');background:red;content:('`
	cases := []struct {
		name  string
		kind  site.Kind
		class string
	}{
		{"hero", site.KindHero, "sp-hero"},
		{"section", site.KindSection, "sp-section"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := New().Render(site.Component{Kind: tc.kind, Props: site.Props{"backgroundImage": hostile}}, testContext())
			nodes := findAll(t, out, func(n *html.Node) bool { return hasClass(n, tc.class) })
			require.NotEmpty(t, nodes)
			style := attrOf(nodes[0], "style")
			assert.Contains(t, style, `background-image:url('x.png%27%29;background:red;content:%28%27')`)
			assert.Equal(t, 2, strings.Count(style, "'"))
		})
	}

	uri := "data:image/png;base64,iVBORw0KGgo="
	out := New().Render(site.Component{Kind: site.KindHero, Props: site.Props{"backgroundImage": uri}}, testContext())
	assert.Contains(t, out, uri)
}

func TestCSSURL(t *testing.T) {
	assert.Equal(t, `url('/img/a%20b.png')`, cssURL(" /img/a b.png "))
	assert.Equal(t, `url('#')`, cssURL("javascript:alert(1)"))
	assert.Equal(t, `url('a%22b%5Cc')`, cssURL(`a"b\c`))
}
