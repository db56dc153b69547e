package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"git.home.luguber.info/inful/sitepress/internal/logfields"
	"git.home.luguber.info/inful/sitepress/internal/site"
)

// handlerFunc renders the markup of one kind. It must open its outermost
// element with n.open so cross-cutting classes and attributes land there.
type handlerFunc func(n *node) string

var handlers = map[site.Kind]handlerFunc{}

func register(kind site.Kind, fn handlerFunc) {
	if _, dup := handlers[kind]; dup {
		panic("render: duplicate handler for " + string(kind))
	}
	handlers[kind] = fn
}

// HasHandler reports whether kind has a registered handler.
func HasHandler(kind site.Kind) bool {
	_, ok := handlers[kind]
	return ok
}

// Renderer renders components. It is stateless apart from its markdown
// converter and may be shared between exports.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a Renderer.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render returns the markup of c. A nil ctx.Session gets a fresh session
// scoped to this call.
func (r *Renderer) Render(c site.Component, ctx Context) string {
	if ctx.Session == nil {
		ctx.Session = NewSession()
	}
	return r.render(c, &ctx)
}

// RenderTree renders a component list in order and concatenates the result.
func (r *Renderer) RenderTree(cs []site.Component, ctx Context) string {
	if ctx.Session == nil {
		ctx.Session = NewSession()
	}
	var b strings.Builder
	for _, c := range cs {
		b.WriteString(r.render(c, &ctx))
	}
	return b.String()
}

func (r *Renderer) render(c site.Component, ctx *Context) (out string) {
	if c.Hidden.All() {
		return ""
	}
	fn, ok := handlers[c.Kind]
	if !ok {
		return "<!-- sitepress: unknown component " + strconv.Quote(commentSafe(string(c.Kind))) + " -->"
	}

	n := &node{r: r, ctx: ctx, c: c, p: c.Props}
	if n.p == nil {
		n.p = site.Props{}
	}
	n.prepare()

	defer func() {
		if rec := recover(); rec != nil {
			reason := fmt.Sprint(rec)
			slog.Warn("Component handler panicked",
				logfields.Component(string(c.Kind)),
				logfields.Page(ctx.CurrentSlug),
				logfields.Language(ctx.Language),
				slog.String("reason", reason))
			ctx.Session.failures = append(ctx.Session.failures, Failure{
				Kind: c.Kind, ComponentID: c.ID, Page: ctx.CurrentSlug, Reason: reason,
			})
			out = "<!-- sitepress: render failed for " + strconv.Quote(commentSafe(string(c.Kind))) + " -->"
		}
	}()

	markup := fn(n)
	if markup == "" {
		return ""
	}
	return n.styleBlock + markup
}

// markdown converts source to HTML with raw HTML disabled.
func (r *Renderer) markdown(src string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "<pre>" + esc(src) + "</pre>"
	}
	return buf.String()
}

// node is the per-component render scope handed to handlers.
type node struct {
	r   *Renderer
	ctx *Context
	c   site.Component
	p   site.Props

	classes    []string // cross-cutting classes for the outermost element
	attrs      string   // cross-cutting attributes for the outermost element
	inline     []string // desktop declarations plus handler-added ones
	styleBlock string   // scoped media-query rules emitted before the markup
	opened     bool
}

func (n *node) prepare() {
	h := n.c.Hidden
	if h.Desktop {
		n.classes = append(n.classes, "hide-desktop")
	}
	if h.Tablet {
		n.classes = append(n.classes, "hide-tablet")
	}
	if h.Mobile {
		n.classes = append(n.classes, "hide-mobile")
	}

	n.inline = declarations(n.c.Styles.Desktop, false)
	if n.c.Styles.Responsive() {
		cls := n.ctx.Session.nextResponsiveClass()
		n.classes = append(n.classes, cls)
		var b strings.Builder
		b.WriteString("<style>")
		if d := declarations(n.c.Styles.Tablet, true); len(d) > 0 {
			b.WriteString("@media (max-width:1024px){." + cls + "{" + strings.Join(d, ";") + "}}")
		}
		if d := declarations(n.c.Styles.Mobile, true); len(d) > 0 {
			b.WriteString("@media (max-width:640px){." + cls + "{" + strings.Join(d, ";") + "}}")
		}
		b.WriteString("</style>")
		n.styleBlock = b.String()
	}

	if a := n.c.Animation; a != nil && a.Kind != "" {
		n.attrs += attr("data-animate", a.Kind)
		if a.Delay > 0 {
			n.attrs += attr("data-animate-delay", strconv.Itoa(a.Delay))
		}
		n.attrs += attr("data-animate-speed", a.Speed)
	}
}

// style adds a handler-owned inline declaration to the outermost element.
func (n *node) style(property, value string) {
	if value == "" {
		return
	}
	n.inline = append(n.inline, property+":"+value)
}

// open renders the outermost start tag with the cross-cutting additions.
// Subsequent calls behave like plainOpen.
func (n *node) open(tag, class string, attrs ...string) string {
	if n.opened {
		return plainOpen(tag, class, attrs...)
	}
	n.opened = true
	classes := make([]string, 0, len(n.classes)+1)
	if class != "" {
		classes = append(classes, class)
	}
	classes = append(classes, n.classes...)
	if extra := n.p.String("class"); extra != "" {
		classes = append(classes, extra)
	}

	var b strings.Builder
	b.WriteString("<" + tag)
	if id := n.p.String("anchor"); id != "" {
		b.WriteString(attr("id", id))
	}
	if len(classes) > 0 {
		b.WriteString(attr("class", strings.Join(classes, " ")))
	}
	if len(n.inline) > 0 {
		b.WriteString(attr("style", strings.Join(n.inline, ";")))
	}
	b.WriteString(n.attrs)
	for _, a := range attrs {
		b.WriteString(a)
	}
	b.WriteString(">")
	return b.String()
}

// wrap is open + body + closing tag.
func (n *node) wrap(tag, class, body string, attrs ...string) string {
	return n.open(tag, class, attrs...) + body + "</" + tag + ">"
}

// void renders a self-contained element such as <hr> or <img> as the outermost element.
func (n *node) void(tag, class string, attrs ...string) string {
	return n.open(tag, class, attrs...)
}

// children renders c.Children with the same context.
func (n *node) children() string {
	var b strings.Builder
	for _, child := range n.c.Children {
		b.WriteString(n.r.render(child, n.ctx))
	}
	return b.String()
}

// childList renders each visible child separately.
func (n *node) childList() []string {
	out := make([]string, 0, len(n.c.Children))
	for _, child := range n.c.Children {
		if m := n.r.render(child, n.ctx); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// text returns the escaped property value.
func (n *node) text(key string) string { return esc(n.p.String(key)) }

// href resolves a link target from a property bag: "page" names a site page,
// otherwise "href", "url" or "link" is used as given.
func (n *node) href(p site.Props) string {
	if slug := p.String("page"); slug != "" {
		return n.ctx.links().PageHref(slug, n.ctx.Language)
	}
	for _, key := range []string{"href", "url", "link"} {
		if u := p.String(key); u != "" {
			return safeURL(u)
		}
	}
	return ""
}

// uid mints a deterministic element id unless the component carries one.
func (n *node) uid(prefix string) string {
	if n.c.ID != "" {
		return "sp-" + prefix + "-" + cssIdent(n.c.ID)
	}
	return n.ctx.Session.nextID(prefix)
}

// declarations turns a style map into sorted "prop:value" pairs with
// characters that could escape a rule or element removed.
func declarations(m map[string]string, important bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		prop := cssProperty(k)
		val := cssValue(m[k])
		if prop == "" || val == "" {
			continue
		}
		if important {
			val += " !important"
		}
		out = append(out, prop+":"+val)
	}
	return out
}

// cssProperty converts camelCase keys to kebab-case and drops anything else.
func cssProperty(k string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(k) {
		switch {
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cssValue(v string) string {
	v = strings.Map(func(r rune) rune {
		switch r {
		case '{', '}', '<', '>', '\n', '\r':
			return -1
		}
		return r
	}, v)
	return strings.TrimSpace(v)
}

var cssURLEscaper = strings.NewReplacer(
	`'`, "%27", `"`, "%22", "(", "%28", ")", "%29", `\`, "%5C", " ", "%20",
)

// cssURL renders u as a quoted CSS url() value. Characters that could end
// the string or the function are percent-encoded.
func cssURL(u string) string {
	return "url('" + cssURLEscaper.Replace(cssValue(safeURL(u))) + "')"
}

func cssIdent(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func commentSafe(s string) string { return strings.ReplaceAll(s, "--", "") }

func itoa(i int) string { return strconv.Itoa(i) }
