package render

import (
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitepress/internal/site"
)

func esc(s string) string { return html.EscapeString(s) }

// attr renders ` name="value"` with value escaped, or "" when value is empty.
func attr(name, value string) string {
	if value == "" {
		return ""
	}
	return " " + name + `="` + esc(value) + `"`
}

// flag renders a boolean attribute.
func flag(name string, on bool) string {
	if !on {
		return ""
	}
	return " " + name
}

func plainOpen(tag, class string, attrs ...string) string {
	var b strings.Builder
	b.WriteString("<" + tag)
	b.WriteString(attr("class", class))
	for _, a := range attrs {
		b.WriteString(a)
	}
	b.WriteString(">")
	return b.String()
}

// el renders a non-outermost element around already-rendered body markup.
func el(tag, class, body string, attrs ...string) string {
	return plainOpen(tag, class, attrs...) + body + "</" + tag + ">"
}

// textEl renders an element around escaped text, or "" when text is empty.
func textEl(tag, class, text string, attrs ...string) string {
	if text == "" {
		return ""
	}
	return el(tag, class, esc(text), attrs...)
}

// safeURL neutralizes script-bearing URL schemes.
func safeURL(u string) string {
	trimmed := strings.ToLower(strings.TrimSpace(u))
	for _, scheme := range []string{"javascript:", "vbscript:", "data:text"} {
		if strings.HasPrefix(trimmed, scheme) {
			return "#"
		}
	}
	return strings.TrimSpace(u)
}

// img renders an image element from a source URL; empty sources render nothing.
func img(src, alt, class string, lazy bool) string {
	if src == "" {
		return ""
	}
	loading := ""
	if lazy {
		loading = attr("loading", "lazy")
	}
	return "<img" + attr("class", class) + attr("src", safeURL(src)) + ` alt="` + esc(alt) + `"` + loading + ">"
}

// link renders an anchor; external links open in a new tab when requested.
func link(href, class, body string, newTab bool) string {
	if href == "" {
		href = "#"
	}
	extra := ""
	if newTab {
		extra = attr("target", "_blank") + attr("rel", "noopener noreferrer")
	}
	return `<a` + attr("class", class) + attr("href", href) + extra + ">" + body + "</a>"
}

// button renders a call-to-action link from {label, page|href, variant, newTab}.
func (n *node) button(p site.Props, defaultVariant string) string {
	label := p.StringOr("label", p.String("text"))
	if label == "" {
		return ""
	}
	variant := p.StringOr("variant", defaultVariant)
	return link(n.href(p), "sp-btn sp-btn-"+cssIdent(variant), esc(label), p.Bool("newTab"))
}

// buttons renders a button row from a collection property.
func (n *node) buttons(key string) string {
	items := n.p.Items(key)
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for i, it := range items {
		def := "primary"
		if i > 0 {
			def = "secondary"
		}
		b.WriteString(n.button(it, def))
	}
	return el("div", "sp-actions", b.String())
}

// itemLabel picks the first non-empty display label of an item.
func itemLabel(p site.Props) string {
	for _, key := range []string{"label", "title", "name", "text"} {
		if s := p.String(key); s != "" {
			return s
		}
	}
	return ""
}

// paragraphs splits plain text on blank lines into escaped <p> elements.
func paragraphs(text string) string {
	var b strings.Builder
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>" + strings.ReplaceAll(esc(para), "\n", "<br>") + "</p>")
	}
	return b.String()
}
